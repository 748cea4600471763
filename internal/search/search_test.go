package search

import (
	"context"
	"testing"
)

func TestBuildBooleanQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"auth", `+"auth"`},
		{"implement auth", `+"implement" +"auth"`},
		{"  spaced   out  ", `+"spaced" +"out"`},
		{`quo"ted`, `+"quoted"`},
		{`""`, ""},
		{"", ""},
		{"   ", ""},
		{"multi\nline\ttabs", `+"multi" +"line" +"tabs"`},
	}
	for _, c := range cases {
		if got := buildBooleanQuery(c.in); got != c.want {
			t.Errorf("buildBooleanQuery(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBlankQueryIsNoOp(t *testing.T) {
	// A blank query must return empty without touching the database at
	// all, which is why a nil handle is safe here.
	ft := NewFulltextSearcher(nil)
	lk := NewLikeSearcher(nil)
	// A lone quote tokenizes to nothing in boolean mode, so it is blank
	// for the fulltext backend only.
	for _, text := range []string{"", "   ", "\t\n", `"`} {
		items, total, err := ft.SearchTasks(context.Background(), Query{OwnerID: 1, Text: text})
		if err != nil {
			t.Errorf("fulltext %q: %v", text, err)
		}
		if len(items) != 0 || total != 0 {
			t.Errorf("fulltext %q: %d items, total %d", text, len(items), total)
		}
	}
	for _, text := range []string{"", "   ", "\t\n"} {
		items, total, err := lk.SearchTasks(context.Background(), Query{OwnerID: 1, Text: text})
		if err != nil {
			t.Errorf("like %q: %v", text, err)
		}
		if len(items) != 0 || total != 0 {
			t.Errorf("like %q: %d items, total %d", text, len(items), total)
		}
	}
}

func TestClampPage(t *testing.T) {
	q := Query{Skip: -5, Limit: 0}
	clampPage(&q)
	if q.Skip != 0 || q.Limit != 100 {
		t.Errorf("clampPage gave skip=%d limit=%d", q.Skip, q.Limit)
	}

	q = Query{Skip: 40, Limit: 20}
	clampPage(&q)
	if q.Skip != 40 || q.Limit != 20 {
		t.Errorf("clampPage mangled valid values: skip=%d limit=%d", q.Skip, q.Limit)
	}
}
