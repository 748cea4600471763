package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithQuery(rawQuery string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest("GET", "/v1/boards?"+rawQuery, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		query     string
		wantSkip  int
		wantLimit int
	}{
		{"", 0, 100},
		{"skip=20&limit=10", 20, 10},
		{"limit=500", 0, 100},      // clamped to max
		{"skip=-3", 0, 100},        // negative ignored
		{"limit=0", 0, 100},        // non-positive ignored
		{"skip=abc&limit=xyz", 0, 100},
	}
	for _, c := range cases {
		skip, limit := pageParams(contextWithQuery(c.query))
		if skip != c.wantSkip || limit != c.wantLimit {
			t.Errorf("pageParams(%q) = (%d, %d), want (%d, %d)",
				c.query, skip, limit, c.wantSkip, c.wantLimit)
		}
	}
}

func TestNewPage(t *testing.T) {
	p := newPage([]int{1, 2, 3}, 23, 0, 10)
	if p.Page != 1 || p.Size != 10 || p.Total != 23 {
		t.Errorf("page 1: %+v", p)
	}
	p = newPage([]int{}, 23, 20, 10)
	if p.Page != 3 {
		t.Errorf("skip=20 limit=10 gives page %d, want 3", p.Page)
	}
	p = newPage(nil, 0, 0, 0)
	if p.Page != 1 {
		t.Errorf("zero limit gives page %d, want 1", p.Page)
	}
}

func TestGetUserIDRepresentations(t *testing.T) {
	e := echo.New()
	for _, v := range []any{uint64(7), int(7), int64(7), float64(7), "7"} {
		c := e.NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())
		c.Set("user_id", v)
		got, err := getUserID(c)
		if err != nil || got != 7 {
			t.Errorf("user_id %T(%v): got %d, err %v", v, v, got, err)
		}
	}

	c := e.NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())
	if _, err := getUserID(c); err == nil {
		t.Error("missing identity accepted")
	}
	c.Set("user_id", "not-a-number")
	if _, err := getUserID(c); err == nil {
		t.Error("garbage identity accepted")
	}
}
