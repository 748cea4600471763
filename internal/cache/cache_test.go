package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	return New(rdb, ttl), s
}

func TestKeyFormat(t *testing.T) {
	cases := []struct {
		namespace string
		path      string
		rawQuery  string
		userID    uint64
		want      string
	}{
		{NamespaceTasksGet, "/v1/tasks/7", "", 3, "tasks:get:/v1/tasks/7|u:3"},
		{NamespaceTasksSearch, "/v1/tasks/search", "q=bug&page=2", 3, "tasks:search:/v1/tasks/search?q=bug&page=2|u:3"},
		{NamespaceBoardsList, "/v1/boards", "", 42, "boards:list:/v1/boards|u:42"},
	}
	for _, c := range cases {
		if got := Key(c.namespace, c.path, c.rawQuery, c.userID); got != c.want {
			t.Errorf("Key(%s, %s, %s, %d) = %q, want %q",
				c.namespace, c.path, c.rawQuery, c.userID, got, c.want)
		}
	}
}

func TestKeyDistinguishesUsers(t *testing.T) {
	a := Key(NamespaceTasksGet, "/v1/tasks/7", "", 1)
	b := Key(NamespaceTasksGet, "/v1/tasks/7", "", 2)
	if a == b {
		t.Fatalf("keys for different users collide: %q", a)
	}
}

func TestSetGetRoundtrip(t *testing.T) {
	store, _ := setupTestStore(t, time.Minute)
	ctx := context.Background()

	key := Key(NamespaceTasksGet, "/v1/tasks/1", "", 1)
	payload := []byte("hello world")

	if _, ok := store.Get(ctx, key); ok {
		t.Fatal("expected miss before Set")
	}
	store.Set(ctx, key, payload)
	got, ok := store.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(got) != string(payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestEntriesExpireAtTTL(t *testing.T) {
	store, s := setupTestStore(t, time.Minute)
	ctx := context.Background()

	key := Key(NamespaceBoardsList, "/v1/boards", "", 1)
	store.Set(ctx, key, []byte("boards"))

	s.FastForward(59 * time.Second)
	if _, ok := store.Get(ctx, key); !ok {
		t.Fatal("entry expired before its TTL")
	}

	s.FastForward(2 * time.Second)
	if _, ok := store.Get(ctx, key); ok {
		t.Fatal("entry survived past its TTL")
	}
}

func TestClearNamespaceIsScoped(t *testing.T) {
	store, _ := setupTestStore(t, time.Minute)
	ctx := context.Background()

	taskKey := Key(NamespaceTasksGet, "/v1/tasks/1", "", 1)
	searchKey := Key(NamespaceTasksSearch, "/v1/tasks/search", "q=x", 1)
	boardKey := Key(NamespaceBoardsList, "/v1/boards", "", 1)
	store.Set(ctx, taskKey, []byte("task"))
	store.Set(ctx, searchKey, []byte("search"))
	store.Set(ctx, boardKey, []byte("boards"))

	store.ClearNamespace(ctx, NamespaceTasksGet)

	if _, ok := store.Get(ctx, taskKey); ok {
		t.Error("tasks:get entry survived its namespace clear")
	}
	if _, ok := store.Get(ctx, searchKey); !ok {
		t.Error("tasks:search entry was cleared by the tasks:get purge")
	}
	if _, ok := store.Get(ctx, boardKey); !ok {
		t.Error("boards:list entry was cleared by the tasks:get purge")
	}
}

func TestClearNamespaceClearsAllUsers(t *testing.T) {
	store, _ := setupTestStore(t, time.Minute)
	ctx := context.Background()

	for uid := uint64(1); uid <= 3; uid++ {
		store.Set(ctx, Key(NamespaceTasksGet, "/v1/tasks/9", "", uid), []byte("x"))
	}
	store.ClearNamespace(ctx, NamespaceTasksGet)
	for uid := uint64(1); uid <= 3; uid++ {
		if _, ok := store.Get(ctx, Key(NamespaceTasksGet, "/v1/tasks/9", "", uid)); ok {
			t.Errorf("entry for user %d survived namespace clear", uid)
		}
	}
}

func TestClearNamespaces(t *testing.T) {
	store, _ := setupTestStore(t, time.Minute)
	ctx := context.Background()

	taskKey := Key(NamespaceTasksGet, "/v1/tasks/1", "", 1)
	searchKey := Key(NamespaceTasksSearch, "/v1/tasks/search", "q=x", 1)
	store.Set(ctx, taskKey, []byte("task"))
	store.Set(ctx, searchKey, []byte("search"))

	store.ClearNamespaces(ctx, NamespaceTasksGet, NamespaceTasksSearch)

	if _, ok := store.Get(ctx, taskKey); ok {
		t.Error("tasks:get entry survived")
	}
	if _, ok := store.Get(ctx, searchKey); ok {
		t.Error("tasks:search entry survived")
	}
}

func TestNilStoreIsInert(t *testing.T) {
	ctx := context.Background()
	var store *Store
	store.Set(ctx, "k", []byte("v"))
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("nil store returned a hit")
	}
	store.ClearNamespaces(ctx, NamespaceTasksGet, NamespaceTasksSearch)

	disabled := New(nil, time.Minute)
	disabled.Set(ctx, "k", []byte("v"))
	if _, ok := disabled.Get(ctx, "k"); ok {
		t.Fatal("disabled store returned a hit")
	}
}
