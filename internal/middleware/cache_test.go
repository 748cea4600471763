package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/taskflow/taskflow-api/internal/cache"
)

func setupCacheTest(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	return cache.New(rdb, time.Minute), s
}

// identity injects a fixed user id the way JWTAuth would.
func identity(uid uint64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_id", uid)
			return next(c)
		}
	}
}

// countingHandler writes a JSON body and counts invocations.
func countingHandler(calls *int, body string) echo.HandlerFunc {
	return func(c echo.Context) error {
		*calls++
		return c.JSON(http.StatusOK, echo.Map{"data": body})
	}
}

func doGET(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestResponseCacheMissThenHit(t *testing.T) {
	store, _ := setupCacheTest(t)
	calls := 0

	e := echo.New()
	e.GET("/v1/tasks/:id", countingHandler(&calls, "task"),
		identity(1), ResponseCache(store, cache.NamespaceTasksGet, 0))

	first := doGET(e, "/v1/tasks/7")
	if first.Code != http.StatusOK {
		t.Fatalf("first request: status %d", first.Code)
	}
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("first request: X-Cache = %q, want MISS", got)
	}
	if calls != 1 {
		t.Fatalf("first request: handler called %d times", calls)
	}

	second := doGET(e, "/v1/tasks/7")
	if second.Code != http.StatusOK {
		t.Fatalf("second request: status %d", second.Code)
	}
	if got := second.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second request: X-Cache = %q, want HIT", got)
	}
	if calls != 1 {
		t.Errorf("hit invoked the handler: %d calls", calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("replayed body differs: %q vs %q", first.Body.String(), second.Body.String())
	}
	if ct := second.Header().Get(echo.HeaderContentType); ct != first.Header().Get(echo.HeaderContentType) {
		t.Errorf("replayed content type differs: %q", ct)
	}
}

func TestResponseCacheQueryIsPartOfKey(t *testing.T) {
	store, _ := setupCacheTest(t)
	calls := 0

	e := echo.New()
	e.GET("/v1/tasks/search", countingHandler(&calls, "results"),
		identity(1), ResponseCache(store, cache.NamespaceTasksSearch, 0))

	doGET(e, "/v1/tasks/search?q=bug")
	doGET(e, "/v1/tasks/search?q=feature")
	if calls != 2 {
		t.Errorf("different queries shared a cache slot: %d calls", calls)
	}
	doGET(e, "/v1/tasks/search?q=bug")
	if calls != 2 {
		t.Errorf("repeated query was not served from cache: %d calls", calls)
	}
}

func TestResponseCacheIsolatesUsers(t *testing.T) {
	store, _ := setupCacheTest(t)

	callsA, callsB := 0, 0
	ea := echo.New()
	ea.GET("/v1/boards", countingHandler(&callsA, "alice"),
		identity(1), ResponseCache(store, cache.NamespaceBoardsList, 0))
	eb := echo.New()
	eb.GET("/v1/boards", countingHandler(&callsB, "bob"),
		identity(2), ResponseCache(store, cache.NamespaceBoardsList, 0))

	doGET(ea, "/v1/boards")
	rec := doGET(eb, "/v1/boards")
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("second user got X-Cache %q for a path only the first user had cached", got)
	}
	if callsB != 1 {
		t.Errorf("second user's handler called %d times", callsB)
	}

	// Each user now replays their own payload.
	recA := doGET(ea, "/v1/boards")
	if recA.Header().Get("X-Cache") != "HIT" {
		t.Error("first user lost their cached entry")
	}
	if recA.Body.String() == doGET(eb, "/v1/boards").Body.String() {
		t.Error("users shared a cached payload")
	}
}

func TestResponseCacheSkipsUnauthenticated(t *testing.T) {
	store, _ := setupCacheTest(t)
	calls := 0

	e := echo.New()
	e.GET("/v1/boards", countingHandler(&calls, "boards"),
		ResponseCache(store, cache.NamespaceBoardsList, 0))

	doGET(e, "/v1/boards")
	rec := doGET(e, "/v1/boards")
	if calls != 2 {
		t.Errorf("unauthenticated requests were cached: %d calls", calls)
	}
	if got := rec.Header().Get("X-Cache"); got != "" {
		t.Errorf("unauthenticated request got X-Cache %q", got)
	}
}

func TestResponseCacheSkipsNonGet(t *testing.T) {
	store, _ := setupCacheTest(t)
	calls := 0

	e := echo.New()
	h := func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}
	e.POST("/v1/boards", h, identity(1), ResponseCache(store, cache.NamespaceBoardsList, 0))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/boards", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
	}
	if calls != 2 {
		t.Errorf("POST responses were cached: %d calls", calls)
	}
}

func TestResponseCacheSkipsNon200(t *testing.T) {
	store, _ := setupCacheTest(t)
	calls := 0

	e := echo.New()
	e.GET("/v1/tasks/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}, identity(1), ResponseCache(store, cache.NamespaceTasksGet, 0))

	doGET(e, "/v1/tasks/404")
	rec := doGET(e, "/v1/tasks/404")
	if calls != 2 {
		t.Errorf("404 response was cached: %d calls", calls)
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}
}

func TestResponseCacheSkipsOversizedBody(t *testing.T) {
	store, _ := setupCacheTest(t)
	calls := 0
	big := make([]byte, 256)
	for i := range big {
		big[i] = 'x'
	}

	e := echo.New()
	e.GET("/v1/tasks/:id", func(c echo.Context) error {
		calls++
		return c.Blob(http.StatusOK, "text/plain", big)
	}, identity(1), ResponseCache(store, cache.NamespaceTasksGet, 64))

	doGET(e, "/v1/tasks/1")
	rec := doGET(e, "/v1/tasks/1")
	if calls != 2 {
		t.Errorf("oversized body was cached: %d calls", calls)
	}
	if rec.Body.Len() != len(big) {
		t.Errorf("second response truncated: %d bytes", rec.Body.Len())
	}
}

func TestResponseCacheEntryExpires(t *testing.T) {
	store, s := setupCacheTest(t)
	calls := 0

	e := echo.New()
	e.GET("/v1/tasks/:id", countingHandler(&calls, "task"),
		identity(1), ResponseCache(store, cache.NamespaceTasksGet, 0))

	doGET(e, "/v1/tasks/7")
	s.FastForward(61 * time.Second)
	rec := doGET(e, "/v1/tasks/7")
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("expired entry still served: X-Cache = %q", got)
	}
	if calls != 2 {
		t.Errorf("handler called %d times", calls)
	}
}

func TestResponseCacheInvalidationWithinTTL(t *testing.T) {
	store, _ := setupCacheTest(t)
	calls := 0

	e := echo.New()
	e.GET("/v1/tasks/:id", countingHandler(&calls, "task"),
		identity(1), ResponseCache(store, cache.NamespaceTasksGet, 0))

	doGET(e, "/v1/tasks/7")
	if rec := doGET(e, "/v1/tasks/7"); rec.Header().Get("X-Cache") != "HIT" {
		t.Fatal("warm-up hit missing")
	}

	// A write path would purge the namespace after committing.
	store.ClearNamespace(context.Background(), cache.NamespaceTasksGet)

	rec := doGET(e, "/v1/tasks/7")
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("invalidated entry still served: X-Cache = %q", got)
	}
	if calls != 2 {
		t.Errorf("handler called %d times", calls)
	}
}

func TestPayloadCodecRoundtrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Set("X-Request-Id", "abc123")
	body := []byte(`{"id":1}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(payload)
	if !ok {
		t.Fatal("decodePayload rejected its own encoding")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" || gotHdr.Get("X-Request-Id") != "abc123" {
		t.Errorf("headers lost in roundtrip: %v", gotHdr)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q", gotBody)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, []byte("not a payload")} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Errorf("decodePayload accepted %v", bs)
		}
	}
}
