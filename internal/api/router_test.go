package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/godemo/internal/api/controllers"
	"github.com/datallboy/godemo/internal/app"
	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/infra/config"
	"github.com/datallboy/godemo/internal/infra/logger"
	"github.com/datallboy/godemo/internal/progress"
	"github.com/datallboy/godemo/internal/resolver"
	"github.com/datallboy/godemo/internal/store"
)

const validCode = "CSGO-aBcDe-12345-FgHiJ-67890-kLmNo"

type call struct {
	kind    string
	target  string
	dir     string
	workers int
}

// fakeEngine records what the API asked for.
type fakeEngine struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeEngine) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeEngine) DownloadOne(_ context.Context, code domain.ShareCode, dir string, rep progress.Reporter) (string, error) {
	f.record(call{kind: "download", target: string(code), dir: dir})
	rep.Status(domain.StatusEvent{Status: domain.StatusComplete, Message: "done"})
	return filepath.Join(dir, "x.dem"), nil
}

func (f *fakeEngine) RunBatch(_ context.Context, urls []string, dir string, workers int, rep progress.Reporter) (*domain.BatchResult, error) {
	f.record(call{kind: "batch", target: strings.Join(urls, ","), dir: dir, workers: workers})
	return &domain.BatchResult{Total: len(urls), Succeeded: len(urls)}, nil
}

func (f *fakeEngine) Retry(_ context.Context, url, dir string, rep progress.Reporter) (string, error) {
	f.record(call{kind: "retry", target: url, dir: dir})
	return filepath.Join(dir, "x.dem"), nil
}

type testServer struct {
	e      *echo.Echo
	app    *app.Context
	engine *fakeEngine
	hub    *progress.Hub
	demo   *controllers.DemoController
	dir    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := store.NewPersistentStore(filepath.Join(t.TempDir(), "godemo.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	a := app.NewContext(config.Default(), logger.NewNop())
	a.Store = st
	a.Resolver = resolver.Func(func(_ context.Context, code domain.ShareCode) (domain.ResolvedURL, error) {
		if strings.HasSuffix(string(code), "zzzzz") {
			return domain.ResolvedURL{}, &domain.ResolverError{Code: code, Kind: domain.ResolverNoURL}
		}
		return domain.ResolvedURL{Code: code, URL: "http://replay.example/" + string(code) + ".dem.bz2"}, nil
	})
	eng := &fakeEngine{}
	a.Engine = eng

	hub := progress.NewHub(logger.NewNop())
	e := echo.New()
	demo := RegisterRoutes(context.Background(), e, a, hub)

	return &testServer{e: e, app: a, engine: eng, hub: hub, demo: demo, dir: t.TempDir()}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func mustJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestDownloadEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/download", mustJSON(map[string]string{"shareCode": "garbage", "downloadPath": s.dir}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for invalid code, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/api/download", mustJSON(map[string]string{
		"shareCode":    "steam://rungame/730/" + validCode,
		"downloadPath": s.dir,
	}))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	s.demo.Wait()

	if len(s.engine.calls) != 1 || s.engine.calls[0].target != validCode || s.engine.calls[0].dir != s.dir {
		t.Errorf("unexpected engine calls %+v", s.engine.calls)
	}

	// The picked folder became the default
	saved, ok, _ := s.app.Store.GetPreference(context.Background(), domain.PrefDownloadPath)
	if !ok || saved != s.dir {
		t.Errorf("download folder not persisted: %q", saved)
	}
}

func TestMalformedBodyIsRejected(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/download", "/api/resolve", "/api/batch", "/api/retry"} {
		rec := s.do(http.MethodPost, path, `{"urls": [`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400 for a malformed body, got %d", path, rec.Code)
		}
	}
	if len(s.engine.calls) != 0 {
		t.Error("no work may be queued for a malformed request")
	}
}

func TestDownloadEndpointNeedsFolder(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/download", mustJSON(map[string]string{"shareCode": validCode}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 without a folder, got %d", rec.Code)
	}
	if len(s.engine.calls) != 0 {
		t.Error("no work may be queued for an invalid request")
	}
}

func TestBatchEndpoint(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		body string
		code int
	}{
		{`{`, http.StatusBadRequest},
		{mustJSON(map[string]any{"urls": []string{}, "path": s.dir}), http.StatusBadRequest},
		{mustJSON(map[string]any{"urls": []string{"nope"}, "path": s.dir}), http.StatusBadRequest},
		{mustJSON(map[string]any{"urls": []string{"http://x/a.dem.bz2"}, "path": filepath.Join(s.dir, "missing")}), http.StatusBadRequest},
		{mustJSON(map[string]any{"urls": []string{"http://x/a.dem.bz2", "http://x/b.dem.bz2"}, "path": s.dir, "workers": 2}), http.StatusAccepted},
	}
	for _, tt := range tests {
		if rec := s.do(http.MethodPost, "/api/batch", tt.body); rec.Code != tt.code {
			t.Errorf("POST /api/batch %s = %d, want %d", tt.body, rec.Code, tt.code)
		}
	}
	s.demo.Wait()

	if len(s.engine.calls) != 1 {
		t.Fatalf("Expected one batch, got %+v", s.engine.calls)
	}
	if c := s.engine.calls[0]; c.kind != "batch" || c.workers != 2 || c.target != "http://x/a.dem.bz2,http://x/b.dem.bz2" {
		t.Errorf("unexpected batch call %+v", c)
	}
}

func TestRetryEndpoint(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(http.MethodPost, "/api/retry", mustJSON(map[string]string{"url": "ftp://x", "path": s.dir})); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad URL, got %d", rec.Code)
	}

	rec := s.do(http.MethodPost, "/api/retry", mustJSON(map[string]string{"url": "http://x/a.dem.bz2", "path": s.dir}))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", rec.Code)
	}
	s.demo.Wait()

	if len(s.engine.calls) != 1 || s.engine.calls[0].kind != "retry" {
		t.Errorf("unexpected engine calls %+v", s.engine.calls)
	}
}

func TestResolveEndpoint(t *testing.T) {
	s := newTestServer(t)
	events, cancel := s.hub.Subscribe()
	defer cancel()

	bad := "CSGO-aBcDe-12345-FgHiJ-67890-zzzzz"
	rec := s.do(http.MethodPost, "/api/resolve", mustJSON(map[string]any{"codes": []string{validCode, bad, "junk"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res domain.Resolution
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Found) != 1 || res.Found[0].Code != validCode {
		t.Errorf("unexpected found %+v", res.Found)
	}
	if len(res.NotFound) != 2 {
		t.Errorf("Expected 2 not found, got %+v", res.NotFound)
	}

	if n := len(events); n != 2 {
		t.Errorf("Expected a resolving tick per valid code, got %d", n)
	}

	rec = s.do(http.MethodPost, "/api/resolve", `{"text": "no codes here"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for text without codes, got %d", rec.Code)
	}
}

func TestPreferencesEndpoint(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(http.MethodGet, "/api/preferences/theme", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown key, got %d", rec.Code)
	}

	if rec := s.do(http.MethodPut, "/api/preferences/downloadPath", mustJSON(map[string]string{"value": filepath.Join(s.dir, "nope")})); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing folder, got %d", rec.Code)
	}

	if rec := s.do(http.MethodPut, "/api/preferences/downloadPath", mustJSON(map[string]string{"value": s.dir})); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec := s.do(http.MethodGet, "/api/preferences/downloadPath", "")
	var pref controllers.PreferenceResponse
	json.Unmarshal(rec.Body.Bytes(), &pref)
	if pref.Value != s.dir {
		t.Errorf("Expected %s, got %+v", s.dir, pref)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	s.app.Store.RecordDownload(ctx, &domain.HistoryEntry{URL: "http://x/a.dem.bz2", FinalPath: "/a.dem", Status: domain.TaskDone})
	s.app.Store.RecordDownload(ctx, &domain.HistoryEntry{URL: "http://x/b.dem.bz2", FinalPath: "/b.dem", Status: domain.TaskFailed, Error: "404"})

	rec := s.do(http.MethodGet, "/api/history?status=failed", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var entries []domain.HistoryEntry
	json.Unmarshal(rec.Body.Bytes(), &entries)
	if len(entries) != 1 || entries[0].URL != "http://x/b.dem.bz2" {
		t.Errorf("unexpected entries %+v", entries)
	}

	if rec := s.do(http.MethodGet, "/api/history?status=bogus", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown status, got %d", rec.Code)
	}
}

func TestEventStream(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.e)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("unexpected content type %q", ct)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.hub.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	s.hub.Progress(domain.ProgressEvent{Stage: domain.StageDownloading, Current: 1, Total: 2})
	s.hub.Status(domain.StatusEvent{Status: domain.StatusError, Message: "boom", IsError: true, RetryURL: "http://x/a"})

	sc := bufio.NewScanner(resp.Body)
	var lines []string
	for sc.Scan() && len(lines) < 4 {
		if line := sc.Text(); line != "" {
			lines = append(lines, line)
		}
	}

	want := []string{
		"event: progress-update",
		`data: {"type":"downloading","current":1,"total":2}`,
		"event: download-status",
		`data: {"status":"error","message":"boom","isError":true,"retryUrl":"http://x/a"}`,
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("unexpected stream:\n%s", strings.Join(lines, "\n"))
	}
}
