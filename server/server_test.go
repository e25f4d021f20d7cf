package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amonks/tasklab/actions"
	"github.com/amonks/tasklab/catalog"
	"github.com/amonks/tasklab/derived"
	"github.com/amonks/tasklab/task"
	"github.com/amonks/tasklab/viewcache"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testNow = time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

type testServer struct {
	url    string
	client *Client
	store  *task.Store
	views  *viewcache.Cache
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	views := viewcache.New(nil)
	store := task.NewStore(task.Options{Invalidator: views})
	srv, err := NewServer(Options{
		Actions: actions.New(store, nil),
		Items:   catalog.Generate(10, testNow),
		Views:   views,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{url: ts.URL, client: NewClient(ts.URL), store: store, views: views}
}

func postRaw(t *testing.T, url string, body string) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func TestNewServerRequiresActions(t *testing.T) {
	if _, err := NewServer(Options{}); err == nil {
		t.Fatal("expected error without actions")
	}
}

func TestTaskRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	created, err := srv.client.CreateTask(ctx, task.Input{Title: "Buy milk", Priority: "low", Tags: task.ParseTags("x, y")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if diff := cmp.Diff([]string{"x", "y"}, created.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if created.Status != task.StatusPending {
		t.Errorf("status = %q, want pending", created.Status)
	}

	shown, err := srv.client.ShowTask(ctx, created.ID[:5])
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if diff := cmp.Diff(created, shown); diff != "" {
		t.Errorf("show mismatch (-want +got):\n%s", diff)
	}

	updated, err := srv.client.UpdateTask(ctx, created.ID, task.Patch{Status: task.StringPtr("completed")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != task.StatusCompleted || updated.Title != "Buy milk" {
		t.Errorf("unexpected update %+v", updated)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("timestamp invariants broken: %+v -> %+v", created, updated)
	}

	listed, err := srv.client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("unexpected list %+v", listed)
	}

	completed := task.StatusCompleted
	found, err := srv.client.FindTasks(ctx, task.Filter{Status: &completed})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 completed task, got %d", len(found))
	}

	if err := srv.client.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if srv.store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", srv.store.Len())
	}
}

func TestCreateValidationError(t *testing.T) {
	srv := newTestServer(t)

	_, err := srv.client.CreateTask(context.Background(), task.Input{Title: "", Priority: "urgent"})

	var validationErr *task.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if diff := cmp.Diff([]string{task.FieldPriority, task.FieldTitle}, validationErr.Paths()); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	if srv.store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", srv.store.Len())
	}
}

func TestNotFoundErrors(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	if _, err := srv.client.UpdateTask(ctx, "missing", task.Patch{Title: task.StringPtr("x")}); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("update: expected ErrTaskNotFound, got %v", err)
	}
	if err := srv.client.DeleteTask(ctx, "nonexistent-id"); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("delete: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := srv.client.ShowTask(ctx, "zzzz"); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("show: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := srv.client.ShowItem(ctx, "item-99"); !errors.Is(err, catalog.ErrItemNotFound) {
		t.Fatalf("show item: expected ErrItemNotFound, got %v", err)
	}
}

func TestStatusCodes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		kind   string
	}{
		{"create ok", "/tasks/create", `{"task":{"title":"A","priority":"low"}}`, http.StatusOK, ""},
		{"create invalid", "/tasks/create", `{"task":{"title":"","priority":"low"}}`, http.StatusUnprocessableEntity, "validation"},
		{"delete missing", "/tasks/delete", `{"id":"missing"}`, http.StatusNotFound, "not_found"},
		{"delete without id", "/tasks/delete", `{}`, http.StatusUnprocessableEntity, "validation"},
		{"unknown field", "/tasks/create", `{"bogus":true}`, http.StatusBadRequest, ""},
		{"empty body", "/tasks/list", ``, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, payload := postRaw(t, srv.url+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (%v)", resp.StatusCode, tt.status, payload)
			}
			if tt.kind != "" && payload["kind"] != tt.kind {
				t.Errorf("kind = %v, want %s", payload["kind"], tt.kind)
			}
		})
	}
}

func TestRequiresPost(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.url + "/tasks/list")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
	if allow := resp.Header.Get("Allow"); allow != http.MethodPost {
		t.Fatalf("Allow = %q, want POST", allow)
	}
}

func TestItemsAndDerive(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	items, err := srv.client.ListItems(ctx, "", "health")
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	var ids []string
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	if diff := cmp.Diff([]string{"item-4", "item-9"}, ids); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}

	none, err := srv.client.ListItems(ctx, "nothing matches", "")
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", none)
	}

	item, err := srv.client.ShowItem(ctx, "item-3")
	if err != nil {
		t.Fatalf("show item: %v", err)
	}
	if item.Category != "shopping" {
		t.Errorf("category = %q, want shopping", item.Category)
	}

	values, err := srv.client.Derive(ctx, derived.State{Counter: 7, Items: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if diff := cmp.Diff(derived.Values{IsPrime: true, ItemCount: 2}, values); diff != "" {
		t.Errorf("derived mismatch (-want +got):\n%s", diff)
	}
}

func TestViewStatsCountInvalidations(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	if _, err := srv.client.CreateTask(ctx, task.Input{Title: "A", Priority: "low"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	stats, err := srv.client.ViewStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Invalidations != 1 {
		t.Fatalf("expected 1 invalidation, got %+v", stats)
	}
}

func TestRecoverHandler(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	srv := &Server{logger: zap.New(core)}
	handler := srv.recoverHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/tasks/list", nil))

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", recorder.Code)
	}
	var result actions.Result[struct{}]
	if err := json.NewDecoder(recorder.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Kind != actions.KindInternal {
		t.Fatalf("kind = %q, want internal", result.Kind)
	}
	if logs.FilterMessage("panic handling request").Len() != 1 {
		t.Fatalf("expected logged panic, got %v", logs.All())
	}
}

func TestServeListenerShutsDownOnCancel(t *testing.T) {
	views := viewcache.New(nil)
	srv, err := NewServer(Options{
		Actions: actions.New(task.NewStore(task.Options{Invalidator: views}), nil),
		Views:   views,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.ServeListener(ctx, listener)
	}()

	client := NewClient(listener.Addr().String())
	if _, err := client.ListTasks(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	client.client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStatusCode(t *testing.T) {
	tests := map[actions.Kind]int{
		"":                     http.StatusOK,
		actions.KindValidation: http.StatusUnprocessableEntity,
		actions.KindNotFound:   http.StatusNotFound,
		actions.KindInternal:   http.StatusInternalServerError,
	}
	for kind, want := range tests {
		if got := StatusCode(kind); got != want {
			t.Errorf("StatusCode(%q) = %d, want %d", kind, got, want)
		}
	}
}
