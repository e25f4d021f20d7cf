// Package server exposes the task actions, the item catalog and the web UI
// over HTTP. RPCs are POST-only JSON endpoints whose bodies are
// actions.Result values.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/amonks/tasklab/actions"
	"github.com/amonks/tasklab/catalog"
	"github.com/amonks/tasklab/derived"
	internalstrings "github.com/amonks/tasklab/internal/strings"
	"github.com/amonks/tasklab/viewcache"
	"github.com/amonks/tasklab/web"
	"go.uber.org/zap"
)

// MessageItemNotFound is the result message for unknown catalog items.
const MessageItemNotFound = "Item not found"

const shutdownTimeout = 5 * time.Second

// Options configures a server.
type Options struct {
	// Actions runs task operations. Required.
	Actions *actions.Actions

	// Items is the catalog served by /items RPCs and pages.
	Items []catalog.Item

	// Views caches rendered pages. Defaults to a fresh cache.
	Views *viewcache.Cache

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Server handles task RPCs and serves the web UI.
type Server struct {
	actions *actions.Actions
	items   []catalog.Item
	views   *viewcache.Cache
	logger  *zap.Logger
}

// NewServer creates a server.
func NewServer(opts Options) (*Server, error) {
	if opts.Actions == nil {
		return nil, fmt.Errorf("actions are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	views := opts.Views
	if views == nil {
		views = viewcache.New(logger)
	}
	return &Server{
		actions: opts.Actions,
		items:   opts.Items,
		views:   views,
		logger:  logger,
	}, nil
}

// Handler returns the HTTP handler for RPCs and web pages.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/list", s.handleTasksList)
	mux.HandleFunc("/tasks/find", s.handleTasksFind)
	mux.HandleFunc("/tasks/show", s.handleTasksShow)
	mux.HandleFunc("/tasks/create", s.handleTasksCreate)
	mux.HandleFunc("/tasks/update", s.handleTasksUpdate)
	mux.HandleFunc("/tasks/delete", s.handleTasksDelete)
	mux.HandleFunc("/items/list", s.handleItemsList)
	mux.HandleFunc("/items/show", s.handleItemsShow)
	mux.HandleFunc("/state/derive", s.handleDerive)
	mux.HandleFunc("/views/stats", s.handleViewStats)
	webHandler := web.NewHandler(web.Options{
		Actions: s.actions,
		Items:   s.items,
		Views:   s.views,
		Logger:  s.logger,
	})
	mux.Handle("/web/", webHandler)
	mux.Handle("/web", http.RedirectHandler("/web/tasks", http.StatusFound))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/web/tasks", http.StatusFound)
	})
	return s.recoverHandler(mux)
}

// Serve listens on addr and serves until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, listener)
}

// ServeListener serves on listener until ctx is cancelled, then shuts down
// gracefully. The listener is closed on return.
func (s *Server) ServeListener(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:  s.Handler(),
		ErrorLog: zap.NewStdLog(s.logger),
	}

	s.logger.Info("server listening",
		zap.String("addr", listener.Addr().String()),
		zap.String("web", resolveWebBaseURL(listener.Addr().String())+"/web/tasks"))

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.Serve(listener)
	}()

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		shutdownErr := server.Shutdown(shutdownCtx)
		cancel()
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}

func resolveWebBaseURL(addr string) string {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return internalstrings.TrimTrailingSlash(trimmed)
	}
	host := trimmed
	if strings.HasPrefix(host, ":") {
		host = "127.0.0.1" + host
	}
	if strings.HasPrefix(host, "0.0.0.0:") {
		host = "127.0.0.1:" + strings.TrimPrefix(host, "0.0.0.0:")
	}
	if strings.HasPrefix(host, "[::]:") {
		host = "127.0.0.1:" + strings.TrimPrefix(host, "[::]:")
	}
	return "http://" + host
}

func (s *Server) handleTasksList(w http.ResponseWriter, r *http.Request) {
	var payload tasksListRequest
	if !s.decodeRequest(w, r, &payload) {
		return
	}
	writeResult(w, s.actions.ListTasks())
}

func (s *Server) handleTasksFind(w http.ResponseWriter, r *http.Request) {
	var payload tasksFindRequest
	if !s.decodeRequest(w, r, &payload) {
		return
	}
	writeResult(w, s.actions.FindTasks(payload.Filter))
}

func (s *Server) handleTasksShow(w http.ResponseWriter, r *http.Request) {
	var payload tasksShowRequest
	if !s.decodeRequest(w, r, &payload) {
		return
	}
	id, ok := s.requireID(w, r, payload.ID)
	if !ok {
		return
	}
	writeResult(w, s.actions.ShowTask(id))
}

func (s *Server) handleTasksCreate(w http.ResponseWriter, r *http.Request) {
	var payload tasksCreateRequest
	if !s.decodeRequest(w, r, &payload) {
		return
	}
	writeResult(w, s.actions.CreateTaskInput(payload.Task))
}

func (s *Server) handleTasksUpdate(w http.ResponseWriter, r *http.Request) {
	var payload tasksUpdateRequest
	if !s.decodeRequest(w, r, &payload) {
		return
	}
	id, ok := s.requireID(w, r, payload.ID)
	if !ok {
		return
	}
	writeResult(w, s.actions.UpdateTask(id, payload.Patch))
}

func (s *Server) handleTasksDelete(w http.ResponseWriter, r *http.Request) {
	var payload tasksDeleteRequest
	if !s.decodeRequest(w, r, &payload) {
		return
	}
	id, ok := s.requireID(w, r, payload.ID)
	if !ok {
		return
	}
	writeResult(w, s.actions.DeleteTask(id))
}

func (s *Server) handleItemsList(w http.ResponseWriter, r *http.Request) {
	var payload itemsListRequest
	if !s.decodeRequest(w, r, &payload) {
		return
	}
	category := strings.TrimSpace(payload.Category)
	if category == "" {
		category = catalog.CategoryAll
	}
	items := catalog.Search(catalog.FilterByCategory(s.items, category), payload.Query)
	if items == nil {
		items = []catalog.Item{}
	}
	writeResult(w, actions.Result[[]catalog.Item]{Success: true, Data: items})
}

func (s *Server) handleItemsShow(w http.ResponseWriter, r *http.Request) {
	var payload itemsShowRequest
	if !s.decodeRequest(w, r, &payload) {
		return
	}
	id, ok := s.requireID(w, r, payload.ID)
	if !ok {
		return
	}
	item, err := catalog.Find(s.items, id)
	if err != nil {
		writeResult(w, actions.Result[catalog.Item]{Message: MessageItemNotFound, Kind: actions.KindNotFound})
		return
	}
	writeResult(w, actions.Result[catalog.Item]{Success: true, Data: item})
}

func (s *Server) handleDerive(w http.ResponseWriter, r *http.Request) {
	var payload deriveRequest
	if !s.decodeRequest(w, r, &payload) {
		return
	}
	writeResult(w, actions.Result[derived.Values]{Success: true, Data: derived.Derive(payload.State)})
}

func (s *Server) handleViewStats(w http.ResponseWriter, r *http.Request) {
	var payload emptyRequest
	if !s.decodeRequest(w, r, &payload) {
		return
	}
	writeResult(w, actions.Result[viewcache.Stats]{Success: true, Data: s.views.Stats()})
}

// decodeRequest enforces POST and decodes the JSON body into dest.
// An empty body decodes as an empty object.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dest any) bool {
	if !s.requireMethod(w, r, http.MethodPost) {
		return false
	}
	if err := decodeJSON(r, dest); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return false
	}
	return true
}

func (s *Server) requireID(w http.ResponseWriter, r *http.Request, id string) (string, bool) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		writeResult(w, actions.Result[struct{}]{
			Errors:  map[string]string{actions.FieldID: "id is required"},
			Message: actions.MessageInvalid,
			Kind:    actions.KindValidation,
		})
		return "", false
	}
	return trimmed, true
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseTracker{ResponseWriter: w}
		defer func() {
			if recovered := recover(); recovered != nil {
				s.logger.Error("panic handling request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", recovered),
					zap.Stack("stack"))
				if writer.wroteHeader {
					return
				}
				writeJSON(writer, http.StatusInternalServerError, actions.Result[struct{}]{
					Message: actions.MessageInternal,
					Kind:    actions.KindInternal,
				})
			}
		}()
		next.ServeHTTP(writer, r)
	})
}

func (s *Server) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	s.writeError(w, r, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	return false
}

// StatusCode maps a result kind to its HTTP status.
func StatusCode(kind actions.Kind) int {
	switch kind {
	case "":
		return http.StatusOK
	case actions.KindValidation:
		return http.StatusUnprocessableEntity
	case actions.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeResult[T any](w http.ResponseWriter, result actions.Result[T]) {
	status := http.StatusOK
	if !result.Success {
		status = StatusCode(result.Kind)
		if result.Kind == "" {
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, result)
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Warn("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type responseTracker struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseTracker) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTracker) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(data)
}
