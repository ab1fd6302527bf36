// Package web serves the HTML table viewer and its JSON page endpoint.
//
// Every request builds a fresh pager from the loaded table, so page state lives
// entirely in the URL (?page=, ?q=, ?col=, ?filter=column=value).
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/safehtml"
	"github.com/rs/zerolog"

	"github.com/lfs-lab/certtrack/internal/api"
	"github.com/lfs-lab/certtrack/internal/cli/pagination"
	"github.com/lfs-lab/certtrack/internal/logging"
	"github.com/lfs-lab/certtrack/internal/pager"
	"github.com/lfs-lab/certtrack/internal/table"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// ErrTableNotFound is returned for an unknown table name.
var ErrTableNotFound = errors.New("table not found")

// PageSizeFunc returns the page size for a table name.
type PageSizeFunc func(tableName string) int

// Server is the HTTP table viewer.
type Server struct {
	tables   map[string]*table.Table
	names    []string
	pageSize PageSizeFunc
	renderer *Renderer
	log      zerolog.Logger
	mux      *http.ServeMux
}

// NewServer creates a server over the loaded tables.
func NewServer(tables map[string]*table.Table, pageSize PageSizeFunc, log zerolog.Logger) (*Server, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	s := &Server{
		tables:   tables,
		names:    names,
		pageSize: pageSize,
		renderer: renderer,
		log:      logging.ComponentLogger(log, "web"),
		mux:      http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/tables/{name}", s.handleTableJSON)
	s.mux.HandleFunc("GET /tables/{name}/{$}", s.handleTableHTML)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
}

// Handler returns the server's handler with request logging.
func (s *Server) Handler() http.Handler {
	return s.withRequestLogging(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("operation", "serve").Str("addr", addr).Msg("table viewer listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := logging.NewTraceID()
		ctx := logging.ContextWithTraceID(r.Context(), traceID)
		ctx = s.log.WithContext(ctx)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		logging.FromContext(ctx).Debug().
			Str("operation", "request").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request served")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	vm := IndexViewModel{Menu: menuLinks(r.URL.Path, s.names)}
	for _, name := range s.names {
		vm.Tables = append(vm.Tables, TableSummary{
			Name:  name,
			Total: formatCount(s.tables[name].Len()),
			URL:   safehtml.URLSanitized(tablePath(name)),
		})
	}
	s.renderHTML(w, r, func(buf *bytes.Buffer) error { return s.renderer.RenderIndex(buf, vm) })
}

// tablePage is the data section of the JSON page endpoint.
type tablePage struct {
	Table     string              `json:"table"`
	Columns   []string            `json:"columns"`
	Meta      pager.Meta          `json:"meta"`
	Rows      []tableRow          `json:"rows"`
	Controls  []pager.PageControl `json:"controls"`
	Nav       pager.NavControls   `json:"nav"`
	NoResults bool                `json:"no_results"`
	Message   string              `json:"message,omitempty"`
}

type tableRow struct {
	ID    string   `json:"id"`
	Cells []string `json:"cells"`
}

func (s *Server) handleTableJSON(w http.ResponseWriter, r *http.Request) {
	t, pg, _, err := s.page(r)
	if err != nil {
		writeError(w, err)
		return
	}

	v := pg.View()
	data := tablePage{
		Table:     t.Name,
		Columns:   t.Columns,
		Meta:      pager.NewMeta(v.State),
		Rows:      make([]tableRow, 0, len(v.Rows)),
		Controls:  v.Controls,
		Nav:       v.Nav,
		NoResults: v.NoResults,
		Message:   v.Message,
	}
	for _, row := range v.Rows {
		data.Rows = append(data.Rows, tableRow{ID: row.ID, Cells: row.Cells})
	}

	raw, err := json.Marshal(data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Response{Status: api.StatusSuccess, Data: raw})
}

func (s *Server) handleTableHTML(w http.ResponseWriter, r *http.Request) {
	t, pg, params, err := s.page(r)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	vm := NewTableViewModel(t.Name, r.URL.Path, t.Columns, params, pg.View(), menuLinks(r.URL.Path, s.names))
	s.renderHTML(w, r, func(buf *bytes.Buffer) error { return s.renderer.RenderTable(buf, vm) })
}

// page resolves the table and builds its pager from the query string.
func (s *Server) page(r *http.Request) (*table.Table, *pager.Pager, pagination.Params, error) {
	name := r.PathValue("name")
	t, ok := s.tables[name]
	if !ok {
		return nil, nil, pagination.Params{}, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}

	params, err := paramsFromQuery(r)
	if err != nil {
		return nil, nil, params, err
	}

	pg, err := pagination.Apply(t, params, s.pageSize(name),
		pager.WithLogger(*logging.FromContext(r.Context())))
	if err != nil {
		return nil, nil, params, err
	}
	return t, pg, params, nil
}

// errBadQuery marks query string errors as client errors.
var errBadQuery = errors.New("bad query")

func paramsFromQuery(r *http.Request) (pagination.Params, error) {
	q := r.URL.Query()
	params := pagination.Params{
		Page:         pagination.DefaultPage,
		Search:       q.Get("q"),
		SearchColumn: q.Get("col"),
		Filters:      q["filter"],
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("%w: page %q", errBadQuery, v)
		}
		// Out-of-range pages are clamped, not rejected.
		params.Page = max(n, pagination.MinPage)
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("%w: page_size %q", errBadQuery, v)
		}
		params.PageSize = n
	}
	if err := params.Validate(); err != nil {
		return params, fmt.Errorf("%w: %w", errBadQuery, err)
	}
	return params, nil
}

func (s *Server) renderHTML(w http.ResponseWriter, r *http.Request, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		logging.FromContext(r.Context()).Error().
			Str("operation", "render").
			Err(err).
			Msg("template execution failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadQuery), errors.Is(err, pagination.ErrInvalidColumn):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), api.Response{Status: "error", Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
