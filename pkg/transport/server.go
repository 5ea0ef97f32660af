// Package transport serves a navigation session over HTTP with JSON bodies.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/maxstrb/greenfm/pkg/files"
	"github.com/maxstrb/greenfm/pkg/logging"
	"github.com/maxstrb/greenfm/pkg/navigation"
	"github.com/sirupsen/logrus"
)

// Navigator is the navigation session the server exposes.
type Navigator interface {
	ListCurrentDirectory(ctx context.Context) ([]navigation.Entry, error)
	ListDirectory(ctx context.Context, path string) ([]navigation.Entry, error)
	ChangeDirectory(ctx context.Context, newPath string) error
	CurrentDirectory() string
	RootTitle() string
	RootURL() url.URL
	Ancestors() []string
	AncestorsOf(path string) ([]string, error)
	Parent() string
	ParentOf(path string) (string, error)
	ListVolumes(ctx context.Context) ([]files.Volume, error)
	OpenFile(ctx context.Context, path string) error
	OpenShell(ctx context.Context, path string) error
}

var _ Navigator = (*navigation.State)(nil)

// PathRequest is the body of the POST endpoints.
type PathRequest struct {
	Path string `json:"path"`
}

// PathResponse carries a single path.
type PathResponse struct {
	Path string `json:"path"`
}

// RootResponse describes the store being browsed.
type RootResponse struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Kind    navigation.Kind `json:"kind"`
	Path    string          `json:"path,omitempty"`
	Message string          `json:"message"`
}

type Server struct {
	nav    Navigator
	logger *logrus.Entry
}

func NewServer(nav Navigator) *Server {
	return &Server{
		nav:    nav,
		logger: logging.NewLogger("transport"),
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/entries", instrument("entries", s.handleEntries))
	mux.HandleFunc("POST /api/cd", instrument("cd", s.handleChangeDirectory))
	mux.HandleFunc("GET /api/cwd", instrument("cwd", s.handleCurrentDirectory))
	mux.HandleFunc("GET /api/root", instrument("root", s.handleRoot))
	mux.HandleFunc("GET /api/ancestors", instrument("ancestors", s.handleAncestors))
	mux.HandleFunc("GET /api/parent", instrument("parent", s.handleParent))
	mux.HandleFunc("GET /api/volumes", instrument("volumes", s.handleVolumes))
	mux.HandleFunc("POST /api/open", instrument("open", s.handleOpen))
	mux.HandleFunc("POST /api/shell", instrument("shell", s.handleShell))
	mux.Handle("GET /metrics", metricsHandler())
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("serving on %s", listener.Addr())
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	var (
		entries []navigation.Entry
		err     error
	)
	if p := r.URL.Query().Get("path"); p != "" {
		entries, err = s.nav.ListDirectory(r.Context(), p)
	} else {
		entries, err = s.nav.ListCurrentDirectory(r.Context())
	}
	if err != nil {
		s.sendError(w, err)
		return
	}
	listedEntries.Observe(float64(len(entries)))
	s.sendJSON(w, http.StatusOK, entries)
}

func (s *Server) handleChangeDirectory(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePath(w, r)
	if !ok {
		return
	}
	if err := s.nav.ChangeDirectory(r.Context(), req.Path); err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, PathResponse{Path: s.nav.CurrentDirectory()})
}

func (s *Server) handleCurrentDirectory(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, PathResponse{Path: s.nav.CurrentDirectory()})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	root := s.nav.RootURL()
	s.sendJSON(w, http.StatusOK, RootResponse{Title: s.nav.RootTitle(), URL: root.String()})
}

func (s *Server) handleAncestors(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("path") {
		s.sendJSON(w, http.StatusOK, s.nav.Ancestors())
		return
	}
	chain, err := s.nav.AncestorsOf(r.URL.Query().Get("path"))
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, chain)
}

func (s *Server) handleParent(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("path") {
		s.sendJSON(w, http.StatusOK, PathResponse{Path: s.nav.Parent()})
		return
	}
	parent, err := s.nav.ParentOf(r.URL.Query().Get("path"))
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, PathResponse{Path: parent})
}

func (s *Server) handleVolumes(w http.ResponseWriter, r *http.Request) {
	found, err := s.nav.ListVolumes(r.Context())
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, found)
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePath(w, r)
	if !ok {
		return
	}
	if err := s.nav.OpenFile(r.Context(), req.Path); err != nil {
		s.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePath(w, r)
	if !ok {
		return
	}
	if err := s.nav.OpenShell(r.Context(), req.Path); err != nil {
		s.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decodePath(w http.ResponseWriter, r *http.Request) (PathRequest, bool) {
	var req PathRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.sendJSON(w, http.StatusBadRequest, ErrorResponse{
			Kind:    navigation.KindInvalidPath,
			Message: "malformed request body: " + err.Error(),
		})
		return req, false
	}
	return req, true
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Warn("failed to write response")
	}
}

func (s *Server) sendError(w http.ResponseWriter, err error) {
	kind := navigation.KindOf(err)
	recordNavigationError(kind)
	status := statusOf(kind)
	entry := s.logger.WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Warn("request failed")
	} else {
		entry.Debug("request rejected")
	}
	s.sendJSON(w, status, ErrorResponse{
		Kind:    kind,
		Path:    navigation.PathOf(err),
		Message: err.Error(),
	})
}

func statusOf(kind navigation.Kind) int {
	switch kind {
	case navigation.KindNotFound:
		return http.StatusNotFound
	case navigation.KindPermissionDenied:
		return http.StatusForbidden
	case navigation.KindInvalidPath:
		return http.StatusBadRequest
	case navigation.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
