// Package api serves the tracker's HTTP surface: the aggregated feed, the
// live-status probe, a manual refresh hook, and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/educalvolpz/wwdc-tracker/internal/core"
	"github.com/educalvolpz/wwdc-tracker/internal/event"
	"github.com/educalvolpz/wwdc-tracker/internal/scheduler"
)

type Server struct {
	logger *slog.Logger
	sched  *scheduler.Scheduler
	clock  *event.Clock
	router chi.Router
	now    func() time.Time
}

func NewServer(logger *slog.Logger, sched *scheduler.Scheduler, clock *event.Clock) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger: logger,
		sched:  sched,
		clock:  clock,
		now:    time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/api/feed", s.handleFeed)
	r.Get("/api/live-status", s.handleLiveStatus)
	r.Post("/api/refresh", s.handleRefresh)
	r.Get("/api/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	s.router = r
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()
	s.logger.Info("http server listening", "addr", addr)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// articleView decorates an article with its per-snapshot novelty flag.
type articleView struct {
	core.Article
	IsNew bool `json:"is_new"`
}

type feedResponse struct {
	Articles            []articleView      `json:"articles"`
	Errors              []core.SourceError `json:"errors,omitempty"`
	FetchedAt           time.Time          `json:"fetched_at"`
	Connected           bool               `json:"connected"`
	SecondsUntilRefresh int                `json:"seconds_until_refresh"`
	Live                core.LiveStatus    `json:"live"`
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.sched.Snapshot()

	resp := feedResponse{
		Articles:            []articleView{},
		Connected:           s.sched.Connected(),
		SecondsUntilRefresh: s.sched.SecondsUntilNext(),
		Live:                s.clock.Status(s.now()),
	}
	if ok {
		resp.FetchedAt = snap.FetchedAt
		resp.Errors = snap.Errors
		for _, article := range snap.Articles {
			resp.Articles = append(resp.Articles, articleView{
				Article: article,
				IsNew:   snap.IsNew(article.ID),
			})
		}
	}

	noStore(w)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLiveStatus(w http.ResponseWriter, r *http.Request) {
	noStore(w)
	s.writeJSON(w, http.StatusOK, s.clock.Status(s.now()))
}

type refreshResponse struct {
	Started bool `json:"started"`
}

// handleRefresh runs a pass synchronously. A refused trigger means one is
// already in flight; the client polls the feed either way.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	started := s.sched.TriggerNow(r.Context())
	status := http.StatusOK
	if !started {
		status = http.StatusConflict
	}
	s.writeJSON(w, status, refreshResponse{Started: started})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "error", err)
	}
}

// noStore keeps browsers and proxies from caching event-time data.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}
