// Package server provides the HTTP read API over the analyzed skill set.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/skillmapio/skillmap/internal/config"
	"github.com/skillmapio/skillmap/internal/db/sqlite"
	"github.com/skillmapio/skillmap/internal/pipeline"
	"github.com/skillmapio/skillmap/pkg/models"
)

// keepRuns is how many historical analysis runs survive pruning.
const keepRuns = 5

// Service owns the HTTP API and, in watch mode, re-runs the analysis when
// the lexicon file changes.
type Service struct {
	cfg        *config.Config
	store      *sqlite.Store
	posts      *sqlite.PostStore
	skills     *sqlite.SkillStore
	analyzer   *pipeline.Analyzer
	router     chi.Router
	watcher    *Watcher
	analysisMu sync.Mutex
	startTime  time.Time
	version    string
}

// New creates a Service around an open store.
func New(cfg *config.Config, store *sqlite.Store, analyzer *pipeline.Analyzer, version string) *Service {
	svc := &Service{
		cfg:       cfg,
		store:     store,
		posts:     sqlite.NewPostStore(store),
		skills:    sqlite.NewSkillStore(store),
		analyzer:  analyzer,
		router:    chi.NewRouter(),
		startTime: time.Now(),
		version:   version,
	}
	svc.setupRoutes()
	return svc
}

// Router exposes the HTTP handler, mainly for tests.
func (s *Service) Router() http.Handler {
	return s.router
}

// Start serves the API until the context is cancelled. When watchPath is
// non-empty the lexicon file at that path is watched and each change
// triggers a fresh analysis of the cached posts.
func (s *Service) Start(ctx context.Context, watchPath string) error {
	if watchPath != "" {
		w, err := NewWatcher(watchPath, func() {
			if err := s.Reanalyze(context.Background()); err != nil {
				log.Error().Err(err).Msg("Re-analysis after lexicon change failed")
			}
		})
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		s.watcher = w
		if err := w.Start(); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer w.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.ServerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", s.cfg.ServerPort).Msg("Skill API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Reanalyze runs the pipeline over the cached posts and stores the result
// as a new run. Concurrent calls are serialized; the read API keeps serving
// the previous run until the new one is committed.
func (s *Service) Reanalyze(ctx context.Context) error {
	s.analysisMu.Lock()
	defer s.analysisMu.Unlock()

	posts, err := s.posts.All(ctx)
	if err != nil {
		return fmt.Errorf("load cached posts: %w", err)
	}
	if len(posts) == 0 {
		return fmt.Errorf("no cached posts to analyze")
	}

	started := time.Now()
	result := s.analyzer.Analyze(posts)

	run := &models.AnalysisRun{
		ID:           uuid.NewString(),
		StartedAt:    result.GeneratedAt,
		PostCount:    len(posts),
		SkippedPosts: result.Skipped,
		ClusterCount: result.Clusters,
		SkillCount:   len(result.Skills),
		DurationMS:   time.Since(started).Milliseconds(),
	}
	if err := s.skills.SaveRun(ctx, run, result.Skills); err != nil {
		return fmt.Errorf("store analysis run: %w", err)
	}
	if err := s.skills.PruneRuns(ctx, keepRuns); err != nil {
		log.Warn().Err(err).Msg("Pruning old runs failed")
	}

	log.Info().
		Str("runId", run.ID).
		Int("skills", run.SkillCount).
		Int64("durationMs", run.DurationMS).
		Msg("Re-analysis stored")
	return nil
}

func (s *Service) setupRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/skills", s.handleListSkills)
		r.Get("/skills/{id}", s.handleGetSkill)
	})
}

// requestLogger logs each request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("Request handled")
	})
}
