package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/edaraujo/secretaria/internal/bootstrap"
	"github.com/edaraujo/secretaria/internal/config"
	"github.com/edaraujo/secretaria/internal/scheduler"
)

// Server holds the state for the HTTP server.
type Server struct {
	config    *config.Config
	router    *gin.Engine
	dbPool    *pgxpool.Pool
	scheduler *scheduler.Scheduler
	logger    zerolog.Logger
	http      *http.Server

	cancelJobs context.CancelFunc
}

// NewServer creates and initializes a new server instance by calling
// bootstrap functions.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)

	s := &Server{
		config:    cfg,
		router:    router,
		dbPool:    dbPool,
		scheduler: deps.Scheduler,
		logger:    lgr,
	}

	return s, nil
}

// Run starts the HTTP server and the background scheduler, then blocks until
// shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if s.scheduler != nil {
		jobCtx, cancel := context.WithCancel(context.Background())
		s.cancelJobs = cancel
		s.scheduler.Start(jobCtx)
		s.logger.Info().Msg("Background scheduler started")
	}

	// Channel to listen for errors starting the server
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	shutdownError := false

	// Stop background jobs before the pool they depend on goes away.
	if s.scheduler != nil && s.cancelJobs != nil {
		s.logger.Info().Msg("Stopping background scheduler...")
		s.cancelJobs()
		s.scheduler.Stop()
		s.logger.Info().Msg("Background scheduler stopped.")
	}

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownError = true
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	if s.dbPool != nil {
		s.logger.Info().Msg("Closing database connection pool...")
		s.dbPool.Close()
		s.logger.Info().Msg("Database connection pool closed.")
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownError {
		return errors.New("server shutdown completed with errors")
	}
	return nil
}
