package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/hidef/internal/api"
	"github.com/jackzampolin/hidef/internal/config"
	"github.com/jackzampolin/hidef/internal/dictionary"
	"github.com/jackzampolin/hidef/internal/home"
	"github.com/jackzampolin/hidef/internal/providers"
	"github.com/jackzampolin/hidef/internal/server/endpoints"
	"github.com/jackzampolin/hidef/internal/svcctx"
	"github.com/jackzampolin/hidef/web"
)

// Server is the main hidef HTTP server.
// It owns the resolution stack for its whole lifetime, so the caches live
// exactly as long as the process serves requests.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	stack      *Stack
	configMgr  *config.Manager
	logger     *slog.Logger

	seedTerms    []string
	seedAttempts uint
	seedDelay    time.Duration
	seedDone     chan struct{}

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080). "0" picks a free port.
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Registry overrides the provider registry built from config.
	Registry *providers.Registry
	Home     *home.Dir
	// SeedTerms are resolved in the background once the server listens.
	// nil uses defaults.seed_terms from config.
	SeedTerms []string
	// SeedAttempts bounds warm-up retries (default: 5).
	SeedAttempts uint
	// SeedDelay is the initial warm-up retry delay (default: 2s).
	SeedDelay time.Duration
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SeedAttempts == 0 {
		cfg.SeedAttempts = 5
	}
	if cfg.SeedDelay <= 0 {
		cfg.SeedDelay = 2 * time.Second
	}

	stack, err := BuildServices(ServicesConfig{
		ConfigManager: cfg.ConfigManager,
		Registry:      cfg.Registry,
		Home:          cfg.Home,
		Logger:        cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	seedTerms := cfg.SeedTerms
	if seedTerms == nil {
		if cfg.ConfigManager != nil {
			seedTerms = cfg.ConfigManager.Get().Defaults.SeedTerms
		} else {
			seedTerms = config.DefaultConfig().Defaults.SeedTerms
		}
	}

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	landing := endpoints.DefaultLandingTerm
	if len(seedTerms) > 0 {
		landing = seedTerms[0]
	}

	s := &Server{
		stack:        stack,
		configMgr:    cfg.ConfigManager,
		logger:       cfg.Logger,
		seedTerms:    seedTerms,
		seedAttempts: cfg.SeedAttempts,
		seedDelay:    cfg.SeedDelay,
		seedDone:     make(chan struct{}),
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{
		Oracle:          stack.Oracle,
		Templates:       templates,
		Landing:         landing,
		SwaggerSpecPath: endpoints.GetSwaggerSpecPath(),
	}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	// Oracle calls can take most of a minute, so the write timeout has to
	// cover two of them for a click.
	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	s.running = true
	s.mu.Unlock()

	if !s.stack.Services.Registry.HasDefaultLLM() {
		s.logger.Warn("no default LLM provider available, lookups will return 503",
			"default_llm", s.stack.Services.Registry.DefaultLLM())
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	warmCtx, cancelWarm := context.WithCancel(ctx)
	defer cancelWarm()
	go func() {
		defer close(s.seedDone)
		s.warmSeedTerms(warmCtx)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			cancelWarm()
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	cancelWarm()
	return s.shutdown()
}

// warmSeedTerms resolves the seed terms so the landing page is cached before
// the first visitor. Only oracle failures are retried; failures are logged
// and never stop the server.
func (s *Server) warmSeedTerms(ctx context.Context) {
	if len(s.seedTerms) == 0 {
		return
	}
	svc := s.stack.Services.Dictionary

	err := retry.Do(
		func() error {
			if !s.stack.Services.Registry.HasDefaultLLM() {
				return fmt.Errorf("no default LLM provider")
			}
			return svc.Seed(ctx, s.seedTerms)
		},
		retry.Context(ctx),
		retry.Attempts(s.seedAttempts),
		retry.Delay(s.seedDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, dictionary.ErrInvalidInput)
		}),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("seed warm-up failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		s.logger.Error("seed warm-up gave up", "terms", s.seedTerms, "error", err)
		return
	}
	s.logger.Info("seed terms cached", "terms", s.seedTerms)
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	// Warm-up observes the cancelled context and returns promptly.
	select {
	case <-s.seedDone:
	case <-shutdownCtx.Done():
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address. Once started it reports the
// bound address, which differs from the configured one when port is "0".
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.stack.Services.Registry
}

// Dictionary returns the resolution service.
func (s *Server) Dictionary() *dictionary.Service {
	return s.stack.Services.Dictionary
}

// SeedDone is closed once the start-up warm-up has finished or given up.
func (s *Server) SeedDone() <-chan struct{} {
	return s.seedDone
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := svcctx.WithServices(r.Context(), s.stack.Services)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures an LLM provider can answer.
// Returns 503 Service Unavailable if the default provider is missing.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.stack.Services.Registry.HasDefaultLLM() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"no LLM provider configured"}`))
			return
		}
		next(w, r)
	}
}
