package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/spf13/afero"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"todoTracker/internal/config"
	"todoTracker/internal/handlers"
	"todoTracker/internal/logger"
	"todoTracker/internal/middleware"
	"todoTracker/internal/repository/todo/file"
	"todoTracker/internal/service"
	"todoTracker/internal/worker"
)

type App struct {
	config    *config.Config
	fs        afero.Fs
	server    *http.Server
	router    *chi.Mux
	loader    *file.Loader
	service   *service.TodoService
	worker    *worker.DueWorker
	shutdowns []func(context.Context) // run in reverse order
}

type Option func(*App)

// WithFs swaps the filesystem holding the board directory.
func WithFs(fs afero.Fs) Option {
	return func(a *App) {
		a.fs = fs
	}
}

func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		config:    cfg,
		fs:        afero.NewOsFs(),
		shutdowns: make([]func(context.Context), 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init loads the board and wires the service, worker and HTTP server.
func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func(context.Context) {
		logger.Info("App: flushing logs")
		logger.Sync()
	})

	a.loader = file.NewLoader(a.fs, a.config.Board.Dir)
	table, err := a.loader.Load(a.config.Board.Name, a.config.Board.Columns)
	if err != nil {
		return nil, fmt.Errorf("load board %s: %w", a.config.Board.Dir, err)
	}
	logger.Info("App: board loaded",
		zap.String("dir", a.config.Board.Dir),
		zap.Strings("columns", table.Columns()))

	opts := []service.ServiceOption{}
	if a.config.Board.Autosave {
		opts = append(opts, service.WithPersister(a.loader))
	}
	a.service = service.NewTodoService(table, opts...)
	a.shutdowns = append(a.shutdowns, func(context.Context) {
		if err := a.service.Snapshot(a.loader.Save); err != nil {
			logger.Error("App: saving board", err, zap.String("dir", a.config.Board.Dir))
		}
	})

	if a.config.Worker.Enabled {
		interval := a.config.Worker.Interval
		a.worker = worker.NewDueWorker(a.service, &interval)
	}

	a.router = a.newRouter()
	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           otelhttp.NewHandler(a.router, "todo-tracker"),
		ReadHeaderTimeout: a.config.Server.ReadTimeout,
		ReadTimeout:       a.config.Server.ReadTimeout,
	}
	a.shutdowns = append(a.shutdowns, func(ctx context.Context) {
		if err := a.server.Shutdown(ctx); err != nil {
			logger.Error("App: server shutdown", err)
		}
	})

	return a, nil
}

func (a *App) newRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	if a.config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(a.config.Server.RequestTimeout))
	}
	if a.config.Server.RateLimit > 0 {
		r.Use(middleware.RateLimit(a.config.Server.RateLimit))
	}

	handlers.NewTodoHandler(a.service).Routes(r)
	return r
}

// Handler returns the HTTP handler without starting a listener.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Service() *service.TodoService {
	return a.service
}

// Run serves until ctx is done, then shuts down within the configured
// timeout.
func (a *App) Run(ctx context.Context) error {
	if a.worker != nil {
		go a.worker.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("App: server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	a.Shutdown()
	return runErr
}

func (a *App) Shutdown() {
	timeout := a.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i](ctx)
	}
	a.shutdowns = nil
}
