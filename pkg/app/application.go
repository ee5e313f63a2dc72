package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"oxibook/pkg/config"
	"oxibook/pkg/contracts"
	"oxibook/pkg/middleware"
)

// Application wires handlers, the middleware chain and the HTTP server
// lifecycle. Handlers register their own routes; the application owns
// everything outside them.
type Application struct {
	cfg              *config.Config
	router           *httprouter.Router
	server           *http.Server
	idempotencyStore *middleware.InMemoryIdempotencyStore
	onShutdown       []func()
}

func New(cfg *config.Config, handlers ...contracts.Handler) *Application {
	router := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	store := middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL)

	// Recovery wraps everything; logging sees the request before any
	// middleware can reject it.
	var handler http.Handler = router
	handler = middleware.Idempotency(store, "Idempotency-Key")(handler)
	handler = middleware.RequestTimeout(cfg.RequestTimeout)(handler)
	handler = middleware.ContentTypeValidation(cfg.Log)(handler)
	handler = middleware.MaxRequestSize(int64(cfg.MaxRequestSize))(handler)
	handler = middleware.RequestLogging(cfg.Log)(handler)
	handler = middleware.Recovery(cfg.Log)(handler)

	return &Application{
		cfg:    cfg,
		router: router,
		server: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		idempotencyStore: store,
	}
}

// OnShutdown registers a hook run after the HTTP server drains,
// in registration order.
func (a *Application) OnShutdown(fn func()) {
	a.onShutdown = append(a.onShutdown, fn)
}

// Run serves until SIGINT/SIGTERM, then drains within the configured
// shutdown timeout.
func (a *Application) Run() {
	log := a.cfg.Log

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatal("HTTP server failed", "error", err)
	case sig := <-stop:
		log.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed, forcing close", "error", err)
		_ = a.server.Close()
	}

	a.idempotencyStore.Stop()
	for _, fn := range a.onShutdown {
		fn()
	}
	a.cfg.GracefulShutdown()

	log.Info("Server stopped")
}
