package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"PatternScan/internal/handler/ws"
	"PatternScan/internal/usecase"
	xhttp "PatternScan/pkg/http"
	applogger "PatternScan/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	log        *applogger.Logger
	httpServer *xhttp.Server
	scheduler  *usecase.Scheduler
	hub        *ws.Hub
}

// New creates a new App instance with all dependencies. scheduler may be nil
// when background scanning is disabled.
func New(log *applogger.Logger, srv *xhttp.Server, scheduler *usecase.Scheduler, hub *ws.Hub) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		log:        log,
		httpServer: srv,
		scheduler:  scheduler,
		hub:        hub,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the HTTP server and the scheduler and blocks until ctx
// ends or the server fails to listen.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	a.log.Info("patternscan started", applogger.Bool("scheduler", a.scheduler != nil))
	if a.scheduler != nil {
		a.scheduler.Start(ctx)
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case runErr = <-a.httpServer.Errors():
		a.log.Error("http server failed", applogger.Error(runErr))
	}

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.log.Info("shutting down...")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.hub != nil {
		a.hub.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		return err
	}

	a.log.Info("shutdown complete")
	return nil
}
