// Package app wires config, the router, and the server together, the
// way the teacher's app package wires config and its engine.
package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heo-go/heo/config"
	"github.com/heo-go/heo/routing"
	"github.com/heo-go/heo/server"
)

// App is the application instance: configuration plus a router and
// the server that drives it.
type App struct {
	cfg    *config.Config
	router *routing.Router
	srv    *server.Server
}

// New creates an application instance with a fresh Router.
func New(cfg *config.Config) *App {
	router := routing.New()
	return &App{
		cfg:    cfg,
		router: router,
		srv:    server.New(router, cfg.Workers),
	}
}

// Router returns the root router for route registration.
func (a *App) Router() *routing.Router {
	return a.router
}

// Run starts the server and blocks until a shutdown signal arrives.
func (a *App) Run() {
	go a.awaitSignal()

	addr := fmt.Sprintf(":%d", a.cfg.Port)
	log.Printf("heo server starting on port %d [%s]", a.cfg.Port, a.cfg.Env)

	if err := a.srv.Listen(addr); err != nil {
		log.Fatalf("server startup failed: %v", err)
	}
}

func (a *App) awaitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("signal received: %v, shutting down", sig)

	if err := a.srv.Close(); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	os.Exit(0)
}
