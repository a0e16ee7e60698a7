/*
Package heo provides a minimal HTTP server framework built around two
coupled subsystems: a hierarchical path router with per-segment
parameters and mountable sub-routers, and a middleware execution
engine that drives a request through an ordered handler chain with
explicit cooperative continuation and a single catching error handler.

Quick start

	package main

	import (
		"github.com/heo-go/heo/app"
		"github.com/heo-go/heo/config"
		"github.com/heo-go/heo/routing"
		"github.com/heo-go/heo/webio"
	)

	func main() {
		cfg := config.New()
		application := app.New(cfg)
		router := application.Router()

		router.Get("/hello", func(w *webio.Response, r *webio.Request, next routing.Next) {
			w.Send("Hello, World!")
		})

		application.Run()
	}

Modules

  - app: application lifecycle (config + router + server wiring, graceful shutdown)
  - config: flag/env configuration loading
  - routing: path tokenizer, route tree, router, middleware chain engine
  - webio: request/response value objects
  - httperr: the tagged error catalog
  - server: connection acceptor and worker pool
*/
package heo
