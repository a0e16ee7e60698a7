package main

import (
	"log"

	"github.com/heo-go/heo/app"
	"github.com/heo-go/heo/config"
	"github.com/heo-go/heo/routing"
	"github.com/heo-go/heo/webio"
)

func main() {
	cfg := config.New()
	application := app.New(cfg)
	router := application.Router()

	router.Use("/", requestLog)

	router.Get("/", func(w *webio.Response, r *webio.Request, next routing.Next) {
		w.Send("Welcome to heo!")
	})

	router.Get("/api/status", func(w *webio.Response, r *webio.Request, next routing.Next) {
		w.JSON(map[string]any{
			"status":  "ok",
			"version": "1.0.0",
			"server":  "heo",
		})
	})

	router.Get("/api/users/:id", func(w *webio.Response, r *webio.Request, next routing.Next) {
		w.JSON(map[string]string{
			"user_id": r.Param("id"),
			"name":    "John Doe",
		})
	})

	router.Get("/api/search", func(w *webio.Response, r *webio.Request, next routing.Next) {
		w.JSON(map[string]string{
			"query": r.GetQuery("q"),
			"page":  r.GetQuery("page"),
		})
	})

	router.Post("/api/users", func(w *webio.Response, r *webio.Request, next routing.Next) {
		w.Status(201).JSON(map[string]string{"message": "user created"})
	})

	log.Printf("starting heo example server...")
	application.Run()
}

func requestLog(w *webio.Response, r *webio.Request, next routing.Next) {
	log.Printf("[%s] %s", r.Method, r.Path)
	next(nil)
}
