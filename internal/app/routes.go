package app

import (
	"net/http"

	"github.com/chartsight/internal/handler"
	"github.com/chartsight/internal/middleware"
	"github.com/chartsight/internal/web"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)

	// Static files
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.StaticFS)))

	// Health and metrics
	r.Get("/api/health", handler.Health(app.logger, app.ollama))
	r.Handle("/metrics", promhttp.Handler())

	// Analyzer page and its button
	analyzeHandler := handler.NewAnalyzeHandler(app.logger, app.invoker, web.Templates, app.config.MaxUploadSizeMB)
	r.Get("/", analyzeHandler.Page)
	r.With(middleware.RateLimit(app.config.RateLimitPerMinute)).Post("/api/analyze", analyzeHandler.Analyze)

	return r
}
