package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"moodjournal/internal/media"
	mw "moodjournal/internal/middleware"
	"moodjournal/internal/services"
)

// RouterDeps are the services the HTTP API is built on.
type RouterDeps struct {
	Records        *services.RecordService
	Categories     *services.CategoryRegistry
	Bucket         *media.Bucket
	Auth           *mw.AuthMiddleware
	Status         *AdminHandler
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.ZapRequestLogger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	journal := NewJournalHandler(d.Records, d.Logger)
	dashboard := NewDashboardHandler(d.Records, d.Logger)
	migrate := NewMigrateHandler(d.Records, d.Logger)
	categories := NewCategoryHandler(d.Categories, d.Logger)
	mediaHandler := NewMediaHandler(d.Records, d.Logger)

	if d.Bucket != nil {
		prefix := "/media/" + d.Bucket.Name() + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServerFS(d.Bucket)))
	}

	r.Route("/api", func(api chi.Router) {
		if d.Status != nil {
			api.Get("/status", d.Status.Status)
		}

		api.Group(func(pr chi.Router) {
			pr.Use(d.Auth.Identify)

			pr.Get("/records", journal.List)
			pr.Get("/records/{date}", journal.Get)
			pr.Put("/records/{date}", journal.Upsert)
			pr.Delete("/records/{id}", journal.Delete)

			pr.Get("/stats", dashboard.Stats)
			pr.Get("/stats/words", dashboard.Words)
			pr.Get("/stats/trend", dashboard.Trend)

			pr.Get("/export", migrate.Export)
			pr.Post("/import", migrate.Import)

			pr.Get("/categories", categories.List)
			pr.Post("/categories", categories.Create)
			pr.Patch("/categories/{id}", categories.Update)
			pr.Delete("/categories/{id}", categories.Delete)

			pr.Post("/media", mediaHandler.Upload)
			pr.Delete("/media", mediaHandler.Delete)
		})
	})
	return r
}
