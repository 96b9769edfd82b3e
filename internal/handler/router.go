package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nurumindfulness/nuru/backend/internal/handler/chat"
	"github.com/nurumindfulness/nuru/backend/internal/handler/persona"
	middlewarePkg "github.com/nurumindfulness/nuru/backend/internal/middleware"
	personaModel "github.com/nurumindfulness/nuru/backend/internal/model/persona"
	"github.com/nurumindfulness/nuru/backend/internal/web"
	"github.com/nurumindfulness/nuru/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(p personaModel.Persona, relay chat.Relay, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	personaHandler := persona.New(p)
	chatHandler := chat.New(relay, logger)

	r.Route("/api", func(api chi.Router) {
		personaHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Handle("/*", web.Handler())

	return r
}
