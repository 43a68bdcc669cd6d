package handler

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/lucaprotelli/bastian-project/backend/internal/handler/chat"
	"github.com/lucaprotelli/bastian-project/backend/internal/handler/persona"
	"github.com/lucaprotelli/bastian-project/backend/internal/handler/ws"
	personaModel "github.com/lucaprotelli/bastian-project/backend/internal/model/persona"
	aiService "github.com/lucaprotelli/bastian-project/backend/internal/service/ai"
	chatService "github.com/lucaprotelli/bastian-project/backend/internal/service/chat"
	"github.com/lucaprotelli/bastian-project/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(personas personaModel.Store, sessions *chatService.Store, aiSvc *aiService.Service, logger *log.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logger.WithPrefix("http").StandardLog(),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions, http.MethodHead},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler)

	personaHandler := persona.New(personas)
	chatHandler := chat.New(aiSvc, sessions, logger.WithPrefix("chat"))
	wsHandler := ws.New(aiSvc, logger.WithPrefix("ws"))

	// Original path used by the existing frontend.
	r.Post("/chat", chatHandler.HandleChat)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"provider": aiSvc.Ready(),
			"sessions": sessions.Sessions(),
		})
	})

	r.Route("/api", func(api chi.Router) {
		personaHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
