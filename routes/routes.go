package routes

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/bracket-live/handlers"
	"github.com/Dosada05/bracket-live/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	logger *slog.Logger,
	allowedOrigins []string,
	tournamentHandler *handlers.TournamentHandler,
	participantHandler *handlers.ParticipantHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	router.NotFound(handlers.NotFoundHandler)

	router.Get("/healthz", handlers.HealthHandler)
	router.Get("/ws", webSocketHandler.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Route("/tournament", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetStateHandler)
			r.Post("/start", tournamentHandler.StartHandler)
			r.Post("/reset", tournamentHandler.ResetHandler)
			r.Get("/history", tournamentHandler.CurrentHistoryHandler)

			r.Route("/players", func(r chi.Router) {
				r.Put("/", participantHandler.UpdatePlayersHandler)
				r.Post("/", participantHandler.AddPlayerHandler)
				r.Delete("/{name}", participantHandler.RemovePlayerHandler)
			})

			r.Route("/matches/{round}/{position}", func(r chi.Router) {
				r.Put("/winner", matchHandler.SelectWinnerHandler)
				r.Post("/toggle", matchHandler.ToggleWinnerHandler)
			})
		})

		r.Get("/runs/{runID}/events", tournamentHandler.RunHistoryHandler)
	})
}
