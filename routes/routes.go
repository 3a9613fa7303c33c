package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/galera-volei/galera-system/handlers"
	"github.com/galera-volei/galera-system/middleware"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Matches   *handlers.MatchHandler
	Invites   *handlers.InviteHandler
	WebSocket *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, jwtSecret []byte, allowedOrigins []string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/auth/me", h.Auth.Me)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", h.Matches.List)
			r.Get("/{id}", h.Matches.Get)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/", h.Matches.Create)
				r.Post("/{id}/join", h.Matches.Join)
				r.Delete("/{id}/join", h.Matches.Leave)
				r.Put("/{id}/status", h.Matches.UpdateStatus)
				r.Get("/{id}/candidates", h.Invites.Candidates)
			})
		})

		r.Route("/invites", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/received", h.Invites.ListReceived)
			r.Post("/", h.Invites.Create)
			r.Put("/{id}/accept", h.Invites.Accept)
			r.Put("/{id}/decline", h.Invites.Decline)
		})
	})

	router.Get("/ws", h.WebSocket.ServeLobby)
	router.Get("/ws/matches/{id}", h.WebSocket.ServeMatch)

	return router
}
