package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mauv0809/courtside/internal/auth"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/http/handlers"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/pubsub"
)

func NewServer(service matchmaking.MatchmakingService, identity auth.IdentityProvider, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient, db handlers.Pinger) *Server {
	server := &Server{
		Service:        service,
		Identity:       identity,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		PubSub:         pubsub,
		DB:             db,
		Router:         chi.NewRouter(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.Cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(paramsMiddleware)

	if s.MetricsHandler != nil {
		r.Handle("/metrics", s.MetricsHandler)
	}
	r.Get("/health", handlers.HealthCheckHandler(s.DB))
	if s.Notifier != nil && s.PubSub != nil {
		r.Post("/events/match", handlers.MatchEventsHandler(s.Notifier, s.PubSub))
	}

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(s.Identity))

		r.Route("/match", func(r chi.Router) {
			r.Post("/new", handlers.NewMatchHandler(s.Service))
			r.Post("/find", handlers.FindMatchesHandler(s.Service))
			r.Post("/find/proposed", handlers.FindProposedHandler(s.Service))
			r.Get("/{id}", handlers.GetMatchHandler(s.Service))
			r.Post("/{id}/accept", handlers.AcceptMatchHandler(s.Service))
			r.Post("/{id}/cancel", handlers.CancelMatchHandler(s.Service))
			r.Post("/{id}/complete", handlers.CompleteMatchHandler(s.Service))
			r.Post("/{id}/message", handlers.MessageMatchHandler(s.Service))
			r.Post("/{id}/rate", handlers.RateMatchHandler(s.Service))
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/", handlers.ListUsersHandler(s.Service))
			r.Get("/me", handlers.GetMeHandler(s.Service))
			r.Post("/me", handlers.UpdateMeHandler(s.Service))
			r.Get("/{id}", handlers.GetUserHandler(s.Service))
		})

		r.Route("/league", func(r chi.Router) {
			r.Post("/new", handlers.NewLeagueHandler(s.Service))
			r.Get("/{id}", handlers.GetLeagueHandler(s.Service))
			r.Post("/{id}/join", handlers.JoinLeagueHandler(s.Service))
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
