package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/courtside/internal/auth"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/http/handlers"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/pubsub"
)

type Server struct {
	Service        matchmaking.MatchmakingService
	Identity       auth.IdentityProvider
	MetricsHandler http.Handler
	Cfg            config.Config
	// Notifier and PubSub are optional. Without both, event pushes are not served.
	Notifier notifier.Notifier
	PubSub   pubsub.PubSubClient
	// DB is pinged by the health check when set.
	DB     handlers.Pinger
	Router *chi.Mux
}
