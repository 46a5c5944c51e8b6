package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/pubsub"
)

// MatchEventsHandler receives Pub/Sub pushes of match events and forwards
// them to the notifier.
func MatchEventsHandler(n notifier.Notifier, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := pubsub.ReadPush(r.Body)
		if err != nil {
			log.Error("Failed to read push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}

		var event pubsub.MatchEvent
		if err := pubsubClient.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		log.Debug("Received match event", "type", event.Type, "match", event.MatchID)

		if err := n.NotifyMatchEvent(r.Context(), event, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to notify match event", "type", event.Type, "match", event.MatchID, "error", err)
			// A non-2xx status makes Pub/Sub redeliver.
			http.Error(w, "Failed to notify", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
