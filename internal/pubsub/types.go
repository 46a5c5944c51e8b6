package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client *pubsub.Client
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventMatchProposed  EventType = "match-proposed"
	EventMatchAccepted  EventType = "match-accepted"
	EventMatchCompleted EventType = "match-completed"
	EventMatchCancelled EventType = "match-cancelled"
	EventMatchRated     EventType = "match-rated"
)

// MatchEvent describes something that happened to a match.
type MatchEvent struct {
	Type    EventType      `msgpack:"type"`
	MatchID string         `msgpack:"match_id"`
	Actor   string         `msgpack:"actor"`
	Players []string       `msgpack:"players"`
	Sport   string         `msgpack:"sport"`
	Date    time.Time      `msgpack:"date"`
	League  string         `msgpack:"league,omitempty"`
	Score   map[string]int `msgpack:"score,omitempty"`
	Stars   int            `msgpack:"stars,omitempty"`
}

// PushRequest is the body Pub/Sub posts to a push subscription endpoint.
type PushRequest struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID         string            `json:"messageId"`
		Data       string            `json:"data"` // base64-encoded message payload
		Attributes map[string]string `json:"attributes"`
	} `json:"message"`
}
