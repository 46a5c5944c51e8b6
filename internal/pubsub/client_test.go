package pubsub_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPushAndDecode(t *testing.T) {
	event := pubsub.MatchEvent{
		Type:    pubsub.EventMatchCompleted,
		MatchID: "m1",
		Actor:   "alice",
		Players: []string{"alice", "bob"},
		Sport:   "Squash",
		Date:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Score:   map[string]int{"alice": 3, "bob": 1},
	}
	payload, err := pubsub.Encode(event)
	require.NoError(t, err)

	body := `{"subscription":"projects/p/subscriptions/s","message":{"messageId":"1","data":"` +
		base64.StdEncoding.EncodeToString(payload) + `"}}`
	raw, err := pubsub.ReadPush(strings.NewReader(body))
	require.NoError(t, err)

	var got pubsub.MatchEvent
	require.NoError(t, pubsub.NewMock().ProcessMessage(raw, &got))
	assert.Equal(t, event.Type, got.Type)
	assert.Equal(t, event.Players, got.Players)
	assert.Equal(t, event.Score, got.Score)
	assert.True(t, event.Date.Equal(got.Date))
}

func TestReadPush_Invalid(t *testing.T) {
	_, err := pubsub.ReadPush(strings.NewReader(`not json`))
	assert.Error(t, err)

	_, err = pubsub.ReadPush(strings.NewReader(`{"message":{"data":"%%%"}}`))
	assert.Error(t, err)
}
