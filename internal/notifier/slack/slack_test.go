package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/user"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func testUsers() *user.MockStore {
	return user.NewMock(
		user.User{ID: "alice", Name: "Alice"},
		user.User{ID: "bob", Name: "Bob"},
	)
}

func testEvent(eventType pubsub.EventType) pubsub.MatchEvent {
	return pubsub.MatchEvent{
		Type:    eventType,
		MatchID: "m1",
		Actor:   "alice",
		Players: []string{"alice", "bob"},
		Sport:   "Tennis",
		Date:    time.Date(2026, 6, 1, 17, 30, 0, 0, time.UTC),
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	m := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", testUsers(), m)

	err := notifier.NotifyMatchEvent(context.Background(), testEvent(pubsub.EventMatchProposed), true)
	require.NoError(t, err)
	assert.Equal(t, 0, m.NotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	m := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", testUsers(), m)

	err := notifier.NotifyMatchEvent(context.Background(), testEvent(pubsub.EventMatchAccepted), false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, m.NotifSent())
	assert.Equal(t, 0, m.NotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	m := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", testUsers(), m)

	err := notifier.NotifyMatchEvent(context.Background(), testEvent(pubsub.EventMatchCancelled), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, m.NotifSent())
	assert.Equal(t, 1, m.NotifFailed())
}

func sectionText(t *testing.T, msg slackapi.Message) string {
	t.Helper()
	require.GreaterOrEqual(t, len(msg.Blocks.BlockSet), 2)
	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	return section.Text.Text
}

func TestFormatMatchEvent(t *testing.T) {
	n := NewNotifierWithAPI(nil, "C123", testUsers(), metrics.NewMock())
	ctx := context.Background()

	t.Run("proposal names both players", func(t *testing.T) {
		msg, err := n.formatMatchEvent(ctx, testEvent(pubsub.EventMatchProposed))
		require.NoError(t, err)
		assert.Contains(t, sectionText(t, msg), "Alice challenged Bob")
	})

	t.Run("result names the winner", func(t *testing.T) {
		event := testEvent(pubsub.EventMatchCompleted)
		event.Score = map[string]int{"alice": 2, "bob": 6}
		msg, err := n.formatMatchEvent(ctx, event)
		require.NoError(t, err)
		text := sectionText(t, msg)
		assert.Contains(t, text, "Bob won!")
		assert.Contains(t, text, "• Alice: 2")
	})

	t.Run("draw", func(t *testing.T) {
		event := testEvent(pubsub.EventMatchCompleted)
		event.Score = map[string]int{"alice": 3, "bob": 3}
		msg, err := n.formatMatchEvent(ctx, event)
		require.NoError(t, err)
		assert.Contains(t, sectionText(t, msg), "Result: draw")
	})

	t.Run("unknown users fall back to their id", func(t *testing.T) {
		event := testEvent(pubsub.EventMatchRated)
		event.Actor = "zed"
		event.Stars = 3
		msg, err := n.formatMatchEvent(ctx, event)
		require.NoError(t, err)
		assert.Contains(t, sectionText(t, msg), "zed rated their opponent ***")
	})

	t.Run("league shows as context", func(t *testing.T) {
		event := testEvent(pubsub.EventMatchAccepted)
		event.League = "l1"
		msg, err := n.formatMatchEvent(ctx, event)
		require.NoError(t, err)
		assert.Len(t, msg.Blocks.BlockSet, 3)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := n.formatMatchEvent(ctx, testEvent("match-exploded"))
		assert.Error(t, err)
	})
}
