package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/user"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts match events to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	users     user.Store
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, users user.Store, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, users, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, users user.Store, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		users:     users,
		metrics:   metrics,
	}
}

// NotifyMatchEvent formats the event and posts it to the channel.
func (s *Notifier) NotifyMatchEvent(ctx context.Context, event pubsub.MatchEvent, dryRun bool) error {
	msg, err := s.formatMatchEvent(ctx, event)
	if err != nil {
		return err
	}
	_, _, err = s.sendMessage(ctx, msg, dryRun)
	return err
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
	)
	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// name resolves a user ID to a display name, falling back to the ID.
func (s *Notifier) name(ctx context.Context, id string) string {
	u, err := s.users.Get(ctx, id)
	if err != nil || u.Name == "" {
		return id
	}
	return u.Name
}

func (s *Notifier) formatMatchEvent(ctx context.Context, event pubsub.MatchEvent) (slack.Message, error) {
	names := make([]string, 0, len(event.Players))
	for _, p := range event.Players {
		names = append(names, s.name(ctx, p))
	}
	actor := s.name(ctx, event.Actor)
	when := event.Date.UTC().Format("Monday 02 Jan, 15:04 MST")

	var header, body string
	switch event.Type {
	case pubsub.EventMatchProposed:
		header = fmt.Sprintf("New %s match proposed", event.Sport)
		body = fmt.Sprintf("%s challenged %s\nWhen: %s", actor, opponentOf(names, actor), when)
	case pubsub.EventMatchAccepted:
		header = fmt.Sprintf("%s match on!", event.Sport)
		body = fmt.Sprintf("%s\nWhen: %s", strings.Join(names, " vs "), when)
	case pubsub.EventMatchCancelled:
		header = "Match cancelled"
		body = fmt.Sprintf("%s cancelled %s (%s)", actor, strings.Join(names, " vs "), when)
	case pubsub.EventMatchCompleted:
		header = fmt.Sprintf("%s match finished!", event.Sport)
		body = s.formatScore(ctx, event.Score)
	case pubsub.EventMatchRated:
		header = "Match rated"
		body = fmt.Sprintf("%s rated their opponent %s", actor, strings.Repeat("*", event.Stars))
	default:
		return slack.Message{}, fmt.Errorf("unknown event type %q", event.Type)
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", header, true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", body, true, false), nil, nil),
	}
	if event.League != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject("plain_text", "League: "+event.League, true, false)))
	}
	return slack.NewBlockMessage(blocks...), nil
}

func (s *Notifier) formatScore(ctx context.Context, score map[string]int) string {
	if len(score) == 0 {
		return "Result: No scores reported."
	}
	lines := make([]string, 0, len(score))
	best, winner, tie := -1, "", false
	for id, points := range score {
		name := s.name(ctx, id)
		lines = append(lines, fmt.Sprintf("• %s: %d", name, points))
		switch {
		case points > best:
			best, winner, tie = points, name, false
		case points == best:
			tie = true
		}
	}
	// Sort to ensure deterministic order
	sort.Strings(lines)
	if tie {
		return "Result: draw\n" + strings.Join(lines, "\n")
	}
	return fmt.Sprintf("Result: %s won!\n%s", winner, strings.Join(lines, "\n"))
}

func opponentOf(names []string, actor string) string {
	for _, n := range names {
		if n != actor {
			return n
		}
	}
	return actor
}
