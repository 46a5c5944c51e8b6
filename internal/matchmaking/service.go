package matchmaking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/courtside/internal/league"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/user"
	"golang.org/x/sync/errgroup"
)

var _ MatchmakingService = (*Service)(nil)

// Service implements MatchmakingService on top of the stores.
type Service struct {
	matches   match.Store
	users     user.Store
	leagues   league.Store
	clock     Clock
	publisher pubsub.PubSubClient
	metrics   metrics.Metrics
	newID     func() string
}

// NewService wires the service. publisher may be nil, in which case no
// events are published.
func NewService(matches match.Store, users user.Store, leagues league.Store, clock Clock, publisher pubsub.PubSubClient, metrics metrics.Metrics) *Service {
	return &Service{
		matches:   matches,
		users:     users,
		leagues:   leagues,
		clock:     clock,
		publisher: publisher,
		metrics:   metrics,
		newID:     uuid.NewString,
	}
}

// observe records the outcome and duration of an action.
func (s *Service) observe(action string, start time.Time, err error) {
	s.metrics.ObserveActionDuration(action, time.Since(start).Seconds())
	if err != nil {
		kind := match.KindOf(err)
		s.metrics.IncRejection(action, kind.String())
		if kind == match.KindInternal {
			log.Error("Match action failed", "action", action, "error", err)
		} else {
			log.Debug("Match action rejected", "action", action, "reason", err)
		}
		return
	}
	s.metrics.IncTransition(action)
}

func (s *Service) Propose(ctx context.Context, caller string, p Proposal) (_ *match.Requested, err error) {
	defer func(start time.Time) { s.observe("propose", start, err) }(time.Now())

	if p.To == caller {
		return nil, match.ErrSelfProposal
	}
	date, err := time.Parse(time.RFC3339, p.Date)
	if err != nil || date.Before(s.clock.Now()) {
		return nil, match.ErrInvalidDate
	}
	sport, ok := match.ParseSport(p.Sport)
	if !ok {
		return nil, match.ErrInvalidSport
	}
	if p.Round != nil {
		if p.League == "" {
			return nil, match.ErrRoundWithoutLeague
		}
		if *p.Round < 1 {
			return nil, match.ErrInvalidRound
		}
	}

	var opponentExists, isMember bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		opponentExists, err = s.users.Exists(gctx, p.To)
		return err
	})
	if p.League != "" {
		g.Go(func() error {
			var err error
			isMember, err = s.leagues.IsMember(gctx, p.League, caller)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if p.To == "" || !opponentExists {
		return nil, match.ErrUnknownOpponent
	}
	if p.League != "" && !isMember {
		return nil, match.ErrNotLeagueMember
	}

	m := &match.Requested{Details: match.Details{
		ID:       s.newID(),
		Owner:    caller,
		Players:  [2]string{caller, p.To},
		Sport:    sport,
		Date:     date.UTC(),
		Messages: []match.Message{},
		League:   p.League,
	}}
	if p.Round != nil {
		m.Round = *p.Round
	}
	if err := s.matches.Create(ctx, m); err != nil {
		return nil, err
	}
	s.metrics.IncProposals()
	log.Info("Match proposed", "id", m.ID, "owner", caller, "opponent", p.To, "sport", sport)
	s.publish(ctx, pubsub.EventMatchProposed, m, caller, nil)
	return m, nil
}

func (s *Service) Get(ctx context.Context, caller, id string) (match.Match, error) {
	return s.matches.Get(ctx, id, caller)
}

func (s *Service) Find(ctx context.Context, caller string, opts match.FindOptions) ([]match.Match, error) {
	// Ownership filters come only from the proposed view.
	opts.Query.NotOwnedBy = ""
	return s.matches.Find(ctx, caller, opts)
}

func (s *Service) FindProposed(ctx context.Context, caller string, pageStart, pageSize int) ([]match.Match, error) {
	return s.matches.Find(ctx, caller, match.FindOptions{
		Query: match.Query{
			Status:     match.StatusRequest,
			NotOwnedBy: caller,
		},
		PageStart: pageStart,
		PageSize:  pageSize,
	})
}

func (s *Service) Accept(ctx context.Context, caller, id string) (err error) {
	defer func(start time.Time) { s.observe("accept", start, err) }(time.Now())

	m, err := s.matches.Get(ctx, id, caller)
	if err != nil {
		return err
	}
	accepted, err := match.Accept(m, caller)
	if err != nil {
		return err
	}
	if err := s.matches.Update(ctx, accepted); err != nil {
		return err
	}
	log.Info("Match accepted", "id", id, "by", caller)
	s.publish(ctx, pubsub.EventMatchAccepted, accepted, caller, nil)
	return nil
}

func (s *Service) Cancel(ctx context.Context, caller, id string) (err error) {
	defer func(start time.Time) { s.observe("cancel", start, err) }(time.Now())

	m, err := s.matches.Get(ctx, id, caller)
	if err != nil {
		return err
	}
	if err := match.CheckCancel(m, caller); err != nil {
		return err
	}
	if err := s.matches.Delete(ctx, m); err != nil {
		return err
	}
	log.Info("Match cancelled", "id", id, "by", caller)
	s.publish(ctx, pubsub.EventMatchCancelled, m, caller, nil)
	return nil
}

func (s *Service) Complete(ctx context.Context, caller, id string, scores match.Scores) (err error) {
	defer func(start time.Time) { s.observe("complete", start, err) }(time.Now())

	m, err := s.matches.Get(ctx, id, caller)
	if err != nil {
		return err
	}
	completed, err := match.Complete(m, caller, s.clock.Now(), scores)
	if err != nil {
		return err
	}
	if err := s.matches.Update(ctx, completed); err != nil {
		return err
	}
	log.Info("Match completed", "id", id, "by", caller)
	s.publish(ctx, pubsub.EventMatchCompleted, completed, caller, func(e *pubsub.MatchEvent) {
		e.Score = completed.Score
	})
	return nil
}

func (s *Service) Message(ctx context.Context, caller, id, text string) (err error) {
	defer func(start time.Time) { s.observe("message", start, err) }(time.Now())

	m, err := s.matches.Get(ctx, id, caller)
	if err != nil {
		return err
	}
	next, err := match.AddMessage(m, caller, text, s.clock.Now())
	if err != nil {
		return err
	}
	return s.matches.Update(ctx, next)
}

func (s *Service) Rate(ctx context.Context, caller, id string, stars int) (err error) {
	defer func(start time.Time) { s.observe("rate", start, err) }(time.Now())

	m, err := s.matches.Get(ctx, id, caller)
	if err != nil {
		return err
	}
	rated, opponent, err := match.Rate(m, caller, stars)
	if err != nil {
		return err
	}
	if err := s.matches.RecordRating(ctx, rated, opponent, stars); err != nil {
		return err
	}
	s.metrics.IncRatings(stars)
	log.Info("Match rated", "id", id, "by", caller, "stars", stars)
	s.publish(ctx, pubsub.EventMatchRated, rated, caller, func(e *pubsub.MatchEvent) {
		e.Stars = stars
	})
	return nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.Get(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return nil, match.ErrNotFound
	}
	return u, err
}

func (s *Service) ListUsers(ctx context.Context) ([]user.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []user.User{}
	}
	return users, nil
}

func (s *Service) UpdateProfile(ctx context.Context, caller, name string) (*user.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, match.ErrEmptyName
	}
	if err := s.users.Add(ctx, user.User{ID: caller, Name: name}); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, caller)
}

func (s *Service) CreateLeague(ctx context.Context, caller, name, sport string) (*league.League, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, match.ErrEmptyLeagueName
	}
	sp, ok := match.ParseSport(sport)
	if !ok {
		return nil, match.ErrInvalidSport
	}
	l := &league.League{
		ID:        s.newID(),
		Name:      name,
		Sport:     sp,
		Owner:     caller,
		CreatedAt: s.clock.Now(),
	}
	if err := s.leagues.Create(ctx, l); err != nil {
		return nil, err
	}
	log.Info("League created", "id", l.ID, "name", name, "owner", caller)
	return l, nil
}

func (s *Service) GetLeague(ctx context.Context, caller, id string) (*league.League, error) {
	l, err := s.leagues.Get(ctx, id)
	if errors.Is(err, league.ErrNotFound) {
		return nil, match.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !l.HasMember(caller) {
		return nil, match.ErrNotFound
	}
	return l, nil
}

func (s *Service) JoinLeague(ctx context.Context, caller, id string) error {
	err := s.leagues.AddMember(ctx, id, caller)
	if errors.Is(err, league.ErrNotFound) {
		return match.ErrNotFound
	}
	return err
}

// publishTimeout bounds how long a successful action waits on Pub/Sub.
const publishTimeout = 2 * time.Second

// publish sends an event for m. Failures are logged and never reach the caller.
func (s *Service) publish(ctx context.Context, eventType pubsub.EventType, m match.Match, actor string, decorate func(*pubsub.MatchEvent)) {
	if s.publisher == nil {
		return
	}
	d := m.Info()
	event := pubsub.MatchEvent{
		Type:    eventType,
		MatchID: d.ID,
		Actor:   actor,
		Players: []string{d.Players[0], d.Players[1]},
		Sport:   string(d.Sport),
		Date:    d.Date,
		League:  d.League,
	}
	if decorate != nil {
		decorate(&event)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.SendMessage(ctx, eventType, event); err != nil {
		log.Error("Failed to publish match event", "type", eventType, "match", d.ID, "error", err)
	}
}
