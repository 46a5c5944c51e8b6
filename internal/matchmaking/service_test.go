package matchmaking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/courtside/internal/database"
	"github.com/mauv0809/courtside/internal/league"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

var (
	today    = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	tomorrow = today.Add(24 * time.Hour)
)

type fixture struct {
	svc     *matchmaking.Service
	clock   *fixedClock
	pubsub  *pubsub.MockPubSubClient
	metrics *metrics.Mock
	users   user.Store
	leagues league.Store
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	f := &fixture{
		clock:   &fixedClock{now: today},
		pubsub:  pubsub.NewMock(),
		metrics: metrics.NewMock(),
		users:   user.NewStore(db),
		leagues: league.NewStore(db),
	}
	f.svc = matchmaking.NewService(match.NewStore(db), f.users, f.leagues, f.clock, f.pubsub, f.metrics)

	ctx := context.Background()
	for _, u := range []user.User{{ID: "alice", Name: "Alice"}, {ID: "bob", Name: "Bob"}, {ID: "carol", Name: "Carol"}} {
		require.NoError(t, f.users.Add(ctx, u))
	}
	return f
}

func (f *fixture) propose(t *testing.T, from, to string) string {
	t.Helper()
	m, err := f.svc.Propose(context.Background(), from, matchmaking.Proposal{
		Date:  tomorrow.Format(time.RFC3339),
		To:    to,
		Sport: "Tennis",
	})
	require.NoError(t, err)
	return m.ID
}

// played returns a completed alice-vs-bob match.
func (f *fixture) played(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	id := f.propose(t, "alice", "bob")
	require.NoError(t, f.svc.Accept(ctx, "bob", id))
	now := f.clock.now
	f.clock.now = tomorrow.Add(time.Hour)
	require.NoError(t, f.svc.Complete(ctx, "alice", id, match.Scores{"alice": 6, "bob": 4}))
	f.clock.now = now
	return id
}

func intPtr(i int) *int { return &i }

func TestPropose(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	m, err := f.svc.Propose(ctx, "alice", matchmaking.Proposal{
		Date:  tomorrow.Format(time.RFC3339),
		To:    "bob",
		Sport: "Squash",
	})
	require.NoError(t, err)
	assert.Equal(t, match.StatusRequest, m.Status())
	assert.Equal(t, "alice", m.Owner)
	assert.Equal(t, [2]string{"alice", "bob"}, m.Players)
	assert.Equal(t, match.SportSquash, m.Sport)
	assert.True(t, tomorrow.Equal(m.Date))
	assert.Empty(t, m.Messages)
	assert.NotEmpty(t, m.ID)

	assert.Equal(t, 1, f.metrics.Proposals())
	sent := f.pubsub.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, pubsub.EventMatchProposed, sent[0].Topic)
	event := sent[0].Data.(pubsub.MatchEvent)
	assert.Equal(t, m.ID, event.MatchID)
	assert.Equal(t, "alice", event.Actor)

	got, err := f.svc.Get(ctx, "bob", m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.Info().ID)
}

func TestPropose_Rejections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.leagues.Create(ctx, &league.League{ID: "l1", Name: "L", Sport: match.SportTennis, Owner: "bob"}))

	valid := func() matchmaking.Proposal {
		return matchmaking.Proposal{Date: tomorrow.Format(time.RFC3339), To: "bob", Sport: "Tennis"}
	}
	tests := []struct {
		name   string
		mutate func(*matchmaking.Proposal)
		want   error
	}{
		{"self", func(p *matchmaking.Proposal) { p.To = "alice" }, match.ErrSelfProposal},
		{"unknown opponent", func(p *matchmaking.Proposal) { p.To = "nobody" }, match.ErrUnknownOpponent},
		{"missing opponent", func(p *matchmaking.Proposal) { p.To = "" }, match.ErrUnknownOpponent},
		{"garbage date", func(p *matchmaking.Proposal) { p.Date = "next tuesday" }, match.ErrInvalidDate},
		{"past date", func(p *matchmaking.Proposal) { p.Date = today.Add(-time.Minute).Format(time.RFC3339) }, match.ErrInvalidDate},
		{"sport", func(p *matchmaking.Proposal) { p.Sport = "Chess" }, match.ErrInvalidSport},
		{"round without league", func(p *matchmaking.Proposal) { p.Round = intPtr(1) }, match.ErrRoundWithoutLeague},
		{"zero round", func(p *matchmaking.Proposal) { p.League = "l1"; p.Round = intPtr(0) }, match.ErrInvalidRound},
		{"not a league member", func(p *matchmaking.Proposal) { p.League = "l1" }, match.ErrNotLeagueMember},
		{"self beats everything", func(p *matchmaking.Proposal) { p.To = "alice"; p.Date = "x"; p.Sport = "Chess" }, match.ErrSelfProposal},
		{"date before opponent", func(p *matchmaking.Proposal) { p.To = "nobody"; p.Date = "x" }, match.ErrInvalidDate},
		{"opponent before league", func(p *matchmaking.Proposal) { p.To = "nobody"; p.League = "l1" }, match.ErrUnknownOpponent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			_, err := f.svc.Propose(ctx, "alice", p)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Empty(t, f.pubsub.Sent())
	assert.Equal(t, 0, f.metrics.Proposals())
	assert.Equal(t, len(tests), f.metrics.Rejections("propose", "validation"))
}

func TestPropose_InLeague(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.leagues.Create(ctx, &league.League{ID: "l1", Name: "L", Sport: match.SportTennis, Owner: "alice"}))

	m, err := f.svc.Propose(ctx, "alice", matchmaking.Proposal{
		Date: tomorrow.Format(time.RFC3339), To: "bob", Sport: "Tennis", League: "l1", Round: intPtr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "l1", m.League)
	assert.Equal(t, 2, m.Round)

	found, err := f.svc.Find(ctx, "bob", match.FindOptions{Query: match.Query{League: "l1"}})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestAccept(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.propose(t, "alice", "bob")

	t.Run("owner cannot accept their own proposal", func(t *testing.T) {
		err := f.svc.Accept(ctx, "alice", id)
		assert.ErrorIs(t, err, match.ErrNotFound)
		assert.Equal(t, "Failed to get obj", err.Error())
	})

	t.Run("outsider sees nothing", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.Accept(ctx, "carol", id), match.ErrNotFound)
	})

	t.Run("opponent accepts", func(t *testing.T) {
		require.NoError(t, f.svc.Accept(ctx, "bob", id))
		m, err := f.svc.Get(ctx, "alice", id)
		require.NoError(t, err)
		assert.Equal(t, match.StatusAccepted, m.Status())
		assert.Equal(t, 1, f.metrics.Transitions("accept"))
	})

	t.Run("twice", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.Accept(ctx, "bob", id), match.ErrAlreadyAccepted)
		assert.Equal(t, 1, f.metrics.Rejections("accept", "conflict"))
	})
}

func TestCancel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	t.Run("either player can cancel a request", func(t *testing.T) {
		id := f.propose(t, "alice", "bob")
		assert.ErrorIs(t, f.svc.Cancel(ctx, "carol", id), match.ErrNotFound)
		require.NoError(t, f.svc.Cancel(ctx, "bob", id))
		_, err := f.svc.Get(ctx, "alice", id)
		assert.ErrorIs(t, err, match.ErrNotFound)
	})

	t.Run("accepted match", func(t *testing.T) {
		id := f.propose(t, "alice", "bob")
		require.NoError(t, f.svc.Accept(ctx, "bob", id))
		require.NoError(t, f.svc.Cancel(ctx, "alice", id))
	})

	t.Run("completed match stays", func(t *testing.T) {
		id := f.played(t)
		err := f.svc.Cancel(ctx, "bob", id)
		assert.ErrorIs(t, err, match.ErrHasCompleted)
		_, err = f.svc.Get(ctx, "bob", id)
		assert.NoError(t, err)
	})

	t.Run("already cancelled", func(t *testing.T) {
		id := f.propose(t, "alice", "bob")
		require.NoError(t, f.svc.Cancel(ctx, "alice", id))
		assert.ErrorIs(t, f.svc.Cancel(ctx, "alice", id), match.ErrNotFound)
	})
}

func TestComplete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.propose(t, "alice", "bob")
	scores := match.Scores{"alice": 6, "bob": 4}

	assert.ErrorIs(t, f.svc.Complete(ctx, "alice", id, scores), match.ErrNotAccepted)

	require.NoError(t, f.svc.Accept(ctx, "bob", id))
	assert.ErrorIs(t, f.svc.Complete(ctx, "alice", id, scores), match.ErrNotStarted)

	f.clock.now = tomorrow
	assert.ErrorIs(t, f.svc.Complete(ctx, "alice", id, match.Scores{"alice": 6}), match.ErrScoreMismatch)
	assert.ErrorIs(t, f.svc.Complete(ctx, "carol", id, scores), match.ErrNotFound)

	require.NoError(t, f.svc.Complete(ctx, "bob", id, scores))
	m, err := f.svc.Get(ctx, "alice", id)
	require.NoError(t, err)
	c, ok := m.(*match.Completed)
	require.True(t, ok)
	assert.Equal(t, scores, c.Score)

	assert.ErrorIs(t, f.svc.Complete(ctx, "bob", id, match.Scores{"alice": 0, "bob": 9}), match.ErrNotAccepted)

	var completedEvent *pubsub.MatchEvent
	for _, call := range f.pubsub.Sent() {
		if call.Topic == pubsub.EventMatchCompleted {
			e := call.Data.(pubsub.MatchEvent)
			completedEvent = &e
		}
	}
	require.NotNil(t, completedEvent)
	assert.Equal(t, map[string]int{"alice": 6, "bob": 4}, completedEvent.Score)
}

func TestMessage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.propose(t, "alice", "bob")

	err := f.svc.Message(ctx, "alice", id, "hello")
	assert.ErrorIs(t, err, match.ErrNotAccepting)
	assert.Equal(t, "The match is not in an accepting state", err.Error())

	require.NoError(t, f.svc.Accept(ctx, "bob", id))
	require.NoError(t, f.svc.Message(ctx, "alice", id, "hello"))
	f.clock.now = today.Add(time.Minute)
	require.NoError(t, f.svc.Message(ctx, "bob", id, "hi!"))
	assert.ErrorIs(t, f.svc.Message(ctx, "bob", id, ""), match.ErrEmptyMessage)
	assert.ErrorIs(t, f.svc.Message(ctx, "carol", id, "let me in"), match.ErrNotFound)

	m, err := f.svc.Get(ctx, "bob", id)
	require.NoError(t, err)
	msgs := m.Info().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, match.Message{Sender: "alice", Text: "hello", Date: today}, msgs[0])
	assert.Equal(t, "bob", msgs[1].Sender)
	assert.True(t, today.Add(time.Minute).Equal(msgs[1].Date))

	f.clock.now = tomorrow
	require.NoError(t, f.svc.Complete(ctx, "bob", id, match.Scores{"alice": 1, "bob": 2}))
	assert.ErrorIs(t, f.svc.Message(ctx, "alice", id, "gg"), match.ErrNotAccepting)
}

func TestRate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	t.Run("not completed", func(t *testing.T) {
		id := f.propose(t, "alice", "bob")
		assert.ErrorIs(t, f.svc.Rate(ctx, "alice", id, 4), match.ErrNotCompleted)
	})

	id := f.played(t)

	t.Run("rates the opponent once", func(t *testing.T) {
		require.NoError(t, f.svc.Rate(ctx, "alice", id, 4))
		err := f.svc.Rate(ctx, "alice", id, 4)
		assert.ErrorIs(t, err, match.ErrAlreadyRated)

		bob, err := f.svc.GetUser(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, 1, bob.Rating[4])
		assert.Equal(t, 1, bob.Rating.Total())

		alice, err := f.svc.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 0, alice.Rating.Total())
	})

	t.Run("both players may rate", func(t *testing.T) {
		require.NoError(t, f.svc.Rate(ctx, "bob", id, 2))
		m, err := f.svc.Get(ctx, "bob", id)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"alice", "bob"}, m.(*match.Completed).UsersRated)

		alice, err := f.svc.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, alice.Rating[2])
	})

	t.Run("stars out of range", func(t *testing.T) {
		other := f.played(t)
		assert.ErrorIs(t, f.svc.Rate(ctx, "alice", other, 0), match.ErrInvalidStars)
		assert.ErrorIs(t, f.svc.Rate(ctx, "alice", other, 6), match.ErrInvalidStars)
	})

	t.Run("outsider", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.Rate(ctx, "carol", id, 5), match.ErrNotFound)
	})

	assert.Equal(t, 1, f.metrics.Ratings(4))
	assert.Equal(t, 1, f.metrics.Ratings(2))
}

func TestRate_OwnerWithoutProfile(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// dave is authenticated but never saved a profile.
	id := f.propose(t, "dave", "bob")
	require.NoError(t, f.svc.Accept(ctx, "bob", id))
	f.clock.now = tomorrow.Add(time.Hour)
	require.NoError(t, f.svc.Complete(ctx, "dave", id, match.Scores{"dave": 3, "bob": 6}))

	require.NoError(t, f.svc.Rate(ctx, "bob", id, 5))
	assert.ErrorIs(t, f.svc.Rate(ctx, "bob", id, 5), match.ErrAlreadyRated)

	dave, err := f.svc.GetUser(ctx, "dave")
	require.NoError(t, err)
	assert.Equal(t, 1, dave.Rating[5])
	assert.Equal(t, 1, dave.Rating.Total())

	require.NoError(t, f.svc.Rate(ctx, "dave", id, 3))
	bob, err := f.svc.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, bob.Rating[3])
}

func TestFindProposed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	toAlice := f.propose(t, "bob", "alice")
	f.propose(t, "alice", "bob")
	accepted := f.propose(t, "carol", "alice")
	require.NoError(t, f.svc.Accept(ctx, "alice", accepted))

	got, err := f.svc.FindProposed(ctx, "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, toAlice, got[0].Info().ID)

	all, err := f.svc.Find(ctx, "alice", match.FindOptions{Query: match.Query{NotOwnedBy: "alice"}})
	require.NoError(t, err)
	assert.Len(t, all, 3, "ownership filter is not exposed through Find")

	none, err := f.svc.Find(ctx, "carol", match.FindOptions{Query: match.Query{Status: match.StatusRequest}})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPublishFailureDoesNotFailAction(t *testing.T) {
	f := setup(t)
	f.pubsub.SendMessageFunc = func(context.Context, pubsub.EventType, any) error {
		return errors.New("pubsub down")
	}
	id := f.propose(t, "alice", "bob")
	assert.NoError(t, f.svc.Accept(context.Background(), "bob", id))
}

func TestSlowPublishIsBounded(t *testing.T) {
	f := setup(t)
	f.pubsub.SendMessageFunc = func(ctx context.Context, _ pubsub.EventType, _ any) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("publish without deadline")
		}
		<-ctx.Done()
		return ctx.Err()
	}

	start := time.Now()
	m, err := f.svc.Propose(context.Background(), "alice", matchmaking.Proposal{
		Date:  tomorrow.Format(time.RFC3339),
		To:    "bob",
		Sport: "Tennis",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Less(t, time.Since(start), 10*time.Second)
	require.Len(t, f.pubsub.Sent(), 1)
}

func TestNilPublisher(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	users := user.NewStore(db)
	ctx := context.Background()
	require.NoError(t, users.Add(ctx, user.User{ID: "alice", Name: "Alice"}))
	require.NoError(t, users.Add(ctx, user.User{ID: "bob", Name: "Bob"}))

	svc := matchmaking.NewService(match.NewStore(db), users, league.NewStore(db), &fixedClock{now: today}, nil, metrics.NewMock())
	_, err = svc.Propose(ctx, "alice", matchmaking.Proposal{Date: tomorrow.Format(time.RFC3339), To: "bob", Sport: "Badminton"})
	assert.NoError(t, err)
}

func TestStaleWriteSurfacesAsConflict(t *testing.T) {
	store := match.NewMock()
	req := &match.Requested{Details: match.Details{
		ID: "m1", Owner: "alice", Players: [2]string{"alice", "bob"},
		Sport: match.SportTennis, Date: tomorrow, Version: 1,
	}}
	store.GetFunc = func(context.Context, string, string) (match.Match, error) { return req, nil }
	store.UpdateFunc = func(context.Context, match.Match) error { return match.ErrStaleWrite }

	m := metrics.NewMock()
	svc := matchmaking.NewService(store, user.NewMock(), league.NewMock(), &fixedClock{now: today}, nil, m)
	err := svc.Accept(context.Background(), "bob", "m1")
	assert.ErrorIs(t, err, match.ErrStaleWrite)
	assert.Equal(t, match.KindConflict, match.KindOf(err))
	assert.Equal(t, 1, m.Rejections("accept", "conflict"))
}

func TestUsersAndLeagues(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.GetUser(ctx, "nobody")
	assert.ErrorIs(t, err, match.ErrNotFound)

	u, err := f.svc.UpdateProfile(ctx, "dave", "  Dave  ")
	require.NoError(t, err)
	assert.Equal(t, "Dave", u.Name)
	_, err = f.svc.UpdateProfile(ctx, "dave", " ")
	assert.ErrorIs(t, err, match.ErrEmptyName)

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4)
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dave"}, []string{users[0].Name, users[1].Name, users[2].Name, users[3].Name})

	_, err = f.svc.CreateLeague(ctx, "alice", "", "Tennis")
	assert.ErrorIs(t, err, match.ErrEmptyLeagueName)
	_, err = f.svc.CreateLeague(ctx, "alice", "Open", "Golf")
	assert.ErrorIs(t, err, match.ErrInvalidSport)

	l, err := f.svc.CreateLeague(ctx, "alice", "Open", "Tennis")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, l.Members)

	_, err = f.svc.GetLeague(ctx, "bob", l.ID)
	assert.ErrorIs(t, err, match.ErrNotFound, "non-members cannot see a league")

	require.NoError(t, f.svc.JoinLeague(ctx, "bob", l.ID))
	got, err := f.svc.GetLeague(ctx, "bob", l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, got.Members)

	assert.ErrorIs(t, f.svc.JoinLeague(ctx, "bob", "missing"), match.ErrNotFound)
}
