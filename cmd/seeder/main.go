package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/courtside/internal/auth"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/league"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/storage"
	"github.com/mauv0809/courtside/internal/user"
)

const (
	numMatches = 200
	tokenTTL   = 30 * 24 * time.Hour
)

var seedUsers = []user.User{
	{ID: "player-1", Name: "Seeder Player A"},
	{ID: "player-2", Name: "Seeder Player B"},
	{ID: "player-3", Name: "Seeder Player C"},
	{ID: "player-4", Name: "Seeder Player D"},
}

func main() {
	log.Info("Starting database seeder...")
	cfg := config.Load()
	ctx := context.Background()

	stores, teardown, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %s", err)
	}
	defer teardown()

	for _, u := range seedUsers {
		if err := stores.Users.Add(ctx, u); err != nil {
			log.Fatalf("Failed to insert seed user %s: %s", u.ID, err)
		}
	}
	log.Info("Ensured seed users exist.", "count", len(seedUsers))

	l := &league.League{
		ID:        uuid.NewString(),
		Name:      "Seeder League",
		Sport:     match.SportSquash,
		Owner:     seedUsers[0].ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := stores.Leagues.Create(ctx, l); err != nil {
		log.Fatalf("Failed to create seed league: %s", err)
	}
	for _, u := range seedUsers[1:] {
		if err := stores.Leagues.AddMember(ctx, l.ID, u.ID); err != nil {
			log.Fatalf("Failed to add %s to the seed league: %s", u.ID, err)
		}
	}
	log.Info("Created seed league", "id", l.ID)

	startTime := time.Now()
	for i := 0; i < numMatches; i++ {
		if err := seedMatch(ctx, stores.Matches, l.ID, i); err != nil {
			log.Fatalf("Failed to seed match %d: %s", i, err)
		}
		if (i+1)%50 == 0 {
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}
	log.Info("Successfully inserted all seed matches.", "duration", time.Since(startTime))

	identity := auth.NewJWTProvider(cfg.JWTSecret, "courtside")
	for _, u := range seedUsers {
		token, err := identity.Sign(u.ID, tokenTTL)
		if err != nil {
			log.Fatalf("Failed to sign token for %s: %s", u.ID, err)
		}
		fmt.Printf("%s\t%s\n", u.ID, token)
	}
}

// seedMatch creates a match between two random seed users and drives it
// through a random number of lifecycle steps.
func seedMatch(ctx context.Context, store match.Store, leagueID string, i int) error {
	perm := rand.Perm(len(seedUsers))
	owner, opponent := seedUsers[perm[0]].ID, seedUsers[perm[1]].ID
	now := time.Now().UTC()

	// Half the matches lie in the past so they can be completed.
	date := now.Add(time.Duration(rand.Intn(30*24)+1) * time.Hour)
	if i%2 == 0 {
		date = now.Add(-time.Duration(rand.Intn(365*24)+1) * time.Hour)
	}
	sport := []match.Sport{match.SportTennis, match.SportSquash, match.SportBadminton}[rand.Intn(3)]
	req := &match.Requested{Details: match.Details{
		ID:      uuid.NewString(),
		Owner:   owner,
		Players: [2]string{owner, opponent},
		Sport:   sport,
		Date:    date,
	}}
	if sport == match.SportSquash && i%3 == 0 {
		req.League = leagueID
		req.Round = i%5 + 1
	}
	if err := store.Create(ctx, req); err != nil {
		return err
	}
	if rand.Intn(4) == 0 {
		return nil
	}

	accepted, err := match.Accept(req, opponent)
	if err != nil {
		return err
	}
	if err := store.Update(ctx, accepted); err != nil {
		return err
	}
	if date.After(now) {
		return nil
	}

	completed, err := match.Complete(accepted, owner, now, match.Scores{owner: rand.Intn(7), opponent: rand.Intn(7)})
	if err != nil {
		return err
	}
	if err := store.Update(ctx, completed); err != nil {
		return err
	}
	for _, rater := range []string{owner, opponent} {
		if rand.Intn(2) == 0 {
			continue
		}
		stars := rand.Intn(5) + 1
		rated, ratee, err := match.Rate(completed, rater, stars)
		if err != nil {
			return err
		}
		if err := store.RecordRating(ctx, rated, ratee, stars); err != nil {
			return err
		}
		completed = rated
	}
	return nil
}
