// Package storage opens the configured backend and builds its stores.
package storage

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/database"
	"github.com/mauv0809/courtside/internal/league"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/user"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stores groups the persistence of one backend.
type Stores struct {
	Matches match.Store
	Users   user.Store
	Leagues league.Store
	// DB is pinged by health checks.
	DB Pinger
}

// Pinger reports whether the backend is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type mongoPinger struct{ db *mongo.Database }

func (p mongoPinger) PingContext(ctx context.Context) error {
	return p.db.Client().Ping(ctx, nil)
}

// Open connects to the backend named by cfg. The returned func releases it.
func Open(ctx context.Context, cfg config.Config) (Stores, func(), error) {
	if cfg.UseMongo() {
		db, teardown, err := database.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return Stores{}, nil, err
		}
		log.Info("Using MongoDB storage", "database", cfg.Mongo.Database)
		return Stores{
			Matches: match.NewMongoStore(db),
			Users:   user.NewMongoStore(db),
			Leagues: league.NewMongoStore(db),
			DB:      mongoPinger{db},
		}, teardown, nil
	}

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		return Stores{}, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Info("Using SQL storage")
	return Stores{
		Matches: match.NewStore(db),
		Users:   user.NewStore(db),
		Leagues: league.NewStore(db),
		DB:      db,
	}, teardown, nil
}
