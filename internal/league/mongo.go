package league

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoStore struct {
	leagues *mongo.Collection
}

// NewMongoStore creates a league store backed by MongoDB.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{leagues: db.Collection("leagues")}
}

func (s *mongoStore) Create(ctx context.Context, l *League) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	l.Members = []string{l.Owner}
	if _, err := s.leagues.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("failed to create league: %w", err)
	}
	return nil
}

func (s *mongoStore) Get(ctx context.Context, id string) (*League, error) {
	var l League
	err := s.leagues.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get league %s: %w", id, err)
	}
	l.CreatedAt = l.CreatedAt.UTC()
	return &l, nil
}

func (s *mongoStore) AddMember(ctx context.Context, leagueID, userID string) error {
	res, err := s.leagues.UpdateOne(ctx, bson.M{"_id": leagueID}, bson.M{"$addToSet": bson.M{"members": userID}})
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoStore) IsMember(ctx context.Context, leagueID, userID string) (bool, error) {
	n, err := s.leagues.CountDocuments(ctx, bson.M{"_id": leagueID, "members": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return n > 0, nil
}
