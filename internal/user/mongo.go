package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// document is a user as stored in MongoDB. BSON keys must be strings, so the
// histogram is keyed "1" through "5".
type document struct {
	ID     string         `bson:"_id"`
	Name   string         `bson:"name"`
	Rating map[string]int `bson:"rating"`
}

func (d document) toUser() *User {
	u := &User{ID: d.ID, Name: d.Name, Rating: NewRating()}
	for k, v := range d.Rating {
		if stars, err := strconv.Atoi(k); err == nil {
			u.Rating[stars] = v
		}
	}
	return u
}

type mongoStore struct {
	users *mongo.Collection
}

// NewMongoStore creates a user store backed by MongoDB.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{users: db.Collection("users")}
}

func (s *mongoStore) Add(ctx context.Context, u User) error {
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": u.ID},
		bson.M{
			"$set":         bson.M{"name": u.Name},
			"$setOnInsert": bson.M{"rating": bson.M{}},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
	}
	return nil
}

func (s *mongoStore) Get(ctx context.Context, id string) (*User, error) {
	var doc document
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return doc.toUser(), nil
}

func (s *mongoStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.users.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *mongoStore) List(ctx context.Context) ([]User, error) {
	cursor, err := s.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	users := make([]User, 0, len(docs))
	for _, d := range docs {
		users = append(users, *d.toUser())
	}
	return users, nil
}
