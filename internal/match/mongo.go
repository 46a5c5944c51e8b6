package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	matchesCollection = "matches"
	usersCollection   = "users"
)

// mongoDocument is a match as stored in MongoDB.
type mongoDocument struct {
	Document  `bson:",inline"`
	CreatedAt time.Time `bson:"createdAt"`
}

type mongoStore struct {
	matches *mongo.Collection
	users   *mongo.Collection
}

// NewMongoStore creates a match store backed by MongoDB.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{
		matches: db.Collection(matchesCollection),
		users:   db.Collection(usersCollection),
	}
}

func (s *mongoStore) Create(ctx context.Context, m *Requested) error {
	if m.Version == 0 {
		m.Version = 1
	}
	doc := mongoDocument{Document: ToDocument(m), CreatedAt: time.Now().UTC()}
	if _, err := s.matches.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	log.Debug("Created match", "id", m.ID, "owner", m.Owner)
	return nil
}

func (s *mongoStore) Get(ctx context.Context, id, caller string) (Match, error) {
	var doc mongoDocument
	err := s.matches.FindOne(ctx, bson.M{"_id": id, "players": caller}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return FromDocument(normalize(doc.Document))
}

func (s *mongoStore) Find(ctx context.Context, caller string, opts FindOptions) ([]Match, error) {
	opts = opts.Normalize()

	filter := bson.M{"players": caller}
	if opts.Query.Status != "" {
		filter["status"] = opts.Query.Status
	}
	if opts.Query.Sport != "" {
		filter["sport"] = opts.Query.Sport
	}
	if opts.Query.League != "" {
		filter["league"] = opts.Query.League
	}
	if opts.Query.NotOwnedBy != "" {
		filter["owner"] = bson.M{"$ne": opts.Query.NotOwnedBy}
	}

	sort := bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	if opts.SortDate != 0 {
		sort = bson.D{{Key: "date", Value: opts.SortDate}, {Key: "_id", Value: 1}}
	}
	findOpts := options.Find().
		SetSort(sort).
		SetSkip(int64(opts.PageStart)).
		SetLimit(int64(opts.PageSize))

	cursor, err := s.matches.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}
	matches := make([]Match, 0, len(docs))
	for _, doc := range docs {
		m, err := FromDocument(normalize(doc.Document))
		if err != nil {
			log.Warn("Skipping invalid match", "id", doc.ID, "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *mongoStore) Update(ctx context.Context, m Match) error {
	d := m.Info()
	set := bson.M{
		"status":   m.Status(),
		"messages": ToDocument(m).Messages,
	}
	if c, ok := m.(*Completed); ok {
		set["score"] = c.Score
		set["usersRated"] = c.UsersRated
	}
	res, err := s.matches.UpdateOne(ctx,
		bson.M{"_id": d.ID, "version": d.Version},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrStaleWrite
	}
	d.Version++
	log.Debug("Updated match", "id", d.ID, "status", m.Status(), "version", d.Version)
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, m Match) error {
	d := m.Info()
	res, err := s.matches.DeleteOne(ctx, bson.M{"_id": d.ID, "version": d.Version})
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrStaleWrite
	}
	log.Debug("Deleted match", "id", d.ID)
	return nil
}

// RecordRating adds the rater to the match first. Only when that conditional
// write lands is the opponent's histogram incremented, so a repeated call
// never counts twice.
func (s *mongoStore) RecordRating(ctx context.Context, m *Completed, opponent string, stars int) error {
	if len(m.UsersRated) == 0 {
		return fmt.Errorf("match %s: no rater to record", m.ID)
	}
	rater := m.UsersRated[len(m.UsersRated)-1]

	res, err := s.matches.UpdateOne(ctx,
		bson.M{
			"_id":        m.ID,
			"version":    m.Version,
			"status":     StatusComplete,
			"usersRated": bson.M{"$ne": rater},
		},
		bson.M{
			"$push": bson.M{"usersRated": rater},
			"$inc":  bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to record rater: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := s.matches.CountDocuments(ctx, bson.M{"_id": m.ID, "usersRated": rater})
		if err == nil && n > 0 {
			return ErrAlreadyRated
		}
		return ErrStaleWrite
	}
	m.Version++

	// Players can take part without ever saving a profile, so the opponent
	// is created on first rating.
	key := fmt.Sprintf("rating.%d", stars)
	res, err = s.users.UpdateOne(ctx,
		bson.M{"_id": opponent},
		bson.M{
			"$inc":         bson.M{key: 1},
			"$setOnInsert": bson.M{"name": opponent},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to increment rating: %w", err)
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return fmt.Errorf("failed to increment rating: user %s not written", opponent)
	}
	log.Debug("Recorded rating", "match", m.ID, "rater", rater, "opponent", opponent, "stars", stars)
	return nil
}

// normalize undoes what the driver does to empty and zoned values.
func normalize(doc Document) Document {
	doc.Date = doc.Date.UTC()
	for i := range doc.Messages {
		doc.Messages[i].Date = doc.Messages[i].Date.UTC()
	}
	if doc.Status == StatusComplete && doc.UsersRated == nil {
		doc.UsersRated = []string{}
	}
	return doc
}
