// Package mongostore provides a MongoDB-backed ledger.Store for the hosted
// backend.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/theirongolddev/mealbook/internal/ledger"
	"github.com/theirongolddev/mealbook/internal/model"
)

const collectionName = "meals"

// document is the stored form of a ledger row.
type document struct {
	ID        string    `bson:"id"`
	Owner     string    `bson:"owner"`
	Day       string    `bson:"day"`
	Breakfast bool      `bson:"breakfast"`
	Dinner    bool      `bson:"dinner"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Store is a ledger.Store over one MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ ledger.Store = (*Store)(nil)

// Connect dials uri, verifies the connection, and ensures indexes on the
// meals collection of database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	s := &Store{client: client, coll: client.Database(database).Collection(collectionName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "day", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := s.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Select returns owner's rows within r, ordered by day then id.
func (s *Store) Select(ctx context.Context, owner string, r *model.Range) ([]model.MealRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "day", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := s.coll.Find(ctx, ownerFilter(owner, r), opts)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classify(err)
	}

	out := make([]model.MealRecord, 0, len(docs))
	for _, d := range docs {
		rec, err := d.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Insert stores rows in order and returns their new ids. Insertion stops at
// the first duplicate (owner, day), which is reported as ledger.ErrConflict;
// rows before it stay inserted.
func (s *Store) Insert(ctx context.Context, rows []model.MealRecord) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	docs := make([]any, len(rows))
	ids := make([]string, len(rows))
	for i, r := range rows {
		if r.Owner == "" {
			return nil, ledger.ErrUnauthenticated
		}
		d := newDocument(r, now)
		docs[i] = d
		ids[i] = d.ID
	}

	if _, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, classify(err)
	}
	return ids, nil
}

// Update applies p to the row with id owned by owner in one update.
func (s *Store) Update(ctx context.Context, owner, id string, p model.Patch) error {
	if p.Empty() {
		return nil
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"id": id, "owner": owner}, patchUpdate(p, time.Now().UTC()))
	if err != nil {
		return classify(err)
	}
	if res.MatchedCount == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// Delete removes owner's rows within r, or all of them when r is nil.
func (s *Store) Delete(ctx context.Context, owner string, r *model.Range) error {
	if _, err := s.coll.DeleteMany(ctx, ownerFilter(owner, r)); err != nil {
		return classify(err)
	}
	return nil
}

func newDocument(r model.MealRecord, now time.Time) document {
	return document{
		ID:        uuid.NewString(),
		Owner:     r.Owner,
		Day:       model.FormatDate(r.Date),
		Breakfast: r.Breakfast,
		Dinner:    r.Dinner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (d document) record() (model.MealRecord, error) {
	day, err := model.ParseDate(d.Day)
	if err != nil {
		return model.MealRecord{}, fmt.Errorf("document %s: %w", d.ID, err)
	}
	return model.MealRecord{
		ID:        d.ID,
		Date:      day,
		Breakfast: d.Breakfast,
		Dinner:    d.Dinner,
		Owner:     d.Owner,
	}, nil
}

// ownerFilter matches owner's rows, limited to r when non-nil. Days are
// stored as YYYY-MM-DD so string comparison orders them.
func ownerFilter(owner string, r *model.Range) bson.M {
	f := bson.M{"owner": owner}
	if r != nil {
		f["day"] = bson.M{
			"$gte": model.FormatDate(r.Start),
			"$lte": model.FormatDate(r.End),
		}
	}
	return f
}

func patchUpdate(p model.Patch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.Breakfast != nil {
		set["breakfast"] = *p.Breakfast
	}
	if p.Dinner != nil {
		set["dinner"] = *p.Dinner
	}
	return bson.M{"$set": set}
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", ledger.ErrConflict, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err),
		errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %w", ledger.ErrStoreUnavailable, err)
	}
	return err
}
