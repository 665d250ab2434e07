package events

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/keyxmakerx/together/internal/database"
)

// EventRepository defines the data access contract for events.
type EventRepository interface {
	ListByCategory(ctx context.Context, category string, limit int) ([]Event, error)

	// FindByIDs returns up to limit events whose id is in ids. Ids that do
	// not parse for the store are skipped.
	FindByIDs(ctx context.Context, ids []string, limit int) ([]Event, error)

	Count(ctx context.Context) (int64, error)
}

// eventDoc is the events collection document.
type eventDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Title    string             `bson:"title"`
	Category string             `bson:"category"`
}

func (d eventDoc) toEvent() Event {
	return Event{ID: d.ID.Hex(), Title: d.Title, Category: d.Category}
}

// mongoEventRepository implements EventRepository on the events collection.
type mongoEventRepository struct {
	coll *mongo.Collection
}

// NewMongoEventRepository creates an event repository backed by the given
// Mongo database.
func NewMongoEventRepository(db *mongo.Database) EventRepository {
	return &mongoEventRepository{coll: db.Collection(database.CollEvents)}
}

// ListByCategory returns up to limit events in the category, oldest first.
func (r *mongoEventRepository) ListByCategory(ctx context.Context, category string, limit int) ([]Event, error) {
	return r.find(ctx, bson.M{"category": category}, limit)
}

// FindByIDs returns the events with the given hex ids.
func (r *mongoEventRepository) FindByIDs(ctx context.Context, ids []string, limit int) ([]Event, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return []Event{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, limit)
}

// Count counts every event.
func (r *mongoEventRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}

func (r *mongoEventRepository) find(ctx context.Context, filter bson.M, limit int) ([]Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}

	var docs []eventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding events: %w", err)
	}

	evs := make([]Event, 0, len(docs))
	for _, d := range docs {
		evs = append(evs, d.toEvent())
	}
	return evs, nil
}
