package content

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/keyxmakerx/together/internal/database"
)

// ContentRepository defines the data access contract for catalogue items.
type ContentRepository interface {
	// List returns up to limit items of any type.
	List(ctx context.Context, limit int) ([]Item, error)

	// ListByType returns up to limit items of one type.
	ListByType(ctx context.Context, itemType string, limit int) ([]Item, error)
}

// itemDoc is the content collection document.
type itemDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Type        string             `bson:"type"`
	Description string             `bson:"description,omitempty"`
}

// mongoContentRepository implements ContentRepository on the content
// collection.
type mongoContentRepository struct {
	coll *mongo.Collection
}

// NewMongoContentRepository creates a content repository backed by the
// given Mongo database.
func NewMongoContentRepository(db *mongo.Database) ContentRepository {
	return &mongoContentRepository{coll: db.Collection(database.CollContent)}
}

func (r *mongoContentRepository) List(ctx context.Context, limit int) ([]Item, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *mongoContentRepository) ListByType(ctx context.Context, itemType string, limit int) ([]Item, error) {
	return r.find(ctx, bson.M{"type": itemType}, limit)
}

func (r *mongoContentRepository) find(ctx context.Context, filter bson.M, limit int) ([]Item, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying content: %w", err)
	}

	var docs []itemDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}

	items := make([]Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, Item{
			ID:          d.ID.Hex(),
			Title:       d.Title,
			Type:        d.Type,
			Description: d.Description,
		})
	}
	return items, nil
}
