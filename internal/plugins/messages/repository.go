package messages

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/keyxmakerx/together/internal/database"
)

// MessageRepository defines the data access contract for messages.
type MessageRepository interface {
	// Insert appends a message and sets msg.ID.
	Insert(ctx context.Context, msg *Message) error

	// Partners returns the distinct addresses email sent to or received
	// from, sorted.
	Partners(ctx context.Context, email string) ([]string, error)

	// CountUnread counts unread messages addressed to email.
	CountUnread(ctx context.Context, email string) (int64, error)
}

// messageDoc is the messages collection document.
type messageDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	From      string             `bson:"from"`
	To        string             `bson:"to"`
	Text      string             `bson:"text"`
	Timestamp time.Time          `bson:"timestamp"`
	Read      bool               `bson:"read"`
}

// mongoMessageRepository implements MessageRepository on the messages
// collection.
type mongoMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository creates a message repository backed by the
// given Mongo database.
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &mongoMessageRepository{coll: db.Collection(database.CollMessages)}
}

// Insert stores a new message document.
func (r *mongoMessageRepository) Insert(ctx context.Context, msg *Message) error {
	doc := messageDoc{
		ID:        primitive.NewObjectID(),
		From:      msg.From,
		To:        msg.To,
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
		Read:      msg.Read,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	msg.ID = doc.ID.Hex()
	return nil
}

// Partners merges the recipients of sent messages with the senders of
// received ones.
func (r *mongoMessageRepository) Partners(ctx context.Context, email string) ([]string, error) {
	sent, err := r.coll.Distinct(ctx, "to", bson.M{"from": email})
	if err != nil {
		return nil, fmt.Errorf("listing recipients: %w", err)
	}
	received, err := r.coll.Distinct(ctx, "from", bson.M{"to": email})
	if err != nil {
		return nil, fmt.Errorf("listing senders: %w", err)
	}

	seen := make(map[string]struct{}, len(sent)+len(received))
	partners := make([]string, 0, len(sent)+len(received))
	for _, v := range append(sent, received...) {
		addr, ok := v.(string)
		if !ok {
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		partners = append(partners, addr)
	}
	sort.Strings(partners)
	return partners, nil
}

// CountUnread counts unread messages addressed to email.
func (r *mongoMessageRepository) CountUnread(ctx context.Context, email string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"to": email, "read": false})
	if err != nil {
		return 0, fmt.Errorf("counting unread messages: %w", err)
	}
	return n, nil
}
