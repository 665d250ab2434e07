package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/keyxmakerx/together/internal/apperror"
	"github.com/keyxmakerx/together/internal/database"
)

// UserRepository defines the data access contract for user operations.
// All store queries live in the concrete implementations -- nothing leaks out.
type UserRepository interface {
	// Create persists a new user and sets user.ID. Returns ErrDuplicateEmail
	// when the store's unique email constraint rejects the insert.
	Create(ctx context.Context, user *User) error

	// FindByEmail returns apperror.NotFound if no user has this email.
	FindByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// Admin operations.
	CountActiveMembers(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	ListMembers(ctx context.Context, limit int) ([]User, error)
}

// userDoc is the users collection document. Older documents may lack
// status, password_hash or created_at. registered_events is decoded raw
// because legacy entries are not always ObjectIDs; only ObjectIDs count.
type userDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Email            string             `bson:"email"`
	Name             string             `bson:"name"`
	PasswordHash     string             `bson:"password_hash,omitempty"`
	IsAdmin          bool               `bson:"is_admin"`
	Status           string             `bson:"status,omitempty"`
	RegisteredEvents []bson.RawValue    `bson:"registered_events,omitempty"`
	CreatedAt        time.Time          `bson:"created_at,omitempty"`
}

func (d *userDoc) toUser() *User {
	u := &User{
		ID:               d.ID.Hex(),
		Email:            d.Email,
		Name:             d.Name,
		PasswordHash:     d.PasswordHash,
		IsAdmin:          d.IsAdmin,
		Status:           d.Status,
		RegisteredEvents: make([]string, 0, len(d.RegisteredEvents)),
		CreatedAt:        d.CreatedAt,
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	for _, v := range d.RegisteredEvents {
		if id, ok := v.ObjectIDOK(); ok {
			u.RegisteredEvents = append(u.RegisteredEvents, id.Hex())
		}
	}
	return u
}

// mongoUserRepository implements UserRepository on the users collection.
type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a user repository backed by the given
// Mongo database.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(database.CollUsers)}
}

// Create inserts a new user document.
func (r *mongoUserRepository) Create(ctx context.Context, user *User) error {
	doc := userDoc{
		ID:           primitive.NewObjectID(),
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		IsAdmin:      user.IsAdmin,
		Status:       user.Status,
		CreatedAt:    user.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	user.ID = doc.ID.Hex()
	return nil
}

// FindByEmail retrieves a user by email address.
func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}
	return doc.toUser(), nil
}

// EmailExists returns true if a user with the given email already exists.
// Used during signup to check for duplicates before hashing the password.
func (r *mongoUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}
	return n > 0, nil
}

// CountActiveMembers counts non-admin users whose status is Active.
func (r *mongoUserRepository) CountActiveMembers(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"is_admin": false, "status": StatusActive})
	if err != nil {
		return 0, fmt.Errorf("counting active members: %w", err)
	}
	return n, nil
}

// CountUsers counts every user, admins included.
func (r *mongoUserRepository) CountUsers(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

// ListMembers returns up to limit non-admin users in insertion order.
func (r *mongoUserRepository) ListMembers(ctx context.Context, limit int) ([]User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"is_admin": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding members: %w", err)
	}

	users := make([]User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toUser())
	}
	return users, nil
}
