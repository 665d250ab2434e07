package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/keyxmakerx/together/internal/config"
	"github.com/keyxmakerx/together/internal/database"
	"github.com/keyxmakerx/together/internal/plugins/auth"
	"github.com/keyxmakerx/together/internal/plugins/content"
	"github.com/keyxmakerx/together/internal/plugins/events"
	"github.com/keyxmakerx/together/internal/plugins/messages"
)

// Stores bundles the repositories of the active store driver together with
// the lifecycle hooks of the connection that backs them.
type Stores struct {
	Users    auth.UserRepository
	Events   events.EventRepository
	Messages messages.MessageRepository
	Content  content.ContentRepository

	// Ping checks the store is reachable. Used by /healthz.
	Ping func(ctx context.Context) error

	// Close releases the connection. Called once on shutdown.
	Close func(ctx context.Context) error
}

// NewMongoStores builds the Mongo-backed repositories on the named database.
func NewMongoStores(client *mongo.Client, dbName string) *Stores {
	db := client.Database(dbName)
	return &Stores{
		Users:    auth.NewMongoUserRepository(db),
		Events:   events.NewMongoEventRepository(db),
		Messages: messages.NewMongoMessageRepository(db),
		Content:  content.NewMongoContentRepository(db),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		Close: client.Disconnect,
	}
}

// NewMariaStores builds the MariaDB-backed repositories on the given pool.
func NewMariaStores(db *sql.DB) *Stores {
	return &Stores{
		Users:    auth.NewMariaUserRepository(db),
		Events:   events.NewMariaEventRepository(db),
		Messages: messages.NewMariaMessageRepository(db),
		Content:  content.NewMariaContentRepository(db),
		Ping:     db.PingContext,
		Close: func(context.Context) error {
			return db.Close()
		},
	}
}

// OpenStores connects to the store selected by DB_DRIVER and brings its
// schema up to date: indexes for Mongo, migrations for MariaDB.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Database.Driver {
	case config.DriverMariaDB:
		db, err := database.NewMariaDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return nil, err
		}
		slog.Info("connected to MariaDB", slog.String("database", cfg.Database.Name))
		return NewMariaStores(db), nil

	case config.DriverMongo:
		client, err := database.NewMongo(cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureIndexes(ctx, client.Database(cfg.Mongo.Database)); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		slog.Info("connected to MongoDB", slog.String("database", cfg.Mongo.Database))
		return NewMongoStores(client, cfg.Mongo.Database), nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Database.Driver)
	}
}
