package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/keyxmakerx/together/internal/config"
)

// Collection names shared by the Mongo repositories and index bootstrap.
const (
	CollUsers    = "users"
	CollEvents   = "events"
	CollMessages = "messages"
	CollContent  = "content"
)

// NewMongo connects to MongoDB, optionally pinning a CA bundle, and pings
// the primary before returning. The caller owns the client and must call
// Disconnect on shutdown.
func NewMongo(cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(5 * time.Second)

	if cfg.CAFile != "" {
		tlsCfg, err := loadCATLS(cfg.CAFile)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	ping := func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
	if err := pingWithRetry("mongo", ping); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

// loadCATLS builds a TLS config trusting the certificates in a PEM file.
func loadCATLS(path string) (*tls.Config, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mongo CA file: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %s", path)
	}

	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

// EnsureIndexes creates the indexes the repositories rely on. Safe to call
// on every startup; existing indexes with the same spec are left alone.
//
// The unique email index backs up the signup existence check: concurrent
// signups for the same email fail with a duplicate-key error instead of
// creating two users.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(CollUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	}); err != nil {
		return fmt.Errorf("creating users email index: %w", err)
	}

	if _, err := db.Collection(CollMessages).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "from", Value: 1}}, Options: options.Index().SetName("messages_from")},
		{Keys: bson.D{{Key: "to", Value: 1}, {Key: "read", Value: 1}}, Options: options.Index().SetName("messages_to_read")},
	}); err != nil {
		return fmt.Errorf("creating messages indexes: %w", err)
	}

	if _, err := db.Collection(CollEvents).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}},
		Options: options.Index().SetName("events_category"),
	}); err != nil {
		return fmt.Errorf("creating events category index: %w", err)
	}

	return nil
}
