// server/internal/database/mongo.go
package database

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"safaipak-api-server/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	bookingsCollection  = "bookings"
	providersCollection = "providers"
	reviewsCollection   = "reviews"
)

// MongoStore is the persistent backend. Concurrent updates to one document
// resolve last-write-wins at the database.
type MongoStore struct {
	client    *mongo.Client
	bookings  *mongo.Collection
	providers *mongo.Collection
	reviews   *mongo.Collection
	timeout   time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// NewMongoStore connects, pings and prepares indexes. Any failure here is
// meant to halt startup.
func NewMongoStore(ctx context.Context, cfg config.MongoConfig, log *zap.Logger) (*MongoStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.DBName)
	s := &MongoStore{
		client:    client,
		bookings:  db.Collection(bookingsCollection),
		providers: db.Collection(providersCollection),
		reviews:   db.Collection(reviewsCollection),
		timeout:   timeout,
		now:       time.Now,
		log:       log,
	}
	if err := s.ensureIndexes(connectCtx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("Connected to MongoDB", zap.String("db", cfg.DBName))
	return s, nil
}

func (s *MongoStore) Name() string { return "mongo" }

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.providers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "city", Value: 1}}},
		{Keys: bson.D{{Key: "specialization", Value: 1}}},
		{Keys: bson.D{{Key: "rating", Value: -1}, {Key: "totalJobs", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create provider indexes: %w", err)
	}

	_, err = s.bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "serviceType", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	// One review per booking; reviews without a booking are not constrained.
	_, err = s.reviews.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "bookingId", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{
				"bookingId": bson.M{"$exists": true},
			}),
		},
		{Keys: bson.D{{Key: "providerId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) newContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// containsFold matches a literal, case-insensitive substring.
func containsFold(substr string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(substr), Options: "i"}
}

func translateWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
