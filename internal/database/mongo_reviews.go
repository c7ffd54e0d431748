// server/internal/database/mongo_reviews.go
package database

import (
	"context"
	"fmt"

	"safaipak-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreateReview(ctx context.Context, r *models.Review) error {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	prepareReview(r, s.now())
	if _, err := s.reviews.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("failed to create review: %w", translateWriteError(err))
	}
	return nil
}

func (s *MongoStore) ListReviews(ctx context.Context, f models.ReviewFilter) ([]models.Review, error) {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	query := bson.M{}
	if f.BookingID != "" {
		query["bookingId"] = f.BookingID
	}
	if f.ProviderID != "" {
		query["providerId"] = f.ProviderID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cursor, err := s.reviews.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}
