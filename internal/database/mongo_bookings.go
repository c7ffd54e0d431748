// server/internal/database/mongo_bookings.go
package database

import (
	"context"
	"errors"
	"fmt"

	"safaipak-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreateBooking(ctx context.Context, b *models.Booking) error {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	prepareBooking(b, s.now())
	if _, err := s.bookings.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to create booking: %w", translateWriteError(err))
	}
	return nil
}

func bookingQuery(f models.BookingFilter) bson.M {
	query := bson.M{}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.City != "" {
		query["city"] = containsFold(f.City)
	}
	if f.ServiceType != "" {
		query["serviceType"] = f.ServiceType
	}
	if f.ProviderID != "" {
		query["providerId"] = f.ProviderID
	}
	if f.Phone != "" {
		query["phone"] = f.Phone
	}
	return query
}

func (s *MongoStore) ListBookings(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	// createdAt has millisecond precision; _id breaks ties so paging is stable.
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cursor, err := s.bookings.Find(ctx, bookingQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (s *MongoStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	var booking models.Booking
	err := s.bookings.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking %s: %w", id, err)
	}
	return &booking, nil
}

// bookingSetDoc lists the fields present in the patch under their bson names.
func bookingSetDoc(p models.BookingPatch) bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.City != nil {
		set["city"] = *p.City
	}
	if p.ServiceType != nil {
		set["serviceType"] = *p.ServiceType
	}
	if p.Urgency != nil {
		set["urgency"] = *p.Urgency
	}
	if p.ScheduledFor != nil {
		set["scheduledFor"] = *p.ScheduledFor
	}
	if p.Details != nil {
		set["details"] = *p.Details
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.ProviderID != nil {
		set["providerId"] = *p.ProviderID
	}
	if p.Amount != nil {
		set["amount"] = *p.Amount
	}
	if p.Rating != nil {
		set["rating"] = *p.Rating
	}
	if p.Review != nil {
		set["review"] = *p.Review
	}
	return set
}

// terminalGuard only matches bookings whose status may become next.
func terminalGuard(next models.BookingStatus) bson.A {
	return bson.A{
		bson.M{"status": bson.M{"$nin": bson.A{models.StatusCompleted, models.StatusCancelled}}},
		bson.M{"status": next},
	}
}

func (s *MongoStore) UpdateBooking(ctx context.Context, id string, p models.BookingPatch) (*models.Booking, *models.Booking, error) {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	now := s.now()
	set := bookingSetDoc(p)
	set["updatedAt"] = now

	filter := bson.M{"_id": id}
	if p.Status != nil {
		filter["$or"] = terminalGuard(*p.Status)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	var previous models.Booking
	err := s.bookings.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&previous)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, s.missedBookingUpdate(ctx, id)
		}
		return nil, nil, fmt.Errorf("failed to update booking %s: %w", id, translateWriteError(err))
	}

	updated := previous
	p.Apply(&updated)
	updated.UpdatedAt = now
	return &previous, &updated, nil
}

// missedBookingUpdate explains why an update matched nothing: either the
// booking is gone or the terminal guard rejected it.
func (s *MongoStore) missedBookingUpdate(ctx context.Context, id string) error {
	current, err := s.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	return &StatusLockedError{Status: current.Status}
}
