// server/internal/database/mongo_providers.go
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

func (s *MongoStore) CreateProvider(ctx context.Context, p *models.Provider) error {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	prepareProvider(p, s.now())
	if _, err := s.providers.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create provider: %w", translateWriteError(err))
	}
	return nil
}

func providerQuery(f models.ProviderFilter) bson.M {
	query := bson.M{}
	if f.City != "" {
		query["city"] = containsFold(f.City)
	}
	if f.Specialization != "" {
		// Matches array membership.
		query["specialization"] = f.Specialization
	}
	if f.Available != nil {
		query["available"] = *f.Available
	}
	if f.Verified != nil {
		query["verified"] = *f.Verified
	}
	return query
}

func (s *MongoStore) ListProviders(ctx context.Context, f models.ProviderFilter) ([]models.Provider, error) {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "rating", Value: -1},
		{Key: "totalJobs", Value: -1},
	})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cursor, err := s.providers.Find(ctx, providerQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer cursor.Close(ctx)

	providers := []models.Provider{}
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}
	return providers, nil
}

func (s *MongoStore) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	var provider models.Provider
	err := s.providers.FindOne(ctx, bson.M{"_id": id}).Decode(&provider)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve provider %s: %w", id, err)
	}
	return &provider, nil
}

func providerSetDoc(p models.ProviderPatch) bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.City != nil {
		set["city"] = *p.City
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.Specialization != nil {
		set["specialization"] = *p.Specialization
	}
	if p.CertificationLevel != nil {
		set["certificationLevel"] = *p.CertificationLevel
	}
	if p.YearsOfExperience != nil {
		set["yearsOfExperience"] = *p.YearsOfExperience
	}
	if p.Rating != nil {
		set["rating"] = *p.Rating
	}
	if p.TotalJobs != nil {
		set["totalJobs"] = *p.TotalJobs
	}
	if p.Verified != nil {
		set["verified"] = *p.Verified
	}
	if p.Available != nil {
		set["available"] = *p.Available
	}
	if p.EmergencyService != nil {
		set["emergencyService"] = *p.EmergencyService
	}
	if p.AgriculturalSpecialization != nil {
		set["agriculturalSpecialization"] = *p.AgriculturalSpecialization
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.Documents != nil {
		set["documents"] = *p.Documents
	}
	return set
}

func (s *MongoStore) UpdateProvider(ctx context.Context, id string, p models.ProviderPatch) (*models.Provider, error) {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	set := providerSetDoc(p)
	set["updatedAt"] = s.now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var provider models.Provider
	err := s.providers.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&provider)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update provider %s: %w", id, translateWriteError(err))
	}
	return &provider, nil
}

func (s *MongoStore) AppendProviderDocument(ctx context.Context, id string, doc models.MediaPointer) (*models.Provider, error) {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"documents": doc},
		"$set":  bson.M{"updatedAt": s.now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var provider models.Provider
	err := s.providers.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&provider)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to attach document to provider %s: %w", id, err)
	}
	return &provider, nil
}
