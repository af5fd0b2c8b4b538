package repository

import (
	"context"
	"time"

	"storesync-core/internal/domain"
	"storesync-core/internal/infrastructure/repository/entity"
	"storesync-core/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoIntegrationRepository implements IntegrationRepository using MongoDB
type MongoIntegrationRepository struct {
	collection *mongo.Collection
}

// NewMongoIntegrationRepository creates a new MongoDB integration repository
func NewMongoIntegrationRepository(db *mongo.Database) ports.IntegrationRepository {
	return &MongoIntegrationRepository{
		collection: db.Collection("integrations"),
	}
}

// GetByID retrieves an integration by id. Returns (nil, nil) when absent.
func (r *MongoIntegrationRepository) GetByID(ctx context.Context, id string) (*domain.Integration, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id cannot match any stored integration.
		return nil, nil
	}

	var doc entity.MongoIntegrationDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, domain.PersistenceError(err, "failed to get integration")
	}

	return doc.ToDomain(), nil
}

// ListActive retrieves all integrations with status active.
func (r *MongoIntegrationRepository) ListActive(ctx context.Context) ([]*domain.Integration, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": string(domain.IntegrationActive)})
	if err != nil {
		return nil, domain.PersistenceError(err, "failed to list active integrations")
	}
	defer cursor.Close(ctx)

	var integrations []*domain.Integration
	for cursor.Next(ctx) {
		var doc entity.MongoIntegrationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, domain.PersistenceError(err, "failed to decode integration")
		}
		integrations = append(integrations, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, domain.PersistenceError(err, "cursor error")
	}

	return integrations, nil
}

// Upsert inserts or overwrites an integration keyed on
// (user_id, platform, store_url) and fills in the stored id.
func (r *MongoIntegrationRepository) Upsert(ctx context.Context, integration *domain.Integration) error {
	// One row per (user_id, platform, store_url) in steady state.
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "platform", Value: 1},
			{Key: "storeUrl", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	_, _ = r.collection.Indexes().CreateOne(ctx, indexModel)

	now := time.Now()
	doc := entity.MongoIntegrationDocFromDomain(integration)
	filter := bson.M{
		"userId":   doc.UserID,
		"platform": doc.Platform,
		"storeUrl": doc.StoreURL,
	}
	update := bson.M{
		"$set": bson.M{
			"accessToken":  doc.AccessToken,
			"refreshToken": doc.RefreshToken,
			"scope":        doc.Scope,
			"status":       doc.Status,
			"updatedAt":    now,
		},
		"$setOnInsert": bson.M{
			"userId":    doc.UserID,
			"platform":  doc.Platform,
			"storeUrl":  doc.StoreURL,
			"createdAt": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return domain.PersistenceError(err, "failed to upsert integration")
	}

	if result.UpsertedID != nil {
		if objID, ok := result.UpsertedID.(primitive.ObjectID); ok {
			integration.ID = objID.Hex()
		}
	} else if integration.ID == "" {
		var stored entity.MongoIntegrationDoc
		if err := r.collection.FindOne(ctx, filter).Decode(&stored); err == nil {
			integration.ID = stored.ID.Hex()
		}
	}

	return nil
}

// StampLastSync records the time of the most recent completed sync attempt.
func (r *MongoIntegrationRepository) StampLastSync(ctx context.Context, id string, at time.Time) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.PersistenceError(err, "invalid integration id %q", id)
	}

	update := bson.M{"$set": bson.M{"lastSyncAt": at, "updatedAt": time.Now()}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update); err != nil {
		return domain.PersistenceError(err, "failed to stamp last sync time")
	}

	return nil
}
