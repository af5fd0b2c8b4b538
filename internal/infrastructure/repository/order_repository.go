package repository

import (
	"context"
	"time"

	"storesync-core/internal/domain"
	"storesync-core/internal/infrastructure/repository/entity"
	"storesync-core/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderRepository implements OrderRepository using MongoDB
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates a new MongoDB order repository
func NewMongoOrderRepository(db *mongo.Database) ports.OrderRepository {
	return &MongoOrderRepository{
		collection: db.Collection("orders"),
	}
}

// UpsertMany inserts or overwrites orders keyed on
// (integration_id, external_id), so re-ingesting an overlapping window
// never duplicates rows and always reflects the latest upstream state.
func (r *MongoOrderRepository) UpsertMany(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "integrationId", Value: 1},
			{Key: "externalId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	_, _ = r.collection.Indexes().CreateOne(ctx, indexModel)

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(orders))
	for _, order := range orders {
		doc := entity.MongoOrderDocFromDomain(order)
		doc.UpdatedAt = now

		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{
				"integrationId": doc.IntegrationID,
				"externalId":    doc.ExternalID,
			}).
			SetUpdate(bson.M{"$set": doc}).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, models); err != nil {
		return domain.PersistenceError(err, "failed to upsert orders")
	}

	return nil
}
