package entity

import (
	"time"

	"storesync-core/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoIntegrationDoc represents an integration in MongoDB
type MongoIntegrationDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"userId"`
	Platform     string             `bson:"platform"`
	StoreURL     string             `bson:"storeUrl"`
	AccessToken  string             `bson:"accessToken"`
	RefreshToken string             `bson:"refreshToken,omitempty"`
	Scope        string             `bson:"scope,omitempty"`
	Status       string             `bson:"status"`
	LastSyncAt   *time.Time         `bson:"lastSyncAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoIntegrationDoc) ToDomain() *domain.Integration {
	return &domain.Integration{
		ID:           d.ID.Hex(),
		UserID:       d.UserID,
		Platform:     domain.Platform(d.Platform),
		StoreURL:     d.StoreURL,
		AccessToken:  d.AccessToken,
		RefreshToken: d.RefreshToken,
		Scope:        d.Scope,
		Status:       domain.IntegrationStatus(d.Status),
		LastSyncAt:   d.LastSyncAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoIntegrationDocFromDomain converts a domain entity to a MongoDB document
func MongoIntegrationDocFromDomain(integration *domain.Integration) *MongoIntegrationDoc {
	doc := &MongoIntegrationDoc{
		UserID:       integration.UserID,
		Platform:     string(integration.Platform),
		StoreURL:     integration.StoreURL,
		AccessToken:  integration.AccessToken,
		RefreshToken: integration.RefreshToken,
		Scope:        integration.Scope,
		Status:       string(integration.Status),
		LastSyncAt:   integration.LastSyncAt,
		CreatedAt:    integration.CreatedAt,
		UpdatedAt:    integration.UpdatedAt,
	}

	if integration.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(integration.ID); err == nil {
			doc.ID = objID
		}
	}

	return doc
}
