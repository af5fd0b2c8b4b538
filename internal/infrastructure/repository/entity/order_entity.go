package entity

import (
	"encoding/json"
	"time"

	"storesync-core/internal/domain"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
)

// MongoOrderDoc represents a cached external order in MongoDB. TotalPrice
// is stored as its exact string form; RawData keeps the full source payload
// as a document for forward compatibility.
type MongoOrderDoc struct {
	IntegrationID string    `bson:"integrationId"`
	ExternalID    string    `bson:"externalId"`
	TotalPrice    string    `bson:"totalPrice"`
	Currency      string    `bson:"currency"`
	CustomerName  string    `bson:"customerName"`
	Status        string    `bson:"status"`
	OrderedAt     time.Time `bson:"orderedAt"`
	RawData       bson.M    `bson:"rawData,omitempty"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoOrderDoc) ToDomain() *domain.Order {
	price, err := decimal.NewFromString(d.TotalPrice)
	if err != nil {
		price = decimal.Zero
	}

	var raw json.RawMessage
	if d.RawData != nil {
		if data, err := json.Marshal(d.RawData); err == nil {
			raw = data
		}
	}

	return &domain.Order{
		IntegrationID: d.IntegrationID,
		ExternalID:    d.ExternalID,
		TotalPrice:    price,
		Currency:      d.Currency,
		CustomerName:  d.CustomerName,
		Status:        d.Status,
		OrderedAt:     d.OrderedAt,
		RawData:       raw,
	}
}

// MongoOrderDocFromDomain converts a domain entity to a MongoDB document
func MongoOrderDocFromDomain(order *domain.Order) *MongoOrderDoc {
	doc := &MongoOrderDoc{
		IntegrationID: order.IntegrationID,
		ExternalID:    order.ExternalID,
		TotalPrice:    order.TotalPrice.String(),
		Currency:      order.Currency,
		CustomerName:  order.CustomerName,
		Status:        order.Status,
		OrderedAt:     order.OrderedAt,
	}

	if len(order.RawData) > 0 {
		var raw bson.M
		if err := json.Unmarshal(order.RawData, &raw); err == nil {
			doc.RawData = raw
		}
	}

	return doc
}
