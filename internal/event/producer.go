// Package event publishes marketplace domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/vendly/marketplace/pkg/kafka"

	"github.com/vendly/marketplace/internal/domain"
)

// Kafka topic constants for marketplace domain events.
const (
	TopicStoreCreated   = "marketplace.store.created"
	TopicStoreUpdated   = "marketplace.store.updated"
	TopicStoreDeleted   = "marketplace.store.deleted"
	TopicProductCreated = "marketplace.product.created"
	TopicProductUpdated = "marketplace.product.updated"
	TopicProductDeleted = "marketplace.product.deleted"
	TopicReviewCreated  = "marketplace.review.created"
	TopicReviewDeleted  = "marketplace.review.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeStore   = "store"
	AggregateTypeProduct = "product"
	AggregateTypeReview  = "review"
)

// Source identifier for events originating from the marketplace API.
const SourceMarketplace = "marketplace"

// StoreCreatedData is the payload for a store.created event.
type StoreCreatedData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	VendorID    string `json:"vendor_id"`
}

// StoreUpdatedData is the payload for a store.updated event.
type StoreUpdatedData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	VendorID    string `json:"vendor_id"`
}

// StoreDeletedData is the payload for a store.deleted event.
type StoreDeletedData struct {
	ID string `json:"id"`
}

// ProductCreatedData is the payload for a product.created event.
type ProductCreatedData struct {
	ID      string `json:"id"`
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
	Price   string `json:"price"`
}

// ProductUpdatedData is the payload for a product.updated event.
type ProductUpdatedData struct {
	ID      string `json:"id"`
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
	Price   string `json:"price"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID      string `json:"id"`
	StoreID string `json:"store_id"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
}

// ReviewDeletedData is the payload for a review.deleted event.
type ReviewDeletedData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
}

// Producer publishes marketplace domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the marketplace API.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishStoreCreated publishes a store.created event.
func (p *Producer) PublishStoreCreated(ctx context.Context, store *domain.Store) error {
	data := StoreCreatedData{
		ID:          store.ID,
		Name:        store.Name,
		Description: store.Description,
		VendorID:    store.VendorID,
	}

	return p.publish(ctx, TopicStoreCreated, store.ID, AggregateTypeStore, data)
}

// PublishStoreUpdated publishes a store.updated event.
func (p *Producer) PublishStoreUpdated(ctx context.Context, store *domain.Store) error {
	data := StoreUpdatedData{
		ID:          store.ID,
		Name:        store.Name,
		Description: store.Description,
		VendorID:    store.VendorID,
	}

	return p.publish(ctx, TopicStoreUpdated, store.ID, AggregateTypeStore, data)
}

// PublishStoreDeleted publishes a store.deleted event.
func (p *Producer) PublishStoreDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicStoreDeleted, id, AggregateTypeStore, StoreDeletedData{ID: id})
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	data := ProductCreatedData{
		ID:      product.ID,
		StoreID: product.StoreID,
		Name:    product.Name,
		Price:   product.Price.StringFixed(2),
	}

	return p.publish(ctx, TopicProductCreated, product.ID, AggregateTypeProduct, data)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	data := ProductUpdatedData{
		ID:      product.ID,
		StoreID: product.StoreID,
		Name:    product.Name,
		Price:   product.Price.StringFixed(2),
	}

	return p.publish(ctx, TopicProductUpdated, product.ID, AggregateTypeProduct, data)
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id, storeID string) error {
	return p.publish(ctx, TopicProductDeleted, id, AggregateTypeProduct, ProductDeletedData{ID: id, StoreID: storeID})
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
	}

	return p.publish(ctx, TopicReviewCreated, review.ID, AggregateTypeReview, data)
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, id, productID string) error {
	return p.publish(ctx, TopicReviewDeleted, id, AggregateTypeReview, ReviewDeletedData{ID: id, ProductID: productID})
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceMarketplace, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published domain event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
