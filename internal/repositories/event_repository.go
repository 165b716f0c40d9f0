package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"gridiron/internal/models"
)

// EventRepository appends payment events. Events are never updated.
type EventRepository interface {
	Create(ctx context.Context, event *models.PaymentEvent) error
	ListByTransaction(ctx context.Context, transactionID string) ([]models.PaymentEvent, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.PaymentEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create payment event: %w", err)
	}
	return nil
}

func (r *eventRepository) ListByTransaction(ctx context.Context, transactionID string) ([]models.PaymentEvent, error) {
	var events []models.PaymentEvent
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment events: %w", err)
	}
	return events, nil
}
