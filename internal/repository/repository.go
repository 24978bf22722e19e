package repository

import (
	"context"

	"github.com/frontdash/checkout/internal/domain"
)

// ConfirmationRepository archives placed orders so confirmations can be looked up later
type ConfirmationRepository interface {
	Save(ctx context.Context, confirmation *domain.OrderConfirmation) error
	GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.OrderConfirmation, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.OrderConfirmation, error)
}

type Repositories struct {
	Confirmations ConfirmationRepository
}
