package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/frontdash/checkout/internal/domain"
	"github.com/frontdash/checkout/internal/repository"
	"github.com/frontdash/checkout/pkg/errors"
)

type confirmationRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.OrderConfirmation
}

// NewConfirmationRepository creates a process-local confirmation archive
func NewConfirmationRepository() *confirmationRepository {
	return &confirmationRepository{
		orders: make(map[string]*domain.OrderConfirmation),
	}
}

func (r *confirmationRepository) Save(ctx context.Context, confirmation *domain.OrderConfirmation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[confirmation.OrderNumber]; ok {
		return nil
	}
	r.orders[confirmation.OrderNumber] = clone(confirmation)
	return nil
}

func (r *confirmationRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.OrderConfirmation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	confirmation, ok := r.orders[orderNumber]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order confirmation", ID: orderNumber}
	}
	return clone(confirmation), nil
}

func (r *confirmationRepository) ListRecent(ctx context.Context, limit int) ([]*domain.OrderConfirmation, error) {
	r.mu.RLock()
	all := make([]*domain.OrderConfirmation, 0, len(r.orders))
	for _, confirmation := range r.orders {
		all = append(all, clone(confirmation))
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].OrderDate.After(all[j].OrderDate)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func clone(c *domain.OrderConfirmation) *domain.OrderConfirmation {
	cp := *c
	cp.Items = append([]domain.CartLine(nil), c.Items...)
	return &cp
}

// NewRepositories wires the in-memory repositories
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		Confirmations: NewConfirmationRepository(),
	}
}
