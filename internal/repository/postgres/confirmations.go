package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/frontdash/checkout/internal/domain"
	"github.com/frontdash/checkout/pkg/errors"
)

type confirmationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewConfirmationRepository creates a new confirmation repository
func NewConfirmationRepository(db *sql.DB, logger *zap.Logger) *confirmationRepository {
	return &confirmationRepository{
		db:     db,
		logger: logger,
	}
}

const confirmationColumns = `order_number, restaurant_name, order_date, items, subtotal, service_charge,
	tip_amount, grand_total, delivery_address, contact_name, contact_phone, estimated_delivery`

// Save archives a confirmation. Saving the same order number twice is a no-op.
func (r *confirmationRepository) Save(ctx context.Context, confirmation *domain.OrderConfirmation) error {
	items, err := json.Marshal(confirmation.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}

	query := `
		INSERT INTO order_confirmations (` + confirmationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (order_number) DO NOTHING
	`

	_, err = r.db.ExecContext(ctx, query,
		confirmation.OrderNumber,
		confirmation.RestaurantName,
		confirmation.OrderDate,
		items,
		confirmation.Subtotal,
		confirmation.ServiceCharge,
		confirmation.TipAmount,
		confirmation.GrandTotal,
		confirmation.DeliveryAddress,
		confirmation.ContactName,
		confirmation.ContactPhone,
		confirmation.EstimatedDelivery,
	)

	if err != nil {
		r.logger.Error("Failed to save confirmation", zap.Error(err), zap.String("order_number", confirmation.OrderNumber))
		return err
	}

	return nil
}

func (r *confirmationRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.OrderConfirmation, error) {
	query := `SELECT ` + confirmationColumns + ` FROM order_confirmations WHERE order_number = $1`

	confirmation, err := scanConfirmation(r.db.QueryRowContext(ctx, query, orderNumber))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order confirmation", ID: orderNumber}
	}
	if err != nil {
		r.logger.Error("Failed to get confirmation", zap.Error(err))
		return nil, err
	}

	return confirmation, nil
}

// ListRecent returns the newest confirmations first
func (r *confirmationRepository) ListRecent(ctx context.Context, limit int) ([]*domain.OrderConfirmation, error) {
	query := `SELECT ` + confirmationColumns + ` FROM order_confirmations ORDER BY order_date DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to query confirmations", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	confirmations := make([]*domain.OrderConfirmation, 0)
	for rows.Next() {
		confirmation, err := scanConfirmation(rows)
		if err != nil {
			return nil, err
		}
		confirmations = append(confirmations, confirmation)
	}

	return confirmations, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConfirmation(row rowScanner) (*domain.OrderConfirmation, error) {
	var confirmation domain.OrderConfirmation
	var items []byte

	err := row.Scan(
		&confirmation.OrderNumber,
		&confirmation.RestaurantName,
		&confirmation.OrderDate,
		&items,
		&confirmation.Subtotal,
		&confirmation.ServiceCharge,
		&confirmation.TipAmount,
		&confirmation.GrandTotal,
		&confirmation.DeliveryAddress,
		&confirmation.ContactName,
		&confirmation.ContactPhone,
		&confirmation.EstimatedDelivery,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &confirmation.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}

	return &confirmation, nil
}
