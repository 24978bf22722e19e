package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/frontdash/checkout/internal/checkout"
	"github.com/frontdash/checkout/internal/config"
	"github.com/frontdash/checkout/internal/domain"
	"github.com/frontdash/checkout/internal/repository"
	"github.com/frontdash/checkout/pkg/errors"
)

// OrderGateway is the slice of the FrontDash API the checkout needs
type OrderGateway interface {
	GetHours(ctx context.Context, restaurantName string) ([]domain.OperatingHoursEntry, error)
	checkout.OrderPlacer
}

type checkoutService struct {
	mu       sync.RWMutex
	sessions map[string]*checkout.Session

	gateway OrderGateway
	repos   *repository.Repositories
	cfg     config.CheckoutConfig
	faults  checkout.FaultInjector
	now     func() time.Time
	logger  *zap.Logger
}

type ServiceOption func(*checkoutService)

// WithClock replaces time.Now
func WithClock(now func() time.Time) ServiceOption {
	return func(s *checkoutService) {
		s.now = now
	}
}

// WithFaults replaces the configured card-verification failure source
func WithFaults(f checkout.FaultInjector) ServiceOption {
	return func(s *checkoutService) {
		s.faults = f
	}
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	gateway OrderGateway,
	repos *repository.Repositories,
	cfg config.CheckoutConfig,
	logger *zap.Logger,
	opts ...ServiceOption,
) *checkoutService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	s := &checkoutService{
		sessions: make(map[string]*checkout.Session),
		gateway:  gateway,
		repos:    repos,
		cfg:      cfg,
		faults:   checkout.NewBernoulliFault(cfg.FailureRate, rand.New(rand.NewSource(time.Now().UnixNano()))),
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartCheckout opens a session for the cart. Operating hours are fetched once here.
func (s *checkoutService) StartCheckout(ctx context.Context, req StartCheckoutRequest) (checkout.Snapshot, error) {
	lines := req.ToDomain()
	now := s.clock()

	var hours []domain.OperatingHoursEntry
	if len(lines) > 0 {
		fetched, err := s.gateway.GetHours(ctx, lines[0].RestaurantName)
		if err != nil {
			s.logger.Warn("Failed to fetch operating hours, eligibility unknown",
				zap.Error(err),
				zap.String("restaurant", lines[0].RestaurantName),
			)
		} else {
			hours = fetched
		}
	}

	opts := []checkout.Option{
		checkout.WithFaultInjector(s.faults),
		checkout.WithLogger(s.logger),
		checkout.WithCreatedAt(now),
	}
	if s.cfg.DeliveryEstimate > 0 {
		opts = append(opts, checkout.WithDeliveryEstimate(s.cfg.DeliveryEstimate))
	}
	if s.cfg.EnforceLuhn {
		opts = append(opts, checkout.WithLuhnCheck())
	}

	session, err := checkout.NewSession(lines, hours, s.gateway, opts...)
	if err != nil {
		return checkout.Snapshot{}, err
	}

	s.mu.Lock()
	s.pruneLocked(now)
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	s.logger.Info("Checkout started",
		zap.String("checkout_id", session.ID()),
		zap.Int("lines", len(lines)),
	)

	return session.Snapshot(now), nil
}

func (s *checkoutService) GetCheckout(id string) (checkout.Snapshot, error) {
	session, err := s.session(id)
	if err != nil {
		return checkout.Snapshot{}, err
	}
	return session.Snapshot(s.clock()), nil
}

func (s *checkoutService) SetTip(id string, req SetTipRequest) (checkout.Snapshot, error) {
	return s.apply(id, func(session *checkout.Session) error {
		return session.SetTip(req.ToDomain())
	})
}

func (s *checkoutService) BeginPayment(id string) (checkout.Snapshot, error) {
	return s.apply(id, func(session *checkout.Session) error {
		return session.BeginPayment()
	})
}

func (s *checkoutService) SubmitPayment(id string, in domain.PaymentInput) (checkout.Snapshot, error) {
	return s.apply(id, func(session *checkout.Session) error {
		return session.SubmitPayment(in, s.clock())
	})
}

func (s *checkoutService) Back(id string) (checkout.Snapshot, error) {
	return s.apply(id, func(session *checkout.Session) error {
		return session.Back()
	})
}

// SubmitDelivery places the order and archives the confirmation.
// An archive failure is logged and does not undo the placed order.
func (s *checkoutService) SubmitDelivery(ctx context.Context, id string, in domain.DeliveryInput) (*domain.OrderConfirmation, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}

	confirmation, err := session.SubmitDelivery(ctx, in, s.clock())
	if err != nil {
		return nil, err
	}

	if err := s.repos.Confirmations.Save(ctx, confirmation); err != nil {
		s.logger.Error("Failed to archive confirmation",
			zap.Error(err),
			zap.String("order_number", confirmation.OrderNumber),
		)
	}

	return confirmation, nil
}

func (s *checkoutService) GetConfirmation(ctx context.Context, orderNumber string) (*domain.OrderConfirmation, error) {
	return s.repos.Confirmations.GetByOrderNumber(ctx, orderNumber)
}

func (s *checkoutService) ListConfirmations(ctx context.Context, limit int) ([]*domain.OrderConfirmation, error) {
	return s.repos.Confirmations.ListRecent(ctx, limit)
}

func (s *checkoutService) apply(id string, fn func(*checkout.Session) error) (checkout.Snapshot, error) {
	session, err := s.session(id)
	if err != nil {
		return checkout.Snapshot{}, err
	}
	if err := fn(session); err != nil {
		return session.Snapshot(s.clock()), err
	}
	return session.Snapshot(s.clock()), nil
}

func (s *checkoutService) session(id string) (*checkout.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "checkout", ID: id}
	}
	return session, nil
}

// pruneLocked drops sessions older than the TTL. Caller holds s.mu.
func (s *checkoutService) pruneLocked(now time.Time) {
	if s.cfg.SessionTTL <= 0 {
		return
	}
	cutoff := now.Add(-s.cfg.SessionTTL)
	for id, session := range s.sessions {
		if session.CreatedAt().Before(cutoff) && session.State() != domain.CheckoutStateSubmitting {
			delete(s.sessions, id)
		}
	}
}

func (s *checkoutService) clock() time.Time {
	return s.now().In(s.cfg.Location)
}
