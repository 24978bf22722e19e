package checkout

import (
	"context"
	stderrors "errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontdash/checkout/internal/domain"
	"github.com/frontdash/checkout/pkg/errors"
)

// OrderPlacer creates orders on the order API
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderReceipt, error)
}

// Option configures a Session
type Option func(*Session)

// WithID sets the session id. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithFaultInjector replaces the default 10% simulated gateway failure
func WithFaultInjector(f FaultInjector) Option {
	return func(s *Session) {
		s.faults = f
	}
}

// WithLogger sets the session logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithDeliveryEstimate overrides the 45 minute delivery estimate
func WithDeliveryEstimate(d time.Duration) Option {
	return func(s *Session) {
		s.deliveryEstimate = d
	}
}

// WithLuhnCheck additionally rejects card numbers failing the Luhn checksum
func WithLuhnCheck() Option {
	return func(s *Session) {
		s.luhn = true
	}
}

// WithCreatedAt sets the session creation time
func WithCreatedAt(t time.Time) Option {
	return func(s *Session) {
		s.createdAt = t
	}
}

// Session is one shopper's checkout flow:
// PRICING -> PAYMENT_ENTRY -> DELIVERY_ENTRY -> SUBMITTING -> CONFIRMED.
// Entered form data survives every failed step.
type Session struct {
	mu sync.Mutex

	id        string
	createdAt time.Time
	state     domain.CheckoutState
	lines     []domain.CartLine
	hours     []domain.OperatingHoursEntry
	tip       domain.TipSelection

	payment      domain.PaymentInput
	delivery     domain.DeliveryInput
	lastErr      error
	confirmation *domain.OrderConfirmation

	placer           OrderPlacer
	faults           FaultInjector
	logger           *zap.Logger
	deliveryEstimate time.Duration
	luhn             bool
}

// NewSession starts a checkout in PRICING for the given cart and operating hours
func NewSession(lines []domain.CartLine, hours []domain.OperatingHoursEntry, placer OrderPlacer, opts ...Option) (*Session, error) {
	if err := validateCart(lines); err != nil {
		return nil, err
	}

	s := &Session{
		id:               uuid.NewString(),
		createdAt:        time.Now(),
		state:            domain.CheckoutStatePricing,
		lines:            copyLines(lines),
		hours:            append([]domain.OperatingHoursEntry(nil), hours...),
		placer:           placer,
		faults:           NewBernoulliFault(DefaultFailureRate, rand.New(rand.NewSource(time.Now().UnixNano()))),
		logger:           zap.NewNop(),
		deliveryEstimate: DefaultDeliveryEstimate,
	}
	for _, opt := range opts {
		opt(s)
	}

	for i := range s.lines {
		if s.lines[i].LineID == "" {
			s.lines[i].LineID = uuid.NewString()
		}
	}

	return s, nil
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session was started
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// State returns the current state
func (s *Session) State() domain.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pricing recomputes the breakdown from the cart and current tip
func (s *Session) Pricing() domain.PricingBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputePricing(s.lines, s.tip)
}

// SetTip changes the tip. A preset is stored as the amount it produces, the
// same way tapping a preset fills the tip field.
func (s *Session) SetTip(tip domain.TipSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.CheckoutStatePricing && s.state != domain.CheckoutStatePaymentEntry {
		return &errors.ErrInvalidState{State: s.state, Action: "change tip"}
	}

	if tip.Preset != 0 {
		if !IsTipPreset(tip.Preset) {
			return &errors.ErrValidation{
				Reason:  domain.ReasonInvalidTip,
				Message: "tip preset must be one of 18, 20 or 25 percent",
			}
		}
		amount := PresetTipAmount(Subtotal(s.lines), tip.Preset)
		s.tip = domain.TipSelection{Amount: amount.StringFixed(2)}
		return nil
	}

	s.tip = domain.TipSelection{Amount: strings.TrimSpace(tip.Amount)}
	return nil
}

// BeginPayment moves from PRICING to PAYMENT_ENTRY
func (s *Session) BeginPayment() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transition(domain.CheckoutStatePaymentEntry)
}

// SubmitPayment checks eligibility and then the card. Only when both pass does
// the session move to DELIVERY_ENTRY.
func (s *Session) SubmitPayment(in domain.PaymentInput, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.CheckoutStatePricing {
		if err := s.transition(domain.CheckoutStatePaymentEntry); err != nil {
			return err
		}
	}
	if s.state != domain.CheckoutStatePaymentEntry {
		return &errors.ErrInvalidStateTransition{From: s.state, To: domain.CheckoutStateDeliveryEntry}
	}

	s.payment = in

	if err := eligibilityError(CheckEligibility(s.hours, now)); err != nil {
		return s.fail(err)
	}

	if err := ValidatePayment(in, now); err != nil {
		return s.fail(err)
	}

	if s.luhn && !LuhnValid(digitsOnly(in.CardNumber)) {
		return s.fail(&errors.ErrValidation{
			Reason:  domain.ReasonInvalidCardNumber,
			Message: "Card declined: invalid card number",
		})
	}

	s.lastErr = nil
	return s.transition(domain.CheckoutStateDeliveryEntry)
}

// Back returns from DELIVERY_ENTRY to PAYMENT_ENTRY
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.CheckoutStateDeliveryEntry {
		return &errors.ErrInvalidStateTransition{From: s.state, To: domain.CheckoutStatePaymentEntry}
	}
	return s.transition(domain.CheckoutStatePaymentEntry)
}

// SubmitDelivery validates the delivery form and places the order. At most one
// order call runs per session; a second submit while it is outstanding fails
// with ErrSubmissionInFlight.
func (s *Session) SubmitDelivery(ctx context.Context, in domain.DeliveryInput, now time.Time) (*domain.OrderConfirmation, error) {
	s.mu.Lock()

	if s.state == domain.CheckoutStateSubmitting {
		s.mu.Unlock()
		return nil, &errors.ErrSubmissionInFlight{SessionID: s.id}
	}
	if s.state != domain.CheckoutStateDeliveryEntry {
		err := &errors.ErrInvalidStateTransition{From: s.state, To: domain.CheckoutStateSubmitting}
		s.mu.Unlock()
		return nil, err
	}

	s.delivery = in

	if s.faults.ShouldFail() {
		err := s.fail(&errors.ErrTransientGateway{
			Reason:  domain.ReasonCardVerificationFailed,
			Message: "Card verification failed. Please try again.",
		})
		s.mu.Unlock()
		return nil, err
	}

	if err := ValidateDelivery(in, len(s.lines) > 0); err != nil {
		s.fail(err)
		s.mu.Unlock()
		return nil, err
	}

	delivery := normalizeDelivery(in)
	lines := copyLines(s.lines)
	local := ComputePricing(lines, s.tip)
	req := NewOrderRequest(lines, local, delivery)
	s.state = domain.CheckoutStateSubmitting
	s.mu.Unlock()

	receipt, err := s.placer.CreateOrder(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = domain.CheckoutStateDeliveryEntry
		s.logger.Error("Failed to create order",
			zap.String("checkout_id", s.id),
			zap.String("restaurant", req.RestaurantName),
			zap.Error(err),
		)
		return nil, s.fail(asSubmissionError(err))
	}

	if drift := pricingDrift(local, receipt); len(drift) > 0 {
		s.logger.Warn("Server pricing differs from local quote",
			zap.String("checkout_id", s.id),
			zap.Int("order_number", receipt.OrderNumber),
			zap.Strings("fields", drift),
			zap.String("local_grand_total", local.GrandTotal.StringFixed(2)),
			zap.String("server_grand_total", receipt.GrandTotal.StringFixed(2)),
		)
	}

	s.confirmation = NewConfirmation(lines, delivery, receipt, now, s.deliveryEstimate)
	s.state = domain.CheckoutStateConfirmed
	s.lastErr = nil

	s.logger.Info("Order confirmed",
		zap.String("checkout_id", s.id),
		zap.String("order_number", s.confirmation.OrderNumber),
		zap.String("restaurant", s.confirmation.RestaurantName),
	)

	return s.confirmation, nil
}

// Confirmation returns the confirmation once the session is CONFIRMED
func (s *Session) Confirmation() (*domain.OrderConfirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmation, s.confirmation != nil
}

// Snapshot is a read-only view of a session for rendering
type Snapshot struct {
	ID             string                    `json:"id"`
	State          domain.CheckoutState      `json:"state"`
	Lines          []domain.CartLine         `json:"lines"`
	Tip            string                    `json:"tip"`
	Pricing        domain.PricingBreakdown   `json:"pricing"`
	DisplayPricing domain.PricingBreakdown   `json:"displayPricing"`
	SelectedPreset map[int]bool              `json:"selectedPreset"`
	Eligibility    domain.Eligibility        `json:"eligibility"`
	EligibilityMsg string                    `json:"eligibilityMessage,omitempty"`
	CanPay         bool                      `json:"canPay"`
	CardLast4      string                    `json:"cardLast4,omitempty"`
	Delivery       domain.DeliveryInput      `json:"delivery"`
	LastError      string                    `json:"lastError,omitempty"`
	Confirmation   *domain.OrderConfirmation `json:"confirmation,omitempty"`
	CreatedAt      time.Time                 `json:"createdAt"`
}

// Snapshot renders the session. Pricing and eligibility are recomputed at now.
func (s *Session) Snapshot(now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	pricing := ComputePricing(s.lines, s.tip)
	eligibility := CheckEligibility(s.hours, now)

	selected := make(map[int]bool, len(TipPresets))
	for _, p := range TipPresets {
		selected[p] = PresetSelected(pricing.Subtotal, s.tip.Amount, p)
	}

	snap := Snapshot{
		ID:             s.id,
		State:          s.state,
		Lines:          copyLines(s.lines),
		Tip:            s.tip.Amount,
		Pricing:        pricing,
		DisplayPricing: pricing.Rounded(),
		SelectedPreset: selected,
		Eligibility:    eligibility,
		EligibilityMsg: eligibility.Message(),
		CanPay:         eligibility.Allowed() && s.state != domain.CheckoutStateSubmitting,
		Delivery:       s.delivery,
		Confirmation:   s.confirmation,
		CreatedAt:      s.createdAt,
	}

	if card := digitsOnly(s.payment.CardNumber); len(card) >= 4 {
		snap.CardLast4 = card[len(card)-4:]
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}

	return snap
}

func (s *Session) transition(to domain.CheckoutState) error {
	if !s.state.CanTransitionTo(to) {
		return &errors.ErrInvalidStateTransition{From: s.state, To: to}
	}
	s.state = to
	return nil
}

func (s *Session) fail(err error) error {
	s.lastErr = err
	return err
}

func asSubmissionError(err error) error {
	var subErr *errors.ErrSubmission
	if stderrors.As(err, &subErr) {
		return subErr
	}
	return &errors.ErrSubmission{Message: "Unable to place order. Please try again.", Err: err}
}

const maxLineQuantity = 999

func validateCart(lines []domain.CartLine) error {
	for _, line := range lines {
		if line.Quantity <= 0 || line.Quantity > maxLineQuantity || !validUnitPrice(line.UnitPrice) {
			return &errors.ErrValidation{
				Reason:  domain.ReasonInvalidCartLine,
				Message: "cart lines need a quantity from 1 to 999 and a price from 0.00 to 10000.00",
			}
		}
		if line.RestaurantName != lines[0].RestaurantName {
			return &errors.ErrValidation{
				Reason:  domain.ReasonMixedRestaurants,
				Message: "all cart lines must come from the same restaurant",
			}
		}
	}
	return nil
}

func copyLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}
