package service

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/frontdash/checkout/internal/checkout"
	"github.com/frontdash/checkout/internal/config"
	"github.com/frontdash/checkout/internal/domain"
	"github.com/frontdash/checkout/internal/repository"
	"github.com/frontdash/checkout/internal/repository/memory"
	"github.com/frontdash/checkout/pkg/errors"
)

type fakeGateway struct {
	mu       sync.Mutex
	hours    []domain.OperatingHoursEntry
	hoursErr error
	orderErr error
	orders   []domain.OrderRequest
}

func (g *fakeGateway) GetHours(ctx context.Context, restaurantName string) ([]domain.OperatingHoursEntry, error) {
	return g.hours, g.hoursErr
}

func (g *fakeGateway) CreateOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderReceipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	g.orders = append(g.orders, order)
	return &domain.OrderReceipt{
		OrderNumber:   1042,
		Subtotal:      decimal.RequireFromString("20.00"),
		ServiceCharge: decimal.RequireFromString("1.65"),
		TipAmount:     decimal.RequireFromString("4.00"),
		GrandTotal:    decimal.RequireFromString("25.65"),
	}, nil
}

type failingArchive struct {
	repository.ConfirmationRepository
}

func (failingArchive) Save(ctx context.Context, c *domain.OrderConfirmation) error {
	return stderrors.New("disk full")
}

// 2025-01-01 is a Wednesday
var wednesdayNoon = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func openWednesday() []domain.OperatingHoursEntry {
	return []domain.OperatingHoursEntry{{DayOfWeek: "Wednesday", OpenTime: "09:00", CloseTime: "21:00"}}
}

func newTestService(t *testing.T, gw *fakeGateway, now *time.Time, opts ...ServiceOption) *checkoutService {
	t.Helper()
	repos := &repository.Repositories{Confirmations: memory.NewConfirmationRepository()}
	cfg := config.CheckoutConfig{
		Location:         time.UTC,
		DeliveryEstimate: 45 * time.Minute,
		SessionTTL:       2 * time.Hour,
	}
	opts = append([]ServiceOption{
		WithClock(func() time.Time { return *now }),
		WithFaults(checkout.NeverFail),
	}, opts...)
	return NewCheckoutService(gw, repos, cfg, zap.NewNop(), opts...)
}

func cartRequest() StartCheckoutRequest {
	return StartCheckoutRequest{Lines: []CartLineRequest{{
		CatalogItemID:  3,
		Name:           "Lasagna",
		UnitPrice:      decimal.RequireFromString("10.00"),
		Quantity:       2,
		RestaurantName: "Luigi's",
	}}}
}

func validPayment() domain.PaymentInput {
	return domain.PaymentInput{
		CardNumber:  "4111111111111111",
		ExpiryMonth: "12",
		ExpiryYear:  "2099",
		CVV:         "123",
	}
}

func validDelivery() domain.DeliveryInput {
	return domain.DeliveryInput{
		AddressLine1: "12 Elm St",
		City:         "Dallas",
		State:        "TX",
		ContactName:  "Sam Rivera",
		ContactPhone: "(123) 456-7890",
	}
}

func TestCheckoutService_FullFlowArchivesConfirmation(t *testing.T) {
	now := wednesdayNoon
	gw := &fakeGateway{hours: openWednesday()}
	svc := newTestService(t, gw, &now)
	ctx := context.Background()

	snap, err := svc.StartCheckout(ctx, cartRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatePricing, snap.State)
	assert.Equal(t, domain.EligibilityEligible, snap.Eligibility.Status)

	snap, err = svc.SetTip(snap.ID, SetTipRequest{Preset: 20})
	require.NoError(t, err)
	assert.True(t, snap.SelectedPreset[20])
	assert.Equal(t, "25.65", snap.DisplayPricing.GrandTotal.StringFixed(2))

	snap, err = svc.SubmitPayment(snap.ID, validPayment())
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateDeliveryEntry, snap.State)

	confirmation, err := svc.SubmitDelivery(ctx, snap.ID, validDelivery())
	require.NoError(t, err)
	assert.Equal(t, "1042", confirmation.OrderNumber)
	assert.Equal(t, "1234567890", gw.orders[0].Delivery.ContactPhone)

	archived, err := svc.GetConfirmation(ctx, "1042")
	require.NoError(t, err)
	assert.Equal(t, confirmation.GrandTotal.String(), archived.GrandTotal.String())

	recent, err := svc.ListConfirmations(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestCheckoutService_HoursFetchFailureMeansUnknown(t *testing.T) {
	now := wednesdayNoon
	svc := newTestService(t, &fakeGateway{hoursErr: stderrors.New("timeout")}, &now)

	snap, err := svc.StartCheckout(context.Background(), cartRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.EligibilityUnknown, snap.Eligibility.Status)
	assert.True(t, snap.CanPay)
}

func TestCheckoutService_EligibilityFollowsClock(t *testing.T) {
	now := wednesdayNoon
	svc := newTestService(t, &fakeGateway{hours: openWednesday()}, &now)

	snap, err := svc.StartCheckout(context.Background(), cartRequest())
	require.NoError(t, err)

	now = time.Date(2025, 1, 1, 22, 0, 0, 0, time.UTC)
	snap, err = svc.GetCheckout(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EligibilityOutsideHours, snap.Eligibility.Status)
	assert.Equal(t, "Orders accepted between 09:00 - 21:00", snap.EligibilityMsg)

	_, err = svc.SubmitPayment(snap.ID, validPayment())
	var ineligible *errors.ErrIneligible
	assert.ErrorAs(t, err, &ineligible)
}

func TestCheckoutService_ErrorReturnsCurrentView(t *testing.T) {
	now := wednesdayNoon
	svc := newTestService(t, &fakeGateway{hours: openWednesday()}, &now)

	snap, err := svc.StartCheckout(context.Background(), cartRequest())
	require.NoError(t, err)

	bad := validPayment()
	bad.CVV = "12"
	snap, err = svc.SubmitPayment(snap.ID, bad)

	var validation *errors.ErrValidation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, domain.ReasonInvalidCVV, validation.Reason)
	assert.Equal(t, domain.CheckoutStatePaymentEntry, snap.State)
	assert.Equal(t, "Card declined: invalid CVV", snap.LastError)
}

func TestCheckoutService_ArchiveFailureDoesNotFailOrder(t *testing.T) {
	now := wednesdayNoon
	gw := &fakeGateway{hours: openWednesday()}
	svc := newTestService(t, gw, &now)
	svc.repos = &repository.Repositories{Confirmations: failingArchive{}}

	snap, err := svc.StartCheckout(context.Background(), cartRequest())
	require.NoError(t, err)
	_, err = svc.SubmitPayment(snap.ID, validPayment())
	require.NoError(t, err)

	confirmation, err := svc.SubmitDelivery(context.Background(), snap.ID, validDelivery())
	require.NoError(t, err)
	assert.Equal(t, "1042", confirmation.OrderNumber)

	snap, err = svc.GetCheckout(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateConfirmed, snap.State)
}

func TestCheckoutService_UnknownSession(t *testing.T) {
	now := wednesdayNoon
	svc := newTestService(t, &fakeGateway{}, &now)

	_, err := svc.GetCheckout("nope")
	var notFound *errors.ErrNotFound
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.SubmitDelivery(context.Background(), "nope", validDelivery())
	assert.ErrorAs(t, err, &notFound)
}

func TestCheckoutService_PrunesExpiredSessions(t *testing.T) {
	now := wednesdayNoon
	svc := newTestService(t, &fakeGateway{hours: openWednesday()}, &now)

	old, err := svc.StartCheckout(context.Background(), cartRequest())
	require.NoError(t, err)

	now = now.Add(3 * time.Hour)
	fresh, err := svc.StartCheckout(context.Background(), cartRequest())
	require.NoError(t, err)

	_, err = svc.GetCheckout(old.ID)
	var notFound *errors.ErrNotFound
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.GetCheckout(fresh.ID)
	assert.NoError(t, err)
}

func TestCheckoutService_RejectsMixedCart(t *testing.T) {
	now := wednesdayNoon
	svc := newTestService(t, &fakeGateway{}, &now)

	req := cartRequest()
	other := req.Lines[0]
	other.RestaurantName = "Sakura"
	req.Lines = append(req.Lines, other)

	_, err := svc.StartCheckout(context.Background(), req)

	var validation *errors.ErrValidation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, domain.ReasonMixedRestaurants, validation.Reason)
}

func TestCheckoutService_BackAndBeginPayment(t *testing.T) {
	now := wednesdayNoon
	svc := newTestService(t, &fakeGateway{hours: openWednesday()}, &now)

	snap, err := svc.StartCheckout(context.Background(), cartRequest())
	require.NoError(t, err)

	snap, err = svc.BeginPayment(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatePaymentEntry, snap.State)

	_, err = svc.SubmitPayment(snap.ID, validPayment())
	require.NoError(t, err)

	snap, err = svc.Back(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatePaymentEntry, snap.State)
	assert.Equal(t, "1111", snap.CardLast4)
}
