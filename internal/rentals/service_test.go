package rentals

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	stripeapi "github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/lonoleggi/lonoleggi-backend/internal/equipment"
	"github.com/lonoleggi/lonoleggi-backend/internal/notifications"
	"github.com/lonoleggi/lonoleggi-backend/pkg/db/models"
	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
	"github.com/lonoleggi/lonoleggi-backend/pkg/logger"
	"github.com/lonoleggi/lonoleggi-backend/pkg/outbox"
	"github.com/lonoleggi/lonoleggi-backend/pkg/pagination"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fakeRentalsRepo struct {
	Repository
	findByIDFn           func(ctx context.Context, id uuid.UUID) (*models.Rental, error)
	findByIntentFn       func(ctx context.Context, paymentIntentID string) (*models.Rental, error)
	findExpiredFn        func(ctx context.Context, now time.Time, limit int) ([]models.Rental, error)
	createFn             func(ctx context.Context, rental *models.Rental) error
	updateStatusFromFn   func(ctx context.Context, id uuid.UUID, from, to enums.RentalStatus, extra map[string]any) (bool, error)
	listByUserFn         func(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Rental, *pagination.Cursor, error)
	statusTransitionsLog []enums.RentalStatus
}

func (f *fakeRentalsRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRentalsRepo) Create(ctx context.Context, rental *models.Rental) error {
	if f.createFn != nil {
		return f.createFn(ctx, rental)
	}
	return nil
}

func (f *fakeRentalsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeRentalsRepo) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Rental, error) {
	return f.findByIntentFn(ctx, paymentIntentID)
}

func (f *fakeRentalsRepo) FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]models.Rental, error) {
	return f.findExpiredFn(ctx, now, limit)
}

func (f *fakeRentalsRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Rental, *pagination.Cursor, error) {
	return f.listByUserFn(ctx, userID, limit, cursor)
}

func (f *fakeRentalsRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to enums.RentalStatus, extra map[string]any) (bool, error) {
	f.statusTransitionsLog = append(f.statusTransitionsLog, to)
	if f.updateStatusFromFn != nil {
		return f.updateStatusFromFn(ctx, id, from, to, extra)
	}
	return true, nil
}

type fakeEquipmentRepo struct {
	equipment.Repository
	row      *models.Equipment
	holdOK   bool
	held     int
	released int
}

func (f *fakeEquipmentRepo) WithTx(tx *gorm.DB) equipment.Repository { return f }

func (f *fakeEquipmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	return f.row, nil
}

func (f *fakeEquipmentRepo) HoldForRental(ctx context.Context, id uuid.UUID) (bool, error) {
	f.held++
	return f.holdOK, nil
}

func (f *fakeEquipmentRepo) ReleaseHold(ctx context.Context, id uuid.UUID) (bool, error) {
	f.released++
	return true, nil
}

type fakeOutbox struct {
	events []outbox.DomainEvent
}

func (f *fakeOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakePayments struct {
	cancelled []string
	err       error
}

func (f *fakePayments) CancelPaymentIntent(ctx context.Context, paymentIntentID string) (*stripeapi.PaymentIntent, error) {
	f.cancelled = append(f.cancelled, paymentIntentID)
	if f.err != nil {
		return nil, f.err
	}
	return &stripeapi.PaymentIntent{ID: paymentIntentID, Status: stripeapi.PaymentIntentStatusCanceled}, nil
}

type fakeNotifier struct {
	calls []string
}

func (f *fakeNotifier) note(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeNotifier) RentalRequested(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error {
	return f.note("rental_requested")
}

func (f *fakeNotifier) RentalConfirmed(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error {
	return f.note("rental_confirmed")
}

func (f *fakeNotifier) PaymentSucceeded(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error {
	return f.note("payment_succeeded")
}

func (f *fakeNotifier) PaymentFailed(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error {
	return f.note("payment_failed")
}

func (f *fakeNotifier) RentalCancelled(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error {
	return f.note("rental_cancelled")
}

func (f *fakeNotifier) RentalCompleted(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error {
	return f.note("rental_completed")
}

func (f *fakeNotifier) RentalExpired(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error {
	return f.note("rental_expired")
}

type serviceFixture struct {
	svc      Service
	repo     *fakeRentalsRepo
	eq       *fakeEquipmentRepo
	outbox   *fakeOutbox
	notifier *fakeNotifier
	payments *fakePayments
}

func newServiceFixture(t *testing.T, repo *fakeRentalsRepo, eq *fakeEquipmentRepo) serviceFixture {
	t.Helper()
	ob := &fakeOutbox{}
	notif := &fakeNotifier{}
	payments := &fakePayments{}
	svc, err := NewService(ServiceParams{
		Tx:        fakeTxRunner{},
		Repo:      repo,
		Equipment: eq,
		Outbox:    ob,
		Notifier:  notif,
		Payments:  payments,
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return serviceFixture{svc: svc, repo: repo, eq: eq, outbox: ob, notifier: notif, payments: payments}
}

func testEquipment(ownerID uuid.UUID) *models.Equipment {
	return &models.Equipment{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Name:     "Excavator",
		PriceDay: decimal.NewFromInt(120),
		Status:   enums.EquipmentStatusAvailable,
	}
}

func TestCreatePendingHoldsEquipment(t *testing.T) {
	ownerID := uuid.New()
	eq := &fakeEquipmentRepo{holdOK: true}
	fx := newServiceFixture(t, &fakeRentalsRepo{}, eq)
	item := testEquipment(ownerID)

	expires := time.Now().UTC().Add(30 * time.Minute)
	rental, err := fx.svc.CreatePending(context.Background(), &gorm.DB{}, CreatePendingInput{
		Equipment:  item,
		UserID:     uuid.New(),
		StartDate:  time.Now().UTC().Add(24 * time.Hour),
		EndDate:    time.Now().UTC().Add(72 * time.Hour),
		TotalPrice: decimal.NewFromInt(240),
		ExpiresAt:  expires,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rental.Status != enums.RentalStatusPending {
		t.Fatalf("expected pending status got %s", rental.Status)
	}
	if rental.ExpiresAt == nil || !rental.ExpiresAt.Equal(expires) {
		t.Fatalf("expected expiry %v got %v", expires, rental.ExpiresAt)
	}
	if eq.held != 1 {
		t.Fatalf("expected one hold got %d", eq.held)
	}
	if len(fx.outbox.events) != 1 || fx.outbox.events[0].EventType != enums.EventRentalCreated {
		t.Fatalf("expected rental_created outbox event got %+v", fx.outbox.events)
	}
	if len(fx.notifier.calls) != 1 || fx.notifier.calls[0] != "rental_requested" {
		t.Fatalf("expected owner notification got %v", fx.notifier.calls)
	}
}

func TestCreatePendingLosesHoldRace(t *testing.T) {
	eq := &fakeEquipmentRepo{holdOK: false}
	fx := newServiceFixture(t, &fakeRentalsRepo{}, eq)

	_, err := fx.svc.CreatePending(context.Background(), &gorm.DB{}, CreatePendingInput{
		Equipment:  testEquipment(uuid.New()),
		UserID:     uuid.New(),
		StartDate:  time.Now().UTC().Add(24 * time.Hour),
		EndDate:    time.Now().UTC().Add(48 * time.Hour),
		TotalPrice: decimal.NewFromInt(120),
		ExpiresAt:  time.Now().UTC().Add(30 * time.Minute),
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict when hold is lost, got %v", err)
	}
	if len(fx.outbox.events) != 0 {
		t.Fatalf("expected no outbox events, got %d", len(fx.outbox.events))
	}
}

func TestCreatePendingRejectsOwnEquipment(t *testing.T) {
	ownerID := uuid.New()
	fx := newServiceFixture(t, &fakeRentalsRepo{}, &fakeEquipmentRepo{holdOK: true})

	_, err := fx.svc.CreatePending(context.Background(), &gorm.DB{}, CreatePendingInput{
		Equipment: testEquipment(ownerID),
		UserID:    ownerID,
		ExpiresAt: time.Now().UTC(),
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplyPaymentOutcomeSkipsStaleEvent(t *testing.T) {
	intent := "pi_123"
	rental := &models.Rental{
		ID:              uuid.New(),
		EquipmentID:     uuid.New(),
		UserID:          uuid.New(),
		Status:          enums.RentalStatusPaid,
		PaymentIntentID: &intent,
	}
	repo := &fakeRentalsRepo{
		findByIntentFn: func(ctx context.Context, paymentIntentID string) (*models.Rental, error) {
			return rental, nil
		},
	}
	fx := newServiceFixture(t, repo, &fakeEquipmentRepo{row: testEquipment(uuid.New())})

	result, err := fx.svc.ApplyPaymentOutcome(context.Background(), PaymentOutcomeInput{
		PaymentIntentID: intent,
		Next:            enums.RentalStatusConfirmed,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Applied {
		t.Fatal("stale event must not be applied")
	}
	if result.Rental.Status != enums.RentalStatusPaid {
		t.Fatalf("status must stay paid, got %s", result.Rental.Status)
	}
	if len(repo.statusTransitionsLog) != 0 {
		t.Fatalf("expected no status writes got %v", repo.statusTransitionsLog)
	}
}

func TestApplyPaymentOutcomeAppliesSuccess(t *testing.T) {
	intent := "pi_456"
	rental := &models.Rental{
		ID:              uuid.New(),
		EquipmentID:     uuid.New(),
		UserID:          uuid.New(),
		Status:          enums.RentalStatusConfirmed,
		PaymentIntentID: &intent,
	}
	repo := &fakeRentalsRepo{
		findByIntentFn: func(ctx context.Context, paymentIntentID string) (*models.Rental, error) {
			return rental, nil
		},
	}
	eq := &fakeEquipmentRepo{row: testEquipment(uuid.New())}
	fx := newServiceFixture(t, repo, eq)

	result, err := fx.svc.ApplyPaymentOutcome(context.Background(), PaymentOutcomeInput{
		PaymentIntentID: intent,
		Next:            enums.RentalStatusPaid,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Applied {
		t.Fatal("expected the payment event to apply")
	}
	if result.Rental.Status != enums.RentalStatusPaid {
		t.Fatalf("expected paid got %s", result.Rental.Status)
	}
	if eq.released != 0 {
		t.Fatal("success must not release the hold")
	}
	if len(fx.outbox.events) != 1 || fx.outbox.events[0].EventType != enums.EventRentalPaid {
		t.Fatalf("expected rental_paid outbox event got %+v", fx.outbox.events)
	}
	if len(fx.notifier.calls) != 1 || fx.notifier.calls[0] != "payment_succeeded" {
		t.Fatalf("expected payment notification got %v", fx.notifier.calls)
	}
}

func TestApplyPaymentOutcomeFailureReleasesHold(t *testing.T) {
	intent := "pi_789"
	rental := &models.Rental{
		ID:              uuid.New(),
		EquipmentID:     uuid.New(),
		UserID:          uuid.New(),
		Status:          enums.RentalStatusPending,
		PaymentIntentID: &intent,
	}
	repo := &fakeRentalsRepo{
		findByIntentFn: func(ctx context.Context, paymentIntentID string) (*models.Rental, error) {
			return rental, nil
		},
	}
	eq := &fakeEquipmentRepo{row: testEquipment(uuid.New())}
	fx := newServiceFixture(t, repo, eq)

	result, err := fx.svc.ApplyPaymentOutcome(context.Background(), PaymentOutcomeInput{
		PaymentIntentID: intent,
		Next:            enums.RentalStatusPaymentFailed,
		Reason:          "card_declined",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Applied {
		t.Fatal("expected the failure event to apply")
	}
	if eq.released != 1 {
		t.Fatalf("expected one hold release got %d", eq.released)
	}
	if len(fx.notifier.calls) != 1 || fx.notifier.calls[0] != "payment_failed" {
		t.Fatalf("expected failure notification got %v", fx.notifier.calls)
	}
}

func TestApplyPaymentOutcomeRescueReacquiresHold(t *testing.T) {
	intent := "pi_late"
	rental := &models.Rental{
		ID:              uuid.New(),
		EquipmentID:     uuid.New(),
		UserID:          uuid.New(),
		Status:          enums.RentalStatusPaymentFailed,
		PaymentIntentID: &intent,
	}
	repo := &fakeRentalsRepo{
		findByIntentFn: func(ctx context.Context, paymentIntentID string) (*models.Rental, error) {
			return rental, nil
		},
	}
	eq := &fakeEquipmentRepo{row: testEquipment(uuid.New()), holdOK: true}
	fx := newServiceFixture(t, repo, eq)

	result, err := fx.svc.ApplyPaymentOutcome(context.Background(), PaymentOutcomeInput{
		PaymentIntentID: intent,
		Next:            enums.RentalStatusPaid,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Applied {
		t.Fatal("expected the late success to apply")
	}
	if eq.held != 1 {
		t.Fatalf("expected the equipment hold to be re-acquired, held=%d", eq.held)
	}
	if len(fx.outbox.events) != 1 || fx.outbox.events[0].EventType != enums.EventRentalPaid {
		t.Fatalf("expected rental_paid outbox event got %+v", fx.outbox.events)
	}
}

func TestApplyPaymentOutcomeRescueDropsWhenEquipmentRebooked(t *testing.T) {
	intent := "pi_late_lost"
	rental := &models.Rental{
		ID:              uuid.New(),
		EquipmentID:     uuid.New(),
		UserID:          uuid.New(),
		Status:          enums.RentalStatusPaymentFailed,
		PaymentIntentID: &intent,
	}
	repo := &fakeRentalsRepo{
		findByIntentFn: func(ctx context.Context, paymentIntentID string) (*models.Rental, error) {
			return rental, nil
		},
	}
	eq := &fakeEquipmentRepo{row: testEquipment(uuid.New()), holdOK: false}
	fx := newServiceFixture(t, repo, eq)

	result, err := fx.svc.ApplyPaymentOutcome(context.Background(), PaymentOutcomeInput{
		PaymentIntentID: intent,
		Next:            enums.RentalStatusPaid,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Applied {
		t.Fatal("a lost hold must not mark the rental paid")
	}
	if len(fx.outbox.events) != 0 {
		t.Fatalf("expected no outbox events got %+v", fx.outbox.events)
	}
	if len(fx.notifier.calls) != 0 {
		t.Fatalf("expected no notifications got %v", fx.notifier.calls)
	}
}

func TestApplyPaymentOutcomeConcurrentWriteBecomesNoop(t *testing.T) {
	intent := "pi_race"
	rental := &models.Rental{
		ID:              uuid.New(),
		EquipmentID:     uuid.New(),
		UserID:          uuid.New(),
		Status:          enums.RentalStatusPending,
		PaymentIntentID: &intent,
	}
	repo := &fakeRentalsRepo{
		findByIntentFn: func(ctx context.Context, paymentIntentID string) (*models.Rental, error) {
			return rental, nil
		},
		updateStatusFromFn: func(ctx context.Context, id uuid.UUID, from, to enums.RentalStatus, extra map[string]any) (bool, error) {
			return false, nil
		},
	}
	fx := newServiceFixture(t, repo, &fakeEquipmentRepo{row: testEquipment(uuid.New())})

	result, err := fx.svc.ApplyPaymentOutcome(context.Background(), PaymentOutcomeInput{
		PaymentIntentID: intent,
		Next:            enums.RentalStatusConfirmed,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Applied {
		t.Fatal("lost guarded update must not count as applied")
	}
	if len(fx.outbox.events) != 0 {
		t.Fatalf("expected no outbox events got %d", len(fx.outbox.events))
	}
}

func TestTransitionOwnerConfirms(t *testing.T) {
	ownerID := uuid.New()
	item := testEquipment(ownerID)
	rental := &models.Rental{
		ID:          uuid.New(),
		EquipmentID: item.ID,
		UserID:      uuid.New(),
		Status:      enums.RentalStatusPending,
	}
	repo := &fakeRentalsRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
			return rental, nil
		},
	}
	fx := newServiceFixture(t, repo, &fakeEquipmentRepo{row: item})

	updated, err := fx.svc.Transition(context.Background(), ownerID, rental.ID, enums.RentalStatusConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != enums.RentalStatusConfirmed {
		t.Fatalf("expected confirmed got %s", updated.Status)
	}
	if len(fx.notifier.calls) != 1 || fx.notifier.calls[0] != "rental_confirmed" {
		t.Fatalf("expected confirmation notification got %v", fx.notifier.calls)
	}
}

func TestTransitionRenterCannotConfirm(t *testing.T) {
	ownerID := uuid.New()
	renterID := uuid.New()
	item := testEquipment(ownerID)
	rental := &models.Rental{
		ID:          uuid.New(),
		EquipmentID: item.ID,
		UserID:      renterID,
		Status:      enums.RentalStatusPending,
	}
	repo := &fakeRentalsRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
			return rental, nil
		},
	}
	fx := newServiceFixture(t, repo, &fakeEquipmentRepo{row: item})

	_, err := fx.svc.Transition(context.Background(), renterID, rental.ID, enums.RentalStatusConfirmed)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestTransitionCancelReleasesHold(t *testing.T) {
	ownerID := uuid.New()
	item := testEquipment(ownerID)
	rental := &models.Rental{
		ID:          uuid.New(),
		EquipmentID: item.ID,
		UserID:      uuid.New(),
		Status:      enums.RentalStatusConfirmed,
	}
	repo := &fakeRentalsRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
			return rental, nil
		},
	}
	eq := &fakeEquipmentRepo{row: item}
	fx := newServiceFixture(t, repo, eq)

	_, err := fx.svc.Transition(context.Background(), ownerID, rental.ID, enums.RentalStatusCancelled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eq.released != 1 {
		t.Fatalf("expected one hold release got %d", eq.released)
	}
}

func TestExpireOverdueCancelsAndReleases(t *testing.T) {
	item := testEquipment(uuid.New())
	overdue := models.Rental{
		ID:          uuid.New(),
		EquipmentID: item.ID,
		UserID:      uuid.New(),
		Status:      enums.RentalStatusPending,
	}
	repo := &fakeRentalsRepo{
		findExpiredFn: func(ctx context.Context, now time.Time, limit int) ([]models.Rental, error) {
			return []models.Rental{overdue}, nil
		},
	}
	eq := &fakeEquipmentRepo{row: item}
	fx := newServiceFixture(t, repo, eq)

	count, err := fx.svc.ExpireOverdue(context.Background(), time.Now().UTC(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one expiry got %d", count)
	}
	if eq.released != 1 {
		t.Fatalf("expected one hold release got %d", eq.released)
	}
	if len(fx.outbox.events) != 1 || fx.outbox.events[0].EventType != enums.EventRentalExpired {
		t.Fatalf("expected rental_expired event got %+v", fx.outbox.events)
	}
	if len(fx.notifier.calls) != 1 || fx.notifier.calls[0] != "rental_expired" {
		t.Fatalf("expected expiry notification got %v", fx.notifier.calls)
	}
	if len(fx.payments.cancelled) != 0 {
		t.Fatalf("no intent to void on a rental without one, got %v", fx.payments.cancelled)
	}
}

func TestExpireOverdueVoidsPaymentIntent(t *testing.T) {
	item := testEquipment(uuid.New())
	intent := "pi_overdue"
	overdue := models.Rental{
		ID:              uuid.New(),
		EquipmentID:     item.ID,
		UserID:          uuid.New(),
		Status:          enums.RentalStatusPending,
		PaymentIntentID: &intent,
	}
	repo := &fakeRentalsRepo{
		findExpiredFn: func(ctx context.Context, now time.Time, limit int) ([]models.Rental, error) {
			return []models.Rental{overdue}, nil
		},
	}
	eq := &fakeEquipmentRepo{row: item}
	fx := newServiceFixture(t, repo, eq)

	count, err := fx.svc.ExpireOverdue(context.Background(), time.Now().UTC(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one expiry got %d", count)
	}
	if len(fx.payments.cancelled) != 1 || fx.payments.cancelled[0] != intent {
		t.Fatalf("expected the payment intent to be voided, got %v", fx.payments.cancelled)
	}
	if eq.released != 1 {
		t.Fatalf("expected one hold release got %d", eq.released)
	}
}

func TestExpireOverdueKeepsRowWhenIntentVoidFails(t *testing.T) {
	item := testEquipment(uuid.New())
	intent := "pi_stuck"
	overdue := models.Rental{
		ID:              uuid.New(),
		EquipmentID:     item.ID,
		UserID:          uuid.New(),
		Status:          enums.RentalStatusPending,
		PaymentIntentID: &intent,
	}
	repo := &fakeRentalsRepo{
		findExpiredFn: func(ctx context.Context, now time.Time, limit int) ([]models.Rental, error) {
			return []models.Rental{overdue}, nil
		},
	}
	eq := &fakeEquipmentRepo{row: item}
	fx := newServiceFixture(t, repo, eq)
	fx.payments.err = errors.New("intent already succeeded")

	count, err := fx.svc.ExpireOverdue(context.Background(), time.Now().UTC(), 50)
	if err == nil {
		t.Fatal("expected the sweep to report the void failure")
	}
	if count != 0 {
		t.Fatalf("expected no expiries got %d", count)
	}
	if len(repo.statusTransitionsLog) != 0 {
		t.Fatalf("rental must stay pending, got transitions %v", repo.statusTransitionsLog)
	}
	if eq.released != 0 {
		t.Fatalf("hold must stay while the intent is live, released=%d", eq.released)
	}
}
