package rentals

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	stripeapi "github.com/stripe/stripe-go/v84"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/lonoleggi/lonoleggi-backend/internal/equipment"
	"github.com/lonoleggi/lonoleggi-backend/internal/notifications"
	"github.com/lonoleggi/lonoleggi-backend/pkg/db/models"
	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
	"github.com/lonoleggi/lonoleggi-backend/pkg/logger"
	"github.com/lonoleggi/lonoleggi-backend/pkg/outbox"
	"github.com/lonoleggi/lonoleggi-backend/pkg/outbox/payloads"
	"github.com/lonoleggi/lonoleggi-backend/pkg/pagination"
	"github.com/lonoleggi/lonoleggi-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type intentCanceler interface {
	CancelPaymentIntent(ctx context.Context, paymentIntentID string) (*stripeapi.PaymentIntent, error)
}

type notifier interface {
	RentalRequested(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error
	RentalConfirmed(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error
	PaymentSucceeded(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error
	PaymentFailed(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error
	RentalCancelled(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error
	RentalCompleted(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error
	RentalExpired(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext) error
}

// Service owns the rental booking lifecycle: pending creation with its
// equipment hold, owner-driven transitions, and webhook reconciliation.
type Service interface {
	Get(ctx context.Context, viewerID, rentalID uuid.UUID) (*models.Rental, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params ListParams) (*ListResult, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID, params ListParams) (*ListResult, error)
	CreatePending(ctx context.Context, tx *gorm.DB, input CreatePendingInput) (*models.Rental, error)
	Transition(ctx context.Context, actorID, rentalID uuid.UUID, next enums.RentalStatus) (*models.Rental, error)
	ApplyPaymentOutcome(ctx context.Context, input PaymentOutcomeInput) (PaymentOutcomeResult, error)
	CancelFailedCheckout(ctx context.Context, rentalID uuid.UUID, reason string) error
	ExpireOverdue(ctx context.Context, now time.Time, limit int) (int, error)
}

// ServiceParams collects the collaborators the rental service needs.
type ServiceParams struct {
	Tx        txRunner
	Repo      Repository
	Equipment equipment.Repository
	Outbox    outboxPublisher
	Notifier  notifier
	Payments  intentCanceler
	Logger    *logger.Logger
}

type service struct {
	tx        txRunner
	repo      Repository
	equipment equipment.Repository
	outbox    outboxPublisher
	notifier  notifier
	payments  intentCanceler
	logg      *logger.Logger
}

// NewService validates dependencies and builds the rental service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "tx runner required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rentals repository required")
	}
	if params.Equipment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "equipment store required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox publisher required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	if params.Payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment client required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		tx:        params.Tx,
		repo:      params.Repo,
		equipment: params.Equipment,
		outbox:    params.Outbox,
		notifier:  params.Notifier,
		payments:  params.Payments,
		logg:      params.Logger,
	}, nil
}

// ListParams configures rental listing pagination.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult wraps a page of rentals and the cursor for the next one.
type ListResult struct {
	Items  []models.Rental `json:"items"`
	Cursor string          `json:"cursor"`
}

// CreatePendingInput is everything needed to persist a pending booking. The
// caller has already priced the period and loaded the equipment row.
type CreatePendingInput struct {
	Equipment  *models.Equipment
	UserID     uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	TotalPrice decimal.Decimal
	Notes      *string
	Billing    *types.BillingDetails
	ExpiresAt  time.Time
}

// PaymentOutcomeInput describes a reconciled payment event from the
// processor. The rental is resolved by RentalID when the event carries one in
// its metadata, otherwise by the payment intent id.
type PaymentOutcomeInput struct {
	RentalID        uuid.UUID
	PaymentIntentID string
	Next            enums.RentalStatus
	Reason          string
}

// PaymentOutcomeResult reports what the reconciliation did with the event.
type PaymentOutcomeResult struct {
	Applied bool
	Rental  *models.Rental
}

// errRescueHoldLost rolls back a payment_failed rescue whose equipment was
// already rebooked by someone else.
var errRescueHoldLost = errors.New("equipment rebooked before rescue")

func (s *service) Get(ctx context.Context, viewerID, rentalID uuid.UUID) (*models.Rental, error) {
	if rentalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rental id required")
	}
	rental, equipment, err := s.load(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.UserID != viewerID && equipment.OwnerID != viewerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "rental belongs to another user")
	}
	return rental, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params ListParams) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	cursor, err := parseListCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.ListByUser(ctx, userID, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rentals")
	}
	return buildListResult(rows, next), nil
}

func (s *service) ListForOwner(ctx context.Context, ownerID uuid.UUID, params ListParams) (*ListResult, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}
	cursor, err := parseListCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.ListByEquipmentOwner(ctx, ownerID, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rentals for owner")
	}
	return buildListResult(rows, next), nil
}

// CreatePending holds the equipment and inserts the pending booking inside the
// caller's transaction. The hold is a guarded update, so under concurrent
// checkouts exactly one caller wins and the rest get a conflict.
func (s *service) CreatePending(ctx context.Context, tx *gorm.DB, input CreatePendingInput) (*models.Rental, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	if input.Equipment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "equipment required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.Equipment.OwnerID == input.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot rent your own equipment")
	}

	held, err := s.equipment.WithTx(tx).HoldForRental(ctx, input.Equipment.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "hold equipment")
	}
	if !held {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "equipment is no longer available")
	}

	expiresAt := input.ExpiresAt.UTC()
	rental := &models.Rental{
		ID:             uuid.New(),
		EquipmentID:    input.Equipment.ID,
		UserID:         input.UserID,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		TotalPrice:     input.TotalPrice,
		Status:         enums.RentalStatusPending,
		Notes:          input.Notes,
		BillingDetails: input.Billing,
		ExpiresAt:      &expiresAt,
	}
	if err := s.repo.WithTx(tx).Create(ctx, rental); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rental")
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventRentalCreated,
		AggregateType: enums.AggregateRental,
		AggregateID:   rental.ID,
		Actor:         &outbox.ActorRef{UserID: input.UserID},
		Data: payloads.RentalCreatedEvent{
			RentalID:    rental.ID,
			EquipmentID: rental.EquipmentID,
			UserID:      rental.UserID,
			OwnerID:     input.Equipment.OwnerID,
			StartDate:   rental.StartDate,
			EndDate:     rental.EndDate,
			TotalPrice:  rental.TotalPrice,
			ExpiresAt:   rental.ExpiresAt,
		},
		Version: 1,
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit rental created")
	}

	rc := rentalContext(rental, input.Equipment)
	if err := s.notifier.RentalRequested(ctx, tx, rc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notify owner")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"rental_id":    rental.ID.String(),
		"equipment_id": rental.EquipmentID.String(),
		"expires_at":   expiresAt,
	})
	s.logg.Info(logCtx, "pending rental created")
	return rental, nil
}

// Transition applies an owner- or renter-initiated status change. Confirm and
// complete belong to the owner; cancel is allowed to either side while the
// rental has not been paid.
func (s *service) Transition(ctx context.Context, actorID, rentalID uuid.UUID, next enums.RentalStatus) (*models.Rental, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid rental status")
	}
	rental, equipment, err := s.load(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	isOwner := equipment.OwnerID == actorID
	isRenter := rental.UserID == actorID
	switch next {
	case enums.RentalStatusConfirmed, enums.RentalStatusCompleted:
		if !isOwner {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the equipment owner can do that")
		}
	case enums.RentalStatusCancelled:
		if !isOwner && !isRenter {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "rental belongs to another user")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status "+next.String()+" is managed by payment reconciliation")
	}

	if err := EvaluateOwnerAction(rental.Status, next); err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		updated, err := s.repo.WithTx(tx).UpdateStatusFrom(ctx, rental.ID, rental.Status, next, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rental status")
		}
		if !updated {
			return pkgerrors.New(pkgerrors.CodeConflict, "rental was updated concurrently, retry")
		}
		if next.IsTerminal() {
			if _, err := s.equipment.WithTx(tx).ReleaseHold(ctx, rental.EquipmentID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release equipment hold")
			}
		}
		if err := s.emitStatusEvent(ctx, tx, rental, next, "", actorID); err != nil {
			return err
		}
		return s.notifyTransition(ctx, tx, rentalContext(rental, equipment), next)
	})
	if err != nil {
		return nil, err
	}

	rental.Status = next
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"rental_id": rental.ID.String(),
		"status":    next,
	})
	s.logg.Info(logCtx, "rental transitioned")
	return rental, nil
}

// ApplyPaymentOutcome reconciles a payment event against the booking. Stale
// and duplicate deliveries resolve to a no-op so replayed webhooks never move
// a rental backwards.
func (s *service) ApplyPaymentOutcome(ctx context.Context, input PaymentOutcomeInput) (PaymentOutcomeResult, error) {
	if input.PaymentIntentID == "" && input.RentalID == uuid.Nil {
		return PaymentOutcomeResult{}, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id or rental id required")
	}
	switch input.Next {
	case enums.RentalStatusConfirmed, enums.RentalStatusPaid, enums.RentalStatusPaymentFailed:
	default:
		return PaymentOutcomeResult{}, pkgerrors.New(pkgerrors.CodeValidation, "status "+input.Next.String()+" cannot come from a payment event")
	}

	var (
		rental *models.Rental
		err    error
	)
	if input.RentalID != uuid.Nil {
		rental, err = s.repo.FindByID(ctx, input.RentalID)
	} else {
		rental, err = s.repo.FindByPaymentIntentID(ctx, input.PaymentIntentID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentOutcomeResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "no rental for payment event")
		}
		return PaymentOutcomeResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find rental for payment event")
	}

	switch EvaluatePaymentOutcome(rental.Status, input.Next) {
	case DecisionSkip:
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"rental_id": rental.ID.String(),
			"status":    rental.Status,
			"event":     input.Next,
		})
		s.logg.Info(logCtx, "stale payment event skipped")
		return PaymentOutcomeResult{Applied: false, Rental: rental}, nil
	case DecisionReject:
		return PaymentOutcomeResult{}, pkgerrors.New(pkgerrors.CodeStateConflict, "rental cannot move from "+rental.Status.String()+" to "+input.Next.String())
	}

	equipment, err := s.equipment.FindByID(ctx, rental.EquipmentID)
	if err != nil {
		return PaymentOutcomeResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
	}

	applied := false
	rescue := rental.Status == enums.RentalStatusPaymentFailed
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		updated, err := s.repo.WithTx(tx).UpdateStatusFrom(ctx, rental.ID, rental.Status, input.Next, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rental status")
		}
		if !updated {
			// A concurrent delivery already moved the row. The event is now
			// stale, so this delivery becomes a no-op.
			return nil
		}
		if rescue {
			// The failure path returned the equipment to the pool, so a late
			// success has to win it back before the rental can move forward.
			held, err := s.equipment.WithTx(tx).HoldForRental(ctx, rental.EquipmentID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "re-hold equipment")
			}
			if !held {
				return errRescueHoldLost
			}
		}
		applied = true
		if input.Next == enums.RentalStatusPaymentFailed {
			if _, err := s.equipment.WithTx(tx).ReleaseHold(ctx, rental.EquipmentID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release equipment hold")
			}
		}
		if err := s.emitStatusEvent(ctx, tx, rental, input.Next, input.Reason, uuid.Nil); err != nil {
			return err
		}
		return s.notifyTransition(ctx, tx, rentalContext(rental, equipment), input.Next)
	})
	if errors.Is(err, errRescueHoldLost) {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"rental_id":    rental.ID.String(),
			"equipment_id": rental.EquipmentID.String(),
			"event":        input.Next,
		})
		s.logg.Warn(logCtx, "late payment event dropped, equipment was rebooked after the failure")
		return PaymentOutcomeResult{Applied: false, Rental: rental}, nil
	}
	if err != nil {
		return PaymentOutcomeResult{}, err
	}
	if applied {
		rental.Status = input.Next
	}
	return PaymentOutcomeResult{Applied: applied, Rental: rental}, nil
}

// CancelFailedCheckout compensates a checkout whose payment intent never got
// created: the pending rental is cancelled and the equipment returned to the
// pool. The rental row stays behind as an audit trail of the attempt.
func (s *service) CancelFailedCheckout(ctx context.Context, rentalID uuid.UUID, reason string) error {
	rental, equipment, err := s.load(ctx, rentalID)
	if err != nil {
		return err
	}
	if rental.Status != enums.RentalStatusPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending rentals can be compensated")
	}
	if rental.PaymentIntentID != nil && *rental.PaymentIntentID != "" {
		if _, err := s.payments.CancelPaymentIntent(ctx, *rental.PaymentIntentID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel payment intent")
		}
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		updated, err := s.repo.WithTx(tx).UpdateStatusFrom(ctx, rental.ID, enums.RentalStatusPending, enums.RentalStatusCancelled, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel rental")
		}
		if !updated {
			return nil
		}
		if _, err := s.equipment.WithTx(tx).ReleaseHold(ctx, rental.EquipmentID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release equipment hold")
		}
		if err := s.emitStatusEvent(ctx, tx, rental, enums.RentalStatusCancelled, reason, uuid.Nil); err != nil {
			return err
		}
		return s.notifyTransition(ctx, tx, rentalContext(rental, equipment), enums.RentalStatusCancelled)
	})
}

// ExpireOverdue cancels pending rentals whose reservation TTL has lapsed and
// returns the equipment to the pool. The payment intent is voided before the
// row moves, so a lapsed reservation can never be confirmed and charged after
// the fact; if the void fails the row stays pending for the next sweep. Each
// rental is reclaimed in its own transaction so one bad row cannot block the
// sweep.
func (s *service) ExpireOverdue(ctx context.Context, now time.Time, limit int) (int, error) {
	rows, err := s.repo.FindExpiredPending(ctx, now, limit)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find expired rentals")
	}

	expired := 0
	var errs []error
	for i := range rows {
		rental := rows[i]
		equipment, err := s.equipment.FindByID(ctx, rental.EquipmentID)
		if err != nil {
			errs = append(errs, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment"))
			continue
		}
		if rental.PaymentIntentID != nil && *rental.PaymentIntentID != "" {
			if _, err := s.payments.CancelPaymentIntent(ctx, *rental.PaymentIntentID); err != nil {
				// A succeeded payment shows up here as a cancel failure; the
				// paid webhook settles the still-pending row instead.
				errs = append(errs, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel payment intent"))
				continue
			}
		}
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			updated, err := s.repo.WithTx(tx).UpdateStatusFrom(ctx, rental.ID, enums.RentalStatusPending, enums.RentalStatusCancelled, nil)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel expired rental")
			}
			if !updated {
				// Paid or cancelled between the scan and this transaction.
				return nil
			}
			if _, err := s.equipment.WithTx(tx).ReleaseHold(ctx, rental.EquipmentID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release equipment hold")
			}
			event := outbox.DomainEvent{
				EventType:     enums.EventRentalExpired,
				AggregateType: enums.AggregateRental,
				AggregateID:   rental.ID,
				Data: payloads.RentalExpiredEvent{
					RentalID:    rental.ID,
					EquipmentID: rental.EquipmentID,
					UserID:      rental.UserID,
					ExpiredAt:   now,
				},
				Version: 1,
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit rental expired")
			}
			expired++
			return s.notifier.RentalExpired(ctx, tx, rentalContext(&rental, equipment))
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return expired, multierr.Combine(errs...)
}

func (s *service) load(ctx context.Context, rentalID uuid.UUID) (*models.Rental, *models.Equipment, error) {
	rental, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "rental not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rental")
	}
	equipment, err := s.equipment.FindByID(ctx, rental.EquipmentID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
	}
	return rental, equipment, nil
}

func (s *service) emitStatusEvent(ctx context.Context, tx *gorm.DB, rental *models.Rental, next enums.RentalStatus, reason string, actorID uuid.UUID) error {
	eventType, ok := statusEventTypes[next]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeInternal, "no event type for status "+next.String())
	}
	event := outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateRental,
		AggregateID:   rental.ID,
		Data: payloads.RentalStatusEvent{
			RentalID:        rental.ID,
			EquipmentID:     rental.EquipmentID,
			UserID:          rental.UserID,
			Status:          next,
			PaymentIntentID: rental.PaymentIntentID,
			Reason:          reason,
		},
		Version: 1,
	}
	if actorID != uuid.Nil {
		event.Actor = &outbox.ActorRef{UserID: actorID}
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit rental status")
	}
	return nil
}

var statusEventTypes = map[enums.RentalStatus]enums.OutboxEventType{
	enums.RentalStatusConfirmed:     enums.EventRentalConfirmed,
	enums.RentalStatusPaid:          enums.EventRentalPaid,
	enums.RentalStatusPaymentFailed: enums.EventRentalPaymentFailed,
	enums.RentalStatusCompleted:     enums.EventRentalCompleted,
	enums.RentalStatusCancelled:     enums.EventRentalCancelled,
}

func (s *service) notifyTransition(ctx context.Context, tx *gorm.DB, rc notifications.RentalContext, next enums.RentalStatus) error {
	var err error
	switch next {
	case enums.RentalStatusConfirmed:
		err = s.notifier.RentalConfirmed(ctx, tx, rc)
	case enums.RentalStatusPaid:
		err = s.notifier.PaymentSucceeded(ctx, tx, rc)
	case enums.RentalStatusPaymentFailed:
		err = s.notifier.PaymentFailed(ctx, tx, rc)
	case enums.RentalStatusCompleted:
		err = s.notifier.RentalCompleted(ctx, tx, rc)
	case enums.RentalStatusCancelled:
		err = s.notifier.RentalCancelled(ctx, tx, rc)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write notification")
	}
	return nil
}

func rentalContext(rental *models.Rental, equipment *models.Equipment) notifications.RentalContext {
	return notifications.RentalContext{
		RentalID:      rental.ID,
		EquipmentID:   rental.EquipmentID,
		EquipmentName: equipment.Name,
		RenterID:      rental.UserID,
		OwnerID:       equipment.OwnerID,
	}
}

func parseListCursor(raw string) (*pagination.Cursor, error) {
	if raw == "" {
		return nil, nil
	}
	cursor, err := pagination.ParseCursor(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return cursor, nil
}

func buildListResult(rows []models.Rental, next *pagination.Cursor) *ListResult {
	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}
}
