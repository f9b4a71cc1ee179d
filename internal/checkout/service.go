package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	stripeapi "github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/lonoleggi/lonoleggi-backend/internal/equipment"
	"github.com/lonoleggi/lonoleggi-backend/internal/pricing"
	"github.com/lonoleggi/lonoleggi-backend/internal/rentals"
	"github.com/lonoleggi/lonoleggi-backend/pkg/config"
	"github.com/lonoleggi/lonoleggi-backend/pkg/db/models"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
	"github.com/lonoleggi/lonoleggi-backend/pkg/logger"
	"github.com/lonoleggi/lonoleggi-backend/pkg/stripe"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type paymentsClient interface {
	CreatePaymentIntent(ctx context.Context, input stripe.PaymentIntentInput) (*stripeapi.PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, paymentIntentID string) (*stripeapi.PaymentIntent, error)
}

type rentalWriter interface {
	CreatePending(ctx context.Context, tx *gorm.DB, input rentals.CreatePendingInput) (*models.Rental, error)
	CancelFailedCheckout(ctx context.Context, rentalID uuid.UUID, reason string) error
}

type intentAttacher interface {
	SetPaymentIntent(ctx context.Context, id uuid.UUID, paymentIntentID string) error
}

// Service runs the checkout saga: price the period, reserve the equipment
// with a pending rental, then open a payment intent for the reservation.
type Service interface {
	Start(ctx context.Context, userID uuid.UUID, input StartInput) (*StartResult, error)
}

// ServiceParams collects the checkout collaborators.
type ServiceParams struct {
	Tx        txRunner
	Equipment equipment.Repository
	Rentals   rentalWriter
	Attacher  intentAttacher
	Payments  paymentsClient
	Config    config.CheckoutConfig
	Logger    *logger.Logger
}

type service struct {
	tx        txRunner
	equipment equipment.Repository
	rentals   rentalWriter
	attacher  intentAttacher
	payments  paymentsClient
	cfg       config.CheckoutConfig
	logg      *logger.Logger
}

// NewService validates dependencies and builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "tx runner required")
	}
	if params.Equipment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "equipment repository required")
	}
	if params.Rentals == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rentals service required")
	}
	if params.Attacher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rentals repository required")
	}
	if params.Payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment client required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		tx:        params.Tx,
		equipment: params.Equipment,
		rentals:   params.Rentals,
		attacher:  params.Attacher,
		payments:  params.Payments,
		cfg:       params.Config,
		logg:      params.Logger,
	}, nil
}

// Start executes the saga. The pending rental and its equipment hold commit
// first; the payment intent is created only after that commit so a processor
// outage can never leak a hold without a rental row. If the intent cannot be
// created the rental is compensated away.
func (s *service) Start(ctx context.Context, userID uuid.UUID, input StartInput) (*StartResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	item, err := s.equipment.FindByID(ctx, input.EquipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
	}

	quote, err := pricing.ForPeriod(item, input.StartDate, input.EndDate, s.cfg.Currency)
	if err != nil {
		return nil, err
	}
	if err := pricing.VerifyClientAmount(quote, input.ExpectedAmount); err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(s.cfg.ReservationTTL)
	var rental *models.Rental
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.rentals.CreatePending(ctx, tx, rentals.CreatePendingInput{
			Equipment:  item,
			UserID:     userID,
			StartDate:  input.StartDate,
			EndDate:    input.EndDate,
			TotalPrice: quote.TotalPrice,
			Notes:      input.Notes,
			Billing:    input.BillingDetails,
			ExpiresAt:  expiresAt,
		})
		if err != nil {
			return err
		}
		rental = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, stripe.PaymentIntentInput{
		RentalID:      rental.ID,
		EquipmentID:   item.ID,
		UserID:        userID,
		AmountMinor:   quote.AmountMinor,
		Currency:      quote.Currency,
		PaymentMethod: input.PaymentMethod,
	})
	if err != nil {
		logCtx := s.logg.WithRentalID(ctx, rental.ID.String())
		s.logg.Error(logCtx, "payment intent creation failed, compensating", err)
		if compErr := s.rentals.CancelFailedCheckout(ctx, rental.ID, "payment_intent_create_failed"); compErr != nil {
			s.logg.Error(logCtx, "checkout compensation failed", compErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "create payment intent")
	}

	if err := s.attacher.SetPaymentIntent(ctx, rental.ID, intent.ID); err != nil {
		// Without the intent id on the rental, webhook deliveries for this
		// intent cannot be reconciled. Void it and compensate the booking.
		logCtx := s.logg.WithRentalID(ctx, rental.ID.String())
		s.logg.Error(logCtx, "payment intent attach failed, compensating", err)
		if _, cancelErr := s.payments.CancelPaymentIntent(ctx, intent.ID); cancelErr != nil {
			s.logg.Error(logCtx, "orphaned payment intent cancel failed", cancelErr)
		}
		if compErr := s.rentals.CancelFailedCheckout(ctx, rental.ID, "payment_intent_attach_failed"); compErr != nil {
			s.logg.Error(logCtx, "checkout compensation failed", compErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach payment intent")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"rental_id":         rental.ID.String(),
		"payment_intent_id": intent.ID,
		"amount":            quote.AmountMinor,
		"currency":          quote.Currency,
	})
	s.logg.Info(logCtx, "checkout started")

	return &StartResult{
		RentalID:     rental.ID,
		ClientSecret: intent.ClientSecret,
		AmountMinor:  quote.AmountMinor,
		Currency:     quote.Currency,
		ExpiresAt:    expiresAt,
	}, nil
}
