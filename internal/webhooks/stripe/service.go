package stripewebhook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/lonoleggi/lonoleggi-backend/internal/rentals"
	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
	"github.com/lonoleggi/lonoleggi-backend/pkg/logger"
	"github.com/lonoleggi/lonoleggi-backend/pkg/metrics"
)

// Scope names the idempotency namespace for this consumer.
const Scope = "stripe-webhook"

type rentalReconciler interface {
	ApplyPaymentOutcome(ctx context.Context, input rentals.PaymentOutcomeInput) (rentals.PaymentOutcomeResult, error)
}

type eventGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type ServiceParams struct {
	Rentals rentalReconciler
	Guard   eventGuard
	Metrics *metrics.WebhookMetrics
	Logger  *logger.Logger
}

// Service reconciles Stripe payment events against rental bookings.
type Service struct {
	rentals rentalReconciler
	guard   eventGuard
	metrics *metrics.WebhookMetrics
	logg    *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Rentals == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "rentals service required")
	}
	if params.Guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		rentals: params.Rentals,
		guard:   params.Guard,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// HandleEvent processes one verified Stripe event. Events outside the rental
// payment lifecycle are acknowledged without any work. A processing failure
// releases the idempotency claim so Stripe's retry can land later.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	eventType := string(event.Type)
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypePaymentIntentSucceeded,
		stripe.EventTypePaymentIntentPaymentFailed:
	default:
		return nil
	}

	duplicate, err := s.guard.CheckAndMark(ctx, event.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check event idempotency")
	}
	if duplicate {
		s.metrics.IncDuplicate(eventType)
		logCtx := s.logg.WithField(ctx, "event_id", event.ID)
		s.logg.Info(logCtx, "duplicate stripe event skipped")
		return nil
	}

	started := time.Now()
	outcome, err := s.reconcile(ctx, event)
	s.metrics.ObserveDuration(eventType, time.Since(started))
	if err != nil {
		// Release the claim so the delivery can be retried.
		if delErr := s.guard.Delete(ctx, event.ID); delErr != nil {
			s.logg.Error(ctx, "release idempotency claim", delErr)
		}
		s.metrics.IncProcessed(eventType, "error")
		return err
	}
	s.metrics.IncProcessed(eventType, outcome)
	return nil
}

func (s *Service) reconcile(ctx context.Context, event *stripe.Event) (string, error) {
	var input rentals.PaymentOutcomeInput

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session")
		}
		rentalID, err := rentalIDFromMetadata(session.Metadata)
		if err != nil {
			return "", err
		}
		input = rentals.PaymentOutcomeInput{
			RentalID: rentalID,
			Next:     enums.RentalStatusConfirmed,
		}
		if session.PaymentIntent != nil {
			input.PaymentIntentID = session.PaymentIntent.ID
		}
	case stripe.EventTypePaymentIntentSucceeded:
		intent, err := decodeIntent(event)
		if err != nil {
			return "", err
		}
		input = rentals.PaymentOutcomeInput{
			PaymentIntentID: intent.ID,
			Next:            enums.RentalStatusPaid,
		}
	case stripe.EventTypePaymentIntentPaymentFailed:
		intent, err := decodeIntent(event)
		if err != nil {
			return "", err
		}
		input = rentals.PaymentOutcomeInput{
			PaymentIntentID: intent.ID,
			Next:            enums.RentalStatusPaymentFailed,
			Reason:          failureReason(intent),
		}
	}

	result, err := s.rentals.ApplyPaymentOutcome(ctx, input)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
			// Stripe can deliver events for intents this system never
			// created, e.g. from another environment. Acknowledge them.
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"event_id":   event.ID,
				"event_type": event.Type,
			})
			s.logg.Warn(logCtx, "stripe event references unknown rental")
			return "unknown_rental", nil
		}
		return "", err
	}
	if !result.Applied {
		return "stale", nil
	}
	return "applied", nil
}

func decodeIntent(event *stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent")
	}
	if intent.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id missing")
	}
	return &intent, nil
}

func rentalIDFromMetadata(metadata map[string]string) (uuid.UUID, error) {
	raw, ok := metadata["rental_id"]
	if !ok || raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "rental_id metadata missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rental_id metadata")
	}
	return id, nil
}

func failureReason(intent *stripe.PaymentIntent) string {
	if intent.LastPaymentError == nil {
		return ""
	}
	if intent.LastPaymentError.DeclineCode != "" {
		return string(intent.LastPaymentError.DeclineCode)
	}
	return string(intent.LastPaymentError.Code)
}
