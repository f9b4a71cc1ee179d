package stripe

import (
	"context"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"
)

// PaymentIntentInput carries the priced booking a payment intent is opened for.
type PaymentIntentInput struct {
	RentalID      uuid.UUID
	EquipmentID   uuid.UUID
	UserID        uuid.UUID
	AmountMinor   int64
	Currency      string
	PaymentMethod string
}

// CreatePaymentIntent opens an unconfirmed payment intent for a pending
// rental. The rental id travels in the metadata so webhook deliveries can be
// reconciled even before the intent id is persisted.
func (c *Client) CreatePaymentIntent(ctx context.Context, input PaymentIntentInput) (*stripe.PaymentIntent, error) {
	return c.api.V1PaymentIntents.Create(ctx, paymentIntentCreateParams(input))
}

func paymentIntentCreateParams(input PaymentIntentInput) *stripe.PaymentIntentCreateParams {
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(input.AmountMinor),
		Currency: stripe.String(input.Currency),
		Confirm:  stripe.Bool(false),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if input.PaymentMethod != "" {
		params.PaymentMethod = stripe.String(input.PaymentMethod)
	}
	params.AddMetadata("rental_id", input.RentalID.String())
	params.AddMetadata("equipment_id", input.EquipmentID.String())
	params.AddMetadata("user_id", input.UserID.String())
	// One intent per rental: a retried create after a timeout reuses the
	// intent Stripe already opened instead of double-charging.
	params.SetIdempotencyKey("rental-intent-" + input.RentalID.String())
	return params
}

// CancelPaymentIntent voids an intent that can no longer be paid, e.g. when
// the reservation behind it expired.
func (c *Client) CancelPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.PaymentIntent, error) {
	return c.api.V1PaymentIntents.Cancel(ctx, paymentIntentID, &stripe.PaymentIntentCancelParams{})
}

// ConstructWebhookEvent verifies the Stripe-Signature header against the raw
// payload and returns the decoded event. Invalid signatures must be rejected
// before any state is touched.
func (c *Client) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, c.signingSecret)
}
