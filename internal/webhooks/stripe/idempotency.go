package stripewebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lonoleggi/lonoleggi-backend/pkg/outbox/idempotency"
	"github.com/lonoleggi/lonoleggi-backend/pkg/redis"
)

// IdempotencyGuard deduplicates webhook deliveries by Stripe event id. Keys
// expire after the TTL, which must outlast Stripe's retry window.
type IdempotencyGuard struct {
	manager *idempotency.Manager
	scope   string
}

func NewIdempotencyGuard(store redis.IdempotencyStore, ttl time.Duration, scope string) (*IdempotencyGuard, error) {
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	manager, err := idempotency.NewManager(store, ttl)
	if err != nil {
		return nil, err
	}
	return &IdempotencyGuard{
		manager: manager,
		scope:   scope,
	}, nil
}

// CheckAndMark claims the event id and reports whether it was already seen.
func (g *IdempotencyGuard) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	duplicate, err := g.manager.CheckAndMarkProcessed(ctx, g.scope, eventID)
	if err != nil {
		return false, fmt.Errorf("claim webhook event: %w", err)
	}
	return duplicate, nil
}

// Delete releases the claim so a failed event can be retried by Stripe.
func (g *IdempotencyGuard) Delete(ctx context.Context, eventID string) error {
	return g.manager.Delete(ctx, g.scope, eventID)
}
