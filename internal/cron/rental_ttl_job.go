package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lonoleggi/lonoleggi-backend/pkg/logger"
)

const expirySweepBatchSize = 100

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type rentalExpirer interface {
	ExpireOverdue(ctx context.Context, now time.Time, limit int) (int, error)
}

// RentalTTLJobParams configure the reservation expiry sweep.
type RentalTTLJobParams struct {
	Logger  *logger.Logger
	Rentals rentalExpirer
	Batch   int
}

// NewRentalTTLJob builds the job that reclaims pending rentals whose
// reservation expired before the payment completed.
func NewRentalTTLJob(params RentalTTLJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Rentals == nil {
		return nil, fmt.Errorf("rentals service required")
	}
	batch := params.Batch
	if batch <= 0 {
		batch = expirySweepBatchSize
	}
	return &rentalTTLJob{
		logg:    params.Logger,
		rentals: params.Rentals,
		batch:   batch,
		now:     time.Now,
	}, nil
}

type rentalTTLJob struct {
	logg    *logger.Logger
	rentals rentalExpirer
	batch   int
	now     func() time.Time
}

func (j *rentalTTLJob) Name() string { return "rental-ttl" }

func (j *rentalTTLJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	expired, err := j.rentals.ExpireOverdue(ctx, now, j.batch)
	if err != nil {
		return fmt.Errorf("rental expiry sweep: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"expired": expired,
		"as_of":   now,
	})
	j.logg.Info(logCtx, "rental expiry sweep complete")
	return nil
}
