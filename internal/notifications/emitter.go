package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lonoleggi/lonoleggi-backend/pkg/db/models"
	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
	"github.com/lonoleggi/lonoleggi-backend/pkg/types"
)

// Emitter writes rental lifecycle notifications inside the caller's transaction.
type Emitter struct {
	repo Repository
}

// NewEmitter builds a notification emitter backed by the repository.
func NewEmitter(repo Repository) (*Emitter, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &Emitter{repo: repo}, nil
}

// RentalContext carries the identifiers every rental notification references.
type RentalContext struct {
	RentalID      uuid.UUID
	EquipmentID   uuid.UUID
	EquipmentName string
	RenterID      uuid.UUID
	OwnerID       uuid.UUID
}

func (e *Emitter) metadata(rc RentalContext) types.JSONMap {
	return types.JSONMap{
		"rental_id":    rc.RentalID.String(),
		"equipment_id": rc.EquipmentID.String(),
	}
}

func (e *Emitter) emit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind enums.NotificationType, title, message string, meta types.JSONMap) error {
	row := &models.Notification{
		UserID:   userID,
		Type:     kind,
		Title:    title,
		Message:  message,
		Metadata: meta,
	}
	return e.repo.WithTx(tx).Create(ctx, row)
}

// RentalRequested alerts the owner that a booking request was placed.
func (e *Emitter) RentalRequested(ctx context.Context, tx *gorm.DB, rc RentalContext) error {
	return e.emit(ctx, tx, rc.OwnerID, enums.NotificationTypeNewRental,
		"New rental request",
		fmt.Sprintf("Your %s has a new rental request.", rc.EquipmentName),
		e.metadata(rc))
}

// RentalConfirmed tells the renter the owner accepted the booking.
func (e *Emitter) RentalConfirmed(ctx context.Context, tx *gorm.DB, rc RentalContext) error {
	return e.emit(ctx, tx, rc.RenterID, enums.NotificationTypeRentalConfirmed,
		"Rental confirmed",
		fmt.Sprintf("Your rental of %s has been confirmed.", rc.EquipmentName),
		e.metadata(rc))
}

// PaymentSucceeded notifies both sides that the payment settled.
func (e *Emitter) PaymentSucceeded(ctx context.Context, tx *gorm.DB, rc RentalContext) error {
	meta := e.metadata(rc)
	if err := e.emit(ctx, tx, rc.RenterID, enums.NotificationTypePaymentSucceeded,
		"Payment received",
		fmt.Sprintf("Your payment for %s was received.", rc.EquipmentName), meta); err != nil {
		return err
	}
	return e.emit(ctx, tx, rc.OwnerID, enums.NotificationTypePaymentSucceeded,
		"Rental paid",
		fmt.Sprintf("The rental of your %s has been paid.", rc.EquipmentName), meta)
}

// PaymentFailed tells the renter the charge did not go through.
func (e *Emitter) PaymentFailed(ctx context.Context, tx *gorm.DB, rc RentalContext) error {
	return e.emit(ctx, tx, rc.RenterID, enums.NotificationTypePaymentFailed,
		"Payment failed",
		fmt.Sprintf("The payment for your rental of %s failed. Please try again.", rc.EquipmentName),
		e.metadata(rc))
}

// RentalCancelled notifies the renter of a cancellation.
func (e *Emitter) RentalCancelled(ctx context.Context, tx *gorm.DB, rc RentalContext) error {
	return e.emit(ctx, tx, rc.RenterID, enums.NotificationTypeRentalCancelled,
		"Rental cancelled",
		fmt.Sprintf("Your rental of %s was cancelled.", rc.EquipmentName),
		e.metadata(rc))
}

// RentalCompleted notifies the renter the rental was closed out.
func (e *Emitter) RentalCompleted(ctx context.Context, tx *gorm.DB, rc RentalContext) error {
	return e.emit(ctx, tx, rc.RenterID, enums.NotificationTypeRentalCompleted,
		"Rental completed",
		fmt.Sprintf("Your rental of %s is complete.", rc.EquipmentName),
		e.metadata(rc))
}

// RentalExpired tells the renter their unpaid reservation lapsed.
func (e *Emitter) RentalExpired(ctx context.Context, tx *gorm.DB, rc RentalContext) error {
	return e.emit(ctx, tx, rc.RenterID, enums.NotificationTypeRentalExpired,
		"Reservation expired",
		fmt.Sprintf("Your reservation of %s expired before payment completed.", rc.EquipmentName),
		e.metadata(rc))
}
