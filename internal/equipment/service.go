package equipment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lonoleggi/lonoleggi-backend/pkg/db/models"
	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
	"github.com/lonoleggi/lonoleggi-backend/pkg/pagination"
	"github.com/lonoleggi/lonoleggi-backend/pkg/types"
)

// Service defines catalog operations for equipment owners and renters.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*models.Equipment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Equipment, error)
	List(ctx context.Context, params ListQuery) (*ListResult, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input UpdateInput) (*models.Equipment, error)
	SetStatus(ctx context.Context, ownerID, id uuid.UUID, status enums.EquipmentStatus) error
}

// CreateInput captures a new catalog listing.
type CreateInput struct {
	Name         string            `json:"name" validate:"required,min=2,max=200"`
	Description  string            `json:"description" validate:"max=5000"`
	Category     string            `json:"category" validate:"required,max=100"`
	Location     string            `json:"location" validate:"max=200"`
	PriceHour    decimal.Decimal   `json:"price_hour"`
	PriceDay     decimal.Decimal   `json:"price_day" validate:"required"`
	PriceWeek    decimal.Decimal   `json:"price_week"`
	PriceMonth   decimal.Decimal   `json:"price_month"`
	TrackingType string            `json:"tracking_type" validate:"omitempty,oneof=bulk serial"`
	Quantity     *int              `json:"quantity" validate:"omitempty,min=0"`
	SerialCode   *string           `json:"serial_code"`
	Images       types.StringArray `json:"images"`
	Features     types.StringArray `json:"features"`
}

// UpdateInput carries partial updates to a listing.
type UpdateInput struct {
	Name        *string            `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string            `json:"description" validate:"omitempty,max=5000"`
	Category    *string            `json:"category" validate:"omitempty,max=100"`
	Location    *string            `json:"location" validate:"omitempty,max=200"`
	PriceHour   *decimal.Decimal   `json:"price_hour"`
	PriceDay    *decimal.Decimal   `json:"price_day"`
	PriceWeek   *decimal.Decimal   `json:"price_week"`
	PriceMonth  *decimal.Decimal   `json:"price_month"`
	Quantity    *int               `json:"quantity" validate:"omitempty,min=0"`
	Images      *types.StringArray `json:"images"`
	Features    *types.StringArray `json:"features"`
}

// ListQuery configures paginated catalog queries.
type ListQuery struct {
	OwnerID       *uuid.UUID
	Category      string
	Location      string
	AvailableOnly bool
	Limit         int
	Cursor        string
}

// ListResult wraps returned listings and the cursor for the next page.
type ListResult struct {
	Items  []models.Equipment `json:"items"`
	Cursor string             `json:"cursor"`
}

type service struct {
	repo Repository
}

// NewService wires equipment catalog dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "equipment repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*models.Equipment, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}
	if input.PriceDay.IsNegative() || input.PriceHour.IsNegative() ||
		input.PriceWeek.IsNegative() || input.PriceMonth.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must not be negative")
	}

	tracking := enums.TrackingTypeBulk
	if input.TrackingType != "" {
		parsed, err := enums.ParseTrackingType(input.TrackingType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tracking type")
		}
		tracking = parsed
	}
	if tracking == enums.TrackingTypeSerial && (input.SerialCode == nil || *input.SerialCode == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "serial code required for serial tracking")
	}

	row := &models.Equipment{
		OwnerID:      ownerID,
		Name:         input.Name,
		Description:  input.Description,
		Category:     input.Category,
		Location:     input.Location,
		PriceHour:    input.PriceHour,
		PriceDay:     input.PriceDay,
		PriceWeek:    input.PriceWeek,
		PriceMonth:   input.PriceMonth,
		TrackingType: tracking,
		Quantity:     input.Quantity,
		SerialCode:   input.SerialCode,
		Status:       enums.EquipmentStatusAvailable,
		Images:       input.Images,
		Features:     input.Features,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create equipment")
	}
	return row, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "equipment id required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
	}
	return row, nil
}

func (s *service) List(ctx context.Context, params ListQuery) (*ListResult, error) {
	query := ListParams{
		OwnerID:  params.OwnerID,
		Category: params.Category,
		Location: params.Location,
		Limit:    params.Limit,
	}
	if params.AvailableOnly {
		status := enums.EquipmentStatusAvailable
		query.Status = &status
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list equipment")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) Update(ctx context.Context, ownerID, id uuid.UUID, input UpdateInput) (*models.Equipment, error) {
	row, err := s.loadOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	for column, price := range map[string]*decimal.Decimal{
		"price_hour":  input.PriceHour,
		"price_day":   input.PriceDay,
		"price_week":  input.PriceWeek,
		"price_month": input.PriceMonth,
	} {
		if price == nil {
			continue
		}
		if price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must not be negative")
		}
		updates[column] = *price
	}
	if input.Quantity != nil {
		updates["quantity"] = *input.Quantity
	}
	if input.Images != nil {
		updates["images"] = *input.Images
	}
	if input.Features != nil {
		updates["features"] = *input.Features
	}
	if len(updates) == 0 {
		return row, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update equipment")
	}
	return s.Get(ctx, id)
}

// SetStatus lets the owner move an item between available and repair.
// The rented status is owned by the booking flow and cannot be set directly.
func (s *service) SetStatus(ctx context.Context, ownerID, id uuid.UUID, status enums.EquipmentStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid equipment status")
	}
	if status == enums.EquipmentStatusRented {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "rented status is managed by bookings")
	}
	row, err := s.loadOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if row.Status == enums.EquipmentStatusRented {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "equipment has an active rental")
	}
	if row.Status == status {
		return nil
	}
	if err := s.repo.Update(ctx, id, map[string]any{"status": status}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update equipment status")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.Equipment, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "equipment belongs to another owner")
	}
	return row, nil
}
