package equipment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lonoleggi/lonoleggi-backend/pkg/db/models"
	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	"github.com/lonoleggi/lonoleggi-backend/pkg/pagination"
)

// Repository exposes persistence helpers for the equipment catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, equipment *models.Equipment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error)
	List(ctx context.Context, params ListParams) ([]models.Equipment, *pagination.Cursor, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	HoldForRental(ctx context.Context, id uuid.UUID) (bool, error)
	ReleaseHold(ctx context.Context, id uuid.UUID) (bool, error)
}

// ListParams filters catalog listings.
type ListParams struct {
	OwnerID  *uuid.UUID
	Category string
	Location string
	Status   *enums.EquipmentStatus
	Limit    int
	Cursor   *pagination.Cursor
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an equipment repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, equipment *models.Equipment) error {
	return r.db.WithContext(ctx).Create(equipment).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	var row models.Equipment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repositoryImpl) List(ctx context.Context, params ListParams) ([]models.Equipment, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Equipment{})
	if params.OwnerID != nil {
		query = query.Where("owner_id = ?", *params.OwnerID)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Location != "" {
		query = query.Where("location = ?", params.Location)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Equipment
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

func (r *repositoryImpl) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Equipment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// HoldForRental flips the item from available to rented with a guarded UPDATE.
// It returns false when a concurrent booking or a status change won the race.
func (r *repositoryImpl) HoldForRental(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Equipment{}).
		Where("id = ? AND status = ?", id, enums.EquipmentStatusAvailable).
		UpdateColumn("status", enums.EquipmentStatusRented)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReleaseHold flips the item back from rented to available. Items moved to
// repair in the meantime are left untouched.
func (r *repositoryImpl) ReleaseHold(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Equipment{}).
		Where("id = ? AND status = ?", id, enums.EquipmentStatusRented).
		UpdateColumn("status", enums.EquipmentStatusAvailable)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
