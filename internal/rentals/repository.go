package rentals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lonoleggi/lonoleggi-backend/pkg/db/models"
	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	"github.com/lonoleggi/lonoleggi-backend/pkg/pagination"
)

// Repository exposes persistence helpers for rental bookings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rental *models.Rental) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Rental, error)
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Rental, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Rental, *pagination.Cursor, error)
	ListByEquipmentOwner(ctx context.Context, ownerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Rental, *pagination.Cursor, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to enums.RentalStatus, extra map[string]any) (bool, error)
	SetPaymentIntent(ctx context.Context, id uuid.UUID, paymentIntentID string) error
	FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]models.Rental, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a rentals repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, rental *models.Rental) error {
	return r.db.WithContext(ctx).Create(rental).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	var row models.Rental
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repositoryImpl) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Rental, error) {
	var row models.Rental
	err := r.db.WithContext(ctx).
		Where("payment_intent_id = ?", paymentIntentID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Rental, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Rental{}).Where("user_id = ?", userID)
	return r.paginate(query, limit, cursor)
}

func (r *repositoryImpl) ListByEquipmentOwner(ctx context.Context, ownerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Rental, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Rental{}).
		Joins("JOIN equipment ON equipment.id = rentals.equipment_id").
		Where("equipment.owner_id = ?", ownerID)
	return r.paginate(query, limit, cursor)
}

func (r *repositoryImpl) paginate(query *gorm.DB, limit int, cursor *pagination.Cursor) ([]models.Rental, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)
	if cursor != nil {
		query = query.Where("(rentals.created_at, rentals.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Rental
	if err := query.Order("rentals.created_at DESC, rentals.id DESC").Limit(buffered).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

// UpdateStatusFrom performs a guarded status update. It returns false when the
// row was no longer in the expected source status, which means a concurrent
// transition got there first.
func (r *repositoryImpl) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to enums.RentalStatus, extra map[string]any) (bool, error) {
	updates := map[string]any{"status": to}
	for column, value := range extra {
		updates[column] = value
	}
	result := r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) SetPaymentIntent(ctx context.Context, id uuid.UUID, paymentIntentID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Where("id = ?", id).
		UpdateColumn("payment_intent_id", paymentIntentID).Error
}

func (r *repositoryImpl) FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]models.Rental, error) {
	var rows []models.Rental
	query := r.db.WithContext(ctx).
		Where("status = ?", enums.RentalStatusPending).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
