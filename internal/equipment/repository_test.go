package equipment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lonoleggi/lonoleggi-backend/pkg/db/models"
	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
)

func setupEquipmentTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:equipment_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS equipment (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  price_hour NUMERIC NOT NULL DEFAULT 0,
  price_day NUMERIC NOT NULL DEFAULT 0,
  price_week NUMERIC NOT NULL DEFAULT 0,
  price_month NUMERIC NOT NULL DEFAULT 0,
  tracking_type TEXT NOT NULL DEFAULT 'bulk',
  quantity INTEGER,
  serial_code TEXT,
  status TEXT NOT NULL DEFAULT 'available',
  images TEXT,
  features TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedEquipment(t *testing.T, db *gorm.DB, status enums.EquipmentStatus) *models.Equipment {
	t.Helper()
	row := &models.Equipment{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Name:      "Excavator",
		Category:  "heavy",
		PriceDay:  decimal.NewFromInt(120),
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestHoldForRentalWinsOnce(t *testing.T) {
	db := setupEquipmentTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	row := seedEquipment(t, db, enums.EquipmentStatusAvailable)

	held, err := repo.HoldForRental(ctx, row.ID)
	require.NoError(t, err)
	require.True(t, held, "first hold should win")

	held, err = repo.HoldForRental(ctx, row.ID)
	require.NoError(t, err)
	require.False(t, held, "second hold must lose the race")

	var stored models.Equipment
	require.NoError(t, db.First(&stored, "id = ?", row.ID).Error)
	require.Equal(t, enums.EquipmentStatusRented, stored.Status)
}

func TestHoldForRentalSkipsRepairItems(t *testing.T) {
	db := setupEquipmentTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	row := seedEquipment(t, db, enums.EquipmentStatusRepair)

	held, err := repo.HoldForRental(ctx, row.ID)
	require.NoError(t, err)
	require.False(t, held)

	var stored models.Equipment
	require.NoError(t, db.First(&stored, "id = ?", row.ID).Error)
	require.Equal(t, enums.EquipmentStatusRepair, stored.Status)
}

func TestReleaseHold(t *testing.T) {
	db := setupEquipmentTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	row := seedEquipment(t, db, enums.EquipmentStatusRented)

	released, err := repo.ReleaseHold(ctx, row.ID)
	require.NoError(t, err)
	require.True(t, released)

	var stored models.Equipment
	require.NoError(t, db.First(&stored, "id = ?", row.ID).Error)
	require.Equal(t, enums.EquipmentStatusAvailable, stored.Status)

	// releasing twice is a no-op
	released, err = repo.ReleaseHold(ctx, row.ID)
	require.NoError(t, err)
	require.False(t, released)
}

func TestReleaseHoldLeavesRepairAlone(t *testing.T) {
	db := setupEquipmentTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	row := seedEquipment(t, db, enums.EquipmentStatusRepair)

	released, err := repo.ReleaseHold(ctx, row.ID)
	require.NoError(t, err)
	require.False(t, released)

	var stored models.Equipment
	require.NoError(t, db.First(&stored, "id = ?", row.ID).Error)
	require.Equal(t, enums.EquipmentStatusRepair, stored.Status)
}

func TestListFiltersAndPaginates(t *testing.T) {
	db := setupEquipmentTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		row := &models.Equipment{
			ID:        uuid.New(),
			OwnerID:   owner,
			Name:      "Drill",
			Category:  "tools",
			PriceDay:  decimal.NewFromInt(15),
			Status:    enums.EquipmentStatusAvailable,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(row).Error)
	}
	other := seedEquipment(t, db, enums.EquipmentStatusAvailable)

	available := enums.EquipmentStatusAvailable
	rows, next, err := repo.List(ctx, ListParams{
		OwnerID:  &owner,
		Category: "tools",
		Status:   &available,
		Limit:    2,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, next, "expected another page")
	for _, row := range rows {
		require.Equal(t, owner, row.OwnerID)
		require.NotEqual(t, other.ID, row.ID)
	}

	rows, next, err = repo.List(ctx, ListParams{
		OwnerID: &owner,
		Limit:   2,
		Cursor:  next,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Nil(t, next)
}
