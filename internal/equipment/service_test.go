package equipment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lonoleggi/lonoleggi-backend/pkg/db/models"
	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
	"github.com/lonoleggi/lonoleggi-backend/pkg/pagination"
)

type fakeCatalogRepo struct {
	created  []*models.Equipment
	rows     map[uuid.UUID]*models.Equipment
	updates  map[string]any
	listFn   func(ctx context.Context, params ListParams) ([]models.Equipment, *pagination.Cursor, error)
	updateID uuid.UUID
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{rows: map[uuid.UUID]*models.Equipment{}}
}

func (f *fakeCatalogRepo) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeCatalogRepo) Create(ctx context.Context, equipment *models.Equipment) error {
	if equipment.ID == uuid.Nil {
		equipment.ID = uuid.New()
	}
	f.created = append(f.created, equipment)
	f.rows[equipment.ID] = equipment
	return nil
}

func (f *fakeCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (f *fakeCatalogRepo) List(ctx context.Context, params ListParams) ([]models.Equipment, *pagination.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeCatalogRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	f.updateID = id
	f.updates = updates
	if row, ok := f.rows[id]; ok {
		if status, found := updates["status"]; found {
			row.Status = status.(enums.EquipmentStatus)
		}
	}
	return nil
}

func (f *fakeCatalogRepo) HoldForRental(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}

func (f *fakeCatalogRepo) ReleaseHold(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}

func newCatalogService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateDefaultsToBulkAndAvailable(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := newCatalogService(t, repo)

	row, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Name:     "Scissor lift",
		Category: "lifts",
		PriceDay: decimal.NewFromInt(120),
	})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if row.TrackingType != enums.TrackingTypeBulk {
		t.Fatalf("expected bulk tracking, got %s", row.TrackingType)
	}
	if row.Status != enums.EquipmentStatusAvailable {
		t.Fatalf("expected available status, got %s", row.Status)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one persisted row, got %d", len(repo.created))
	}
}

func TestCreateRequiresSerialCodeForSerialTracking(t *testing.T) {
	svc := newCatalogService(t, newFakeCatalogRepo())

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Name:         "Excavator",
		Category:     "earthmoving",
		PriceDay:     decimal.NewFromInt(400),
		TrackingType: "serial",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc := newCatalogService(t, newFakeCatalogRepo())

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Name:     "Generator",
		Category: "power",
		PriceDay: decimal.NewFromInt(-5),
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetMapsMissingRowToNotFound(t *testing.T) {
	svc := newCatalogService(t, newFakeCatalogRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateRejectsForeignOwner(t *testing.T) {
	repo := newFakeCatalogRepo()
	owner := uuid.New()
	row := &models.Equipment{ID: uuid.New(), OwnerID: owner, Status: enums.EquipmentStatusAvailable}
	repo.rows[row.ID] = row
	svc := newCatalogService(t, repo)

	name := "Renamed"
	_, err := svc.Update(context.Background(), uuid.New(), row.ID, UpdateInput{Name: &name})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestSetStatusRefusesRentedTransitions(t *testing.T) {
	repo := newFakeCatalogRepo()
	owner := uuid.New()
	row := &models.Equipment{ID: uuid.New(), OwnerID: owner, Status: enums.EquipmentStatusAvailable}
	repo.rows[row.ID] = row
	svc := newCatalogService(t, repo)

	err := svc.SetStatus(context.Background(), owner, row.ID, enums.EquipmentStatusRented)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict setting rented, got %v", err)
	}

	row.Status = enums.EquipmentStatusRented
	err = svc.SetStatus(context.Background(), owner, row.ID, enums.EquipmentStatusRepair)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict while rented, got %v", err)
	}
}

func TestSetStatusMovesAvailableToRepair(t *testing.T) {
	repo := newFakeCatalogRepo()
	owner := uuid.New()
	row := &models.Equipment{ID: uuid.New(), OwnerID: owner, Status: enums.EquipmentStatusAvailable}
	repo.rows[row.ID] = row
	svc := newCatalogService(t, repo)

	if err := svc.SetStatus(context.Background(), owner, row.ID, enums.EquipmentStatusRepair); err != nil {
		t.Fatalf("set status returned error: %v", err)
	}
	if got := repo.updates["status"]; got != enums.EquipmentStatusRepair {
		t.Fatalf("unexpected status update: %v", got)
	}
}

func TestListAppliesAvailableOnlyFilter(t *testing.T) {
	repo := newFakeCatalogRepo()
	var captured ListParams
	repo.listFn = func(ctx context.Context, params ListParams) ([]models.Equipment, *pagination.Cursor, error) {
		captured = params
		return []models.Equipment{}, nil, nil
	}
	svc := newCatalogService(t, repo)

	if _, err := svc.List(context.Background(), ListQuery{AvailableOnly: true, Limit: 10}); err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if captured.Status == nil || *captured.Status != enums.EquipmentStatusAvailable {
		t.Fatalf("available-only filter not applied: %+v", captured.Status)
	}
}
