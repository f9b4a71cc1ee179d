package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lonoleggi/lonoleggi-backend/pkg/db/models"
	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
	paginationpkg "github.com/lonoleggi/lonoleggi-backend/pkg/pagination"
)

type fakeRepository struct {
	created       []*models.Notification
	createErr     error
	listFn        func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error)
	markReadFn    func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	markAllReadFn func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, userID, notificationID, now)
	}
	return notificationMarkResult{}, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, userID, now)
	}
	return 0, nil
}

func (f *fakeRepository) DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newServiceWithRepo(repo Repository) Service {
	svc, _ := NewService(repo)
	return svc
}

func TestService_ListNotifications(t *testing.T) {
	first := models.Notification{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Hour)}
	second := models.Notification{ID: uuid.New(), CreatedAt: time.Now()}

	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
			if params.Limit != 1 {
				t.Fatalf("expected limit 1 got %d", params.Limit)
			}
			return []models.Notification{first}, &paginationpkg.Cursor{CreatedAt: second.CreatedAt, ID: second.ID}, nil
		},
	}
	svc := newServiceWithRepo(repo)

	result, err := svc.List(context.Background(), ListParams{UserID: uuid.New(), Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 notification got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatal("expected next cursor")
	}
	decoded, err := paginationpkg.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("cursor should parse: %v", err)
	}
	if decoded.ID != second.ID {
		t.Fatalf("expected cursor id %s got %s", second.ID, decoded.ID)
	}
}

func TestService_ListRejectsBadCursor(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	_, err := svc.List(context.Background(), ListParams{UserID: uuid.New(), Cursor: "bad"})
	if err == nil {
		t.Fatal("expected error for invalid cursor")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestService_MarkRead(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{Updated: true, Found: true}, nil
		},
	}
	svc := newServiceWithRepo(repo)
	if err := svc.MarkRead(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_MarkReadNotFound(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{}, nil
		},
	}
	svc := newServiceWithRepo(repo)
	err := svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error got %v", err)
	}
}

func TestService_MarkAllRead(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
			return 3, nil
		},
	}
	svc := newServiceWithRepo(repo)
	count, err := svc.MarkAllRead(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 updated got %d", count)
	}
}

func TestService_MarkAllReadWrapsRepoError(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
			return 0, errors.New("boom")
		},
	}
	svc := newServiceWithRepo(repo)
	_, err := svc.MarkAllRead(context.Background(), uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error got %v", err)
	}
}

func TestEmitter_PaymentSucceededNotifiesBothParties(t *testing.T) {
	repo := &fakeRepository{}
	emitter, err := NewEmitter(repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rc := RentalContext{
		RentalID:      uuid.New(),
		EquipmentID:   uuid.New(),
		EquipmentName: "Mini excavator",
		RenterID:      uuid.New(),
		OwnerID:       uuid.New(),
	}
	if err := emitter.PaymentSucceeded(context.Background(), nil, rc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 2 {
		t.Fatalf("expected 2 notifications got %d", len(repo.created))
	}
	if repo.created[0].UserID != rc.RenterID || repo.created[1].UserID != rc.OwnerID {
		t.Fatal("expected renter then owner notification")
	}
	for _, row := range repo.created {
		if row.Type != enums.NotificationTypePaymentSucceeded {
			t.Fatalf("unexpected type %s", row.Type)
		}
		if row.Metadata["rental_id"] != rc.RentalID.String() {
			t.Fatalf("expected rental metadata got %v", row.Metadata)
		}
	}
}

func TestEmitter_RentalRequestedTargetsOwner(t *testing.T) {
	repo := &fakeRepository{}
	emitter, err := NewEmitter(repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rc := RentalContext{
		RentalID:      uuid.New(),
		EquipmentID:   uuid.New(),
		EquipmentName: "Scaffolding set",
		RenterID:      uuid.New(),
		OwnerID:       uuid.New(),
	}
	if err := emitter.RentalRequested(context.Background(), nil, rc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 notification got %d", len(repo.created))
	}
	if repo.created[0].UserID != rc.OwnerID {
		t.Fatal("expected owner to receive the notification")
	}
	if repo.created[0].Type != enums.NotificationTypeNewRental {
		t.Fatalf("unexpected type %s", repo.created[0].Type)
	}
}
