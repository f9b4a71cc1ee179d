package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lonoleggi/lonoleggi-backend/api/middleware"
	checkoutsvc "github.com/lonoleggi/lonoleggi-backend/internal/checkout"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
)

type testCheckoutService struct {
	startFn func(ctx context.Context, userID uuid.UUID, input checkoutsvc.StartInput) (*checkoutsvc.StartResult, error)
}

func (s *testCheckoutService) Start(ctx context.Context, userID uuid.UUID, input checkoutsvc.StartInput) (*checkoutsvc.StartResult, error) {
	if s.startFn != nil {
		return s.startFn(ctx, userID, input)
	}
	return &checkoutsvc.StartResult{}, nil
}

func checkoutBody(t *testing.T, equipmentID uuid.UUID) string {
	t.Helper()
	payload := map[string]any{
		"equipment_id":    equipmentID.String(),
		"start_date":      time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"end_date":        time.Date(2026, 9, 4, 9, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"expected_amount": 15000,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return string(raw)
}

func TestStartCheckoutSuccess(t *testing.T) {
	userID := uuid.New()
	equipmentID := uuid.New()
	rentalID := uuid.New()

	svc := &testCheckoutService{
		startFn: func(ctx context.Context, uid uuid.UUID, input checkoutsvc.StartInput) (*checkoutsvc.StartResult, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			if input.EquipmentID != equipmentID {
				t.Fatalf("unexpected equipment %s", input.EquipmentID)
			}
			if input.ExpectedAmount != 15000 {
				t.Fatalf("unexpected amount %d", input.ExpectedAmount)
			}
			return &checkoutsvc.StartResult{
				RentalID:     rentalID,
				ClientSecret: "pi_secret",
				AmountMinor:  15000,
				Currency:     "eur",
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/payment-intent", strings.NewReader(checkoutBody(t, equipmentID)))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	StartCheckout(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data checkoutsvc.StartResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.ClientSecret != "pi_secret" {
		t.Fatalf("client secret missing from response: %+v", envelope.Data)
	}
	if envelope.Data.RentalID != rentalID {
		t.Fatalf("unexpected rental id %s", envelope.Data.RentalID)
	}
}

func TestStartCheckoutRejectsMissingUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/payment-intent", strings.NewReader(checkoutBody(t, uuid.New())))
	resp := httptest.NewRecorder()
	StartCheckout(&testCheckoutService{}, testControllerLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestStartCheckoutRejectsInvalidBody(t *testing.T) {
	called := false
	svc := &testCheckoutService{
		startFn: func(ctx context.Context, uid uuid.UUID, input checkoutsvc.StartInput) (*checkoutsvc.StartResult, error) {
			called = true
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/payment-intent", strings.NewReader(`{"equipment_id":"not-a-uuid"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	StartCheckout(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if called {
		t.Fatal("service should not run on invalid body")
	}
}

func TestStartCheckoutStaleQuoteConflict(t *testing.T) {
	svc := &testCheckoutService{
		startFn: func(ctx context.Context, uid uuid.UUID, input checkoutsvc.StartInput) (*checkoutsvc.StartResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "price changed, refresh the quote")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/payment-intent", strings.NewReader(checkoutBody(t, uuid.New())))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	StartCheckout(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}
