package controllers

import (
	"net/http"

	"github.com/lonoleggi/lonoleggi-backend/api/responses"
	"github.com/lonoleggi/lonoleggi-backend/api/validators"
	checkoutsvc "github.com/lonoleggi/lonoleggi-backend/internal/checkout"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
	"github.com/lonoleggi/lonoleggi-backend/pkg/logger"
)

// StartCheckout reserves the equipment with a pending rental and opens a
// payment intent for it. The client confirms the returned secret with Stripe.
func StartCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutsvc.StartInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Start(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
