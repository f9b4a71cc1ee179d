package controllers

import (
	"net/http"
	"strings"

	"github.com/lonoleggi/lonoleggi-backend/api/responses"
	"github.com/lonoleggi/lonoleggi-backend/api/validators"
	"github.com/lonoleggi/lonoleggi-backend/internal/rentals"
	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
	"github.com/lonoleggi/lonoleggi-backend/pkg/logger"
)

const maxRentalPageSize = 100

// ListRentals returns the authenticated renter's bookings.
func ListRentals(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rentals service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := rentalListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListForUser(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ListOwnerRentals returns bookings against the authenticated owner's
// equipment.
func ListOwnerRentals(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rentals service unavailable"))
			return
		}

		ownerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := rentalListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListForOwner(r.Context(), ownerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetRental returns a single booking visible to the renter or the equipment
// owner.
func GetRental(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rentals service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rentalID, err := uuidURLParam(r, "rentalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rental, err := svc.Get(r.Context(), userID, rentalID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rental)
	}
}

// TransitionRental moves a booking to the given status on behalf of the
// acting user. The service enforces who may request which transition.
func TransitionRental(svc rentals.Service, next enums.RentalStatus, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rentals service unavailable"))
			return
		}

		actorID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rentalID, err := uuidURLParam(r, "rentalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rental, err := svc.Transition(r.Context(), actorID, rentalID, next)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rental)
	}
}

func rentalListParams(r *http.Request) (rentals.ListParams, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxRentalPageSize)
	if err != nil {
		return rentals.ListParams{}, err
	}
	return rentals.ListParams{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
