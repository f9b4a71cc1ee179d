package pricing

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lonoleggi/lonoleggi-backend/pkg/db/models"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
)

const hoursPerDay = 24

// Quote is the server-computed price for a rental period.
type Quote struct {
	Days        int             `json:"days"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	AmountMinor int64           `json:"amount_minor"`
	Currency    string          `json:"currency"`
}

// ForPeriod prices a rental of the given equipment between start and end.
// Duration is billed in whole days: any started day counts as a full day.
func ForPeriod(equipment *models.Equipment, start, end time.Time, currency string) (*Quote, error) {
	if equipment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "equipment required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start and end dates required")
	}
	if !end.After(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date must be after start date")
	}
	if equipment.PriceDay.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "daily price must not be negative")
	}

	days := BillableDays(start, end)
	total := equipment.PriceDay.Mul(decimal.NewFromInt(int64(days)))

	return &Quote{
		Days:        days,
		TotalPrice:  total,
		AmountMinor: MinorUnits(total),
		Currency:    normalizeCurrency(currency),
	}, nil
}

// BillableDays returns the whole-day count between two instants, rounding
// any partial day up.
func BillableDays(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	days := int(math.Ceil(hours / hoursPerDay))
	if days < 1 {
		days = 1
	}
	return days
}

// MinorUnits converts a decimal amount into integer minor units (cents).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// VerifyClientAmount rejects checkouts where the client-displayed amount has
// drifted from the server quote, e.g. a stale price.
func VerifyClientAmount(quote *Quote, clientAmountMinor int64) error {
	if quote == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "quote required")
	}
	if clientAmountMinor != quote.AmountMinor {
		return pkgerrors.New(pkgerrors.CodeConflict, "price has changed, refresh and try again").
			WithDetails(map[string]any{
				"expected_amount": quote.AmountMinor,
				"client_amount":   clientAmountMinor,
			})
	}
	return nil
}

func normalizeCurrency(currency string) string {
	c := strings.TrimSpace(strings.ToLower(currency))
	if c == "" {
		return "eur"
	}
	return c
}
