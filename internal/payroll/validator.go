package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/relayhq/relaypay-backend/pkg/db/models"
	"github.com/relayhq/relaypay-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// ValidateAllocations checks an employee's declared percentage split. An
// empty set is valid and signals the system default allocation. A non-empty
// set is valid only when the percentages, rounded to two decimal places, sum
// to exactly 100.00. Out-of-range entries are rejected, never clamped.
func ValidateAllocations(allocations []models.TokenAllocation) error {
	if len(allocations) == 0 {
		return nil
	}

	sum := decimal.Zero
	for _, alloc := range allocations {
		if alloc.Percentage.IsNegative() {
			return errors.New(errors.CodeValidation, "allocation percentage cannot be negative").
				WithDetails(map[string]any{"token": alloc.TokenSymbol, "percentage": alloc.Percentage.String()})
		}
		if alloc.Percentage.GreaterThan(oneHundred) {
			return errors.New(errors.CodeValidation, "allocation percentage cannot exceed 100").
				WithDetails(map[string]any{"token": alloc.TokenSymbol, "percentage": alloc.Percentage.String()})
		}
		sum = sum.Add(alloc.Percentage)
	}

	if !sum.Round(2).Equal(oneHundred) {
		return errors.New(errors.CodeValidation, "allocation percentages must sum to 100").
			WithDetails(map[string]any{"got": sum.Round(2).String() + "%"})
	}
	return nil
}
