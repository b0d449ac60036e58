package payroll

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SplitEqually divides total across the recipients in input order. Every
// recipient except the last receives the per-head share truncated to two
// decimal places; the last recipient absorbs the residual so the shares sum
// exactly to total. Zero recipients returns an empty map.
func SplitEqually(total decimal.Decimal, recipients []uuid.UUID) map[uuid.UUID]decimal.Decimal {
	shares := make(map[uuid.UUID]decimal.Decimal, len(recipients))
	if len(recipients) == 0 {
		return shares
	}

	perHead := total.Div(decimal.NewFromInt(int64(len(recipients)))).Truncate(2)

	allocated := decimal.Zero
	for _, id := range recipients[:len(recipients)-1] {
		shares[id] = perHead
		allocated = allocated.Add(perHead)
	}
	shares[recipients[len(recipients)-1]] = total.Sub(allocated)
	return shares
}
