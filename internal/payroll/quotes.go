package payroll

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relayhq/relaypay-backend/pkg/logger"
	"github.com/relayhq/relaypay-backend/pkg/metrics"
	"github.com/relayhq/relaypay-backend/pkg/relay"
)

const tenThousand = 10000

// QuoteClient is the slice of the relay client the resolver consumes.
type QuoteClient interface {
	GetQuote(ctx context.Context, req relay.QuoteRequest) (*relay.Quote, error)
}

// QuoteResolver decides, per leg, between a real provider quote, a synthetic
// same-asset quote, and the fallback fee policy when the provider fails.
type QuoteResolver struct {
	client         QuoteClient
	fallbackFeeBps decimal.Decimal
	logg           *logger.Logger
	metrics        *metrics.PayrollMetrics
}

// NewQuoteResolver wires a resolver. fallbackFeeBps is the flat rate assumed
// when the provider is unreachable or returns a malformed payload.
func NewQuoteResolver(client QuoteClient, fallbackFeeBps int64, logg *logger.Logger, m *metrics.PayrollMetrics) (*QuoteResolver, error) {
	if client == nil {
		return nil, fmt.Errorf("quote client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if fallbackFeeBps <= 0 {
		return nil, fmt.Errorf("fallback fee bps must be positive, got %d", fallbackFeeBps)
	}
	return &QuoteResolver{
		client:         client,
		fallbackFeeBps: decimal.NewFromInt(fallbackFeeBps),
		logg:           logg,
		metrics:        m,
	}, nil
}

// Resolve produces a fee for one leg. It never returns an error: a provider
// failure degrades fee accuracy via the fallback policy, not availability.
func (r *QuoteResolver) Resolve(ctx context.Context, source Source, leg Leg) ResolvedQuote {
	req := relay.QuoteRequest{
		OriginChainID:       source.ChainID,
		DestinationChainID:  leg.ChainID,
		OriginCurrency:      source.TokenAddr,
		DestinationCurrency: leg.TokenAddress,
		Amount:              smallestUnits(leg.Amount),
		User:                source.Wallet,
		Recipient:           leg.ToAddress,
	}

	// Same asset on the same network needs no conversion and no provider.
	if leg.TokenSymbol == source.TokenSymbol && leg.ChainID == source.ChainID {
		quote := relay.BuildSameChainQuote(req)
		return ResolvedQuote{QuoteID: quote.RequestID, FeeBps: decimal.Zero, FeeUSD: decimal.Zero}
	}

	quote, err := r.client.GetQuote(ctx, req)
	if err != nil {
		return r.fallback(ctx, leg, err)
	}

	feeUSD, err := quote.FeeUSD()
	if err != nil {
		return r.fallback(ctx, leg, err)
	}

	feeBps := decimal.Zero
	if leg.Amount.IsPositive() {
		feeBps = feeUSD.Div(leg.Amount).Mul(decimal.NewFromInt(tenThousand)).Round(2)
	}
	return ResolvedQuote{
		QuoteID: quote.RequestID,
		FeeBps:  feeBps,
		FeeUSD:  feeUSD.Round(2),
	}
}

func (r *QuoteResolver) fallback(ctx context.Context, leg Leg, cause error) ResolvedQuote {
	ctx = r.logg.WithEmployeeID(ctx, leg.EmployeeID.String())
	ctx = r.logg.WithFields(ctx, map[string]any{
		"token":   leg.TokenSymbol,
		"chain":   leg.ChainName,
		"fee_bps": r.fallbackFeeBps.String(),
		"cause":   cause.Error(),
	})
	r.logg.Warn(ctx, "quote provider unavailable, applying fallback fee")
	r.metrics.IncProviderFallback()

	return ResolvedQuote{
		QuoteID:  "fallback-" + uuid.NewString(),
		FeeBps:   r.fallbackFeeBps,
		FeeUSD:   leg.Amount.Mul(r.fallbackFeeBps).Div(decimal.NewFromInt(tenThousand)).Round(2),
		Fallback: true,
	}
}

// smallestUnits renders a USDC amount in 6-decimal base units for the wire.
func smallestUnits(amount decimal.Decimal) string {
	return amount.Shift(6).Truncate(0).String()
}
