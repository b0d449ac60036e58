package relay

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const usdcDecimals = 6

// BuildSameChainQuote synthesizes a zero-fee quote for a same-asset,
// same-chain transfer. No conversion is needed so no provider call is made.
func BuildSameChainQuote(req QuoteRequest) *Quote {
	amountUSD := "0"
	if amount, err := decimal.NewFromString(req.Amount); err == nil {
		amountUSD = amount.Shift(-usdcDecimals).StringFixed(2)
	}

	usdc := CurrencyInfo{Symbol: "USDC", Decimals: usdcDecimals}
	native := CurrencyInfo{Symbol: "ETH", Decimals: 18}

	return &Quote{
		RequestID: "local-" + uuid.NewString(),
		Steps: []Step{
			{
				ID:          "transfer",
				Action:      "transfer",
				Description: "Transfer USDC",
				Items:       []StepItem{{Status: "incomplete", Data: json.RawMessage(`{}`)}},
			},
		},
		Fees: FeeBreakdown{
			Relayer:    Fee{Amount: "0", AmountUSD: "0", Currency: usdc},
			Gas:        Fee{Amount: "0", AmountUSD: "0", Currency: native},
			RelayerGas: Fee{Amount: "0", AmountUSD: "0", Currency: native},
			App:        Fee{Amount: "0", AmountUSD: "0", Currency: usdc},
		},
		Details: QuoteDetails{
			CurrencyIn:  CurrencyAmount{Currency: usdc, Amount: req.Amount, AmountUSD: amountUSD},
			CurrencyOut: CurrencyAmount{Currency: usdc, Amount: req.Amount, AmountUSD: amountUSD},
			TotalImpact: Impact{USD: "0", Percent: "0"},
			Rate:        "1",
		},
	}
}
