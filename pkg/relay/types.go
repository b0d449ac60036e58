package relay

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// QuoteRequest carries one allocation leg to the quote endpoint. Amount is in
// the asset's smallest units, serialized as a string to avoid precision loss.
type QuoteRequest struct {
	OriginChainID       int64  `json:"originChainId"`
	DestinationChainID  int64  `json:"destinationChainId"`
	OriginCurrency      string `json:"originCurrency"`
	DestinationCurrency string `json:"destinationCurrency"`
	Amount              string `json:"amount"`
	User                string `json:"user"`
	Recipient           string `json:"recipient"`
	TradeType           string `json:"tradeType"`
}

// CurrencyInfo identifies the asset a fee or amount is denominated in.
type CurrencyInfo struct {
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

// Fee is one component of a quote's fee breakdown, in native units plus a
// USD-equivalent string.
type Fee struct {
	Amount    string       `json:"amount"`
	AmountUSD string       `json:"amountUsd"`
	Currency  CurrencyInfo `json:"currency"`
}

// FeeBreakdown mirrors the provider's fee components.
type FeeBreakdown struct {
	Relayer    Fee `json:"relayer"`
	Gas        Fee `json:"gas"`
	RelayerGas Fee `json:"relayerGas"`
	App        Fee `json:"app"`
}

// StepItem is one executable item inside a step.
type StepItem struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Step is one entry in the quote's ordered execution plan.
type Step struct {
	ID          string     `json:"id"`
	Action      string     `json:"action"`
	Description string     `json:"description"`
	Items       []StepItem `json:"items"`
}

// CurrencyAmount pairs an amount with its denomination and USD equivalent.
type CurrencyAmount struct {
	Currency  CurrencyInfo `json:"currency"`
	Amount    string       `json:"amount"`
	AmountUSD string       `json:"amountUsd"`
}

// Impact reports the quote's total price impact.
type Impact struct {
	USD     string `json:"usd"`
	Percent string `json:"percent"`
}

// QuoteDetails carries input/output amounts and the effective rate.
type QuoteDetails struct {
	CurrencyIn  CurrencyAmount `json:"currencyIn"`
	CurrencyOut CurrencyAmount `json:"currencyOut"`
	TotalImpact Impact         `json:"totalImpact"`
	Rate        string         `json:"rate"`
}

// Quote is a priced execution plan for moving value between assets/chains.
type Quote struct {
	RequestID string       `json:"requestId"`
	Steps     []Step       `json:"steps"`
	Fees      FeeBreakdown `json:"fees"`
	Details   QuoteDetails `json:"details"`
}

// Status is the provider's view of a previously submitted request.
type Status struct {
	Status       string   `json:"status"`
	RequestID    string   `json:"requestId"`
	TxHashes     []string `json:"txHashes,omitempty"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
}

// Token describes an asset the provider can route to on a chain.
type Token struct {
	ChainID  int64  `json:"chainId"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
	LogoURI  string `json:"logoURI,omitempty"`
	Verified bool   `json:"verified"`
}

// Validate rejects structurally incomplete quotes at the boundary. Any
// missing or unparsable field is a provider failure, never a crash downstream.
func (q *Quote) Validate() error {
	if q == nil {
		return fmt.Errorf("quote is nil")
	}
	if strings.TrimSpace(q.RequestID) == "" {
		return fmt.Errorf("quote missing requestId")
	}
	if _, err := parseUSD(q.Fees.Relayer.AmountUSD, "fees.relayer"); err != nil {
		return err
	}
	if _, err := parseUSD(q.Fees.Gas.AmountUSD, "fees.gas"); err != nil {
		return err
	}
	if _, err := parseUSD(q.Details.CurrencyIn.AmountUSD, "details.currencyIn"); err != nil {
		return err
	}
	return nil
}

// FeeUSD sums the relayer and gas fee components in USD.
func (q *Quote) FeeUSD() (decimal.Decimal, error) {
	relayer, err := parseUSD(q.Fees.Relayer.AmountUSD, "fees.relayer")
	if err != nil {
		return decimal.Zero, err
	}
	gas, err := parseUSD(q.Fees.Gas.AmountUSD, "fees.gas")
	if err != nil {
		return decimal.Zero, err
	}
	return relayer.Add(gas), nil
}

// InputUSD returns the quoted input amount in USD.
func (q *Quote) InputUSD() (decimal.Decimal, error) {
	return parseUSD(q.Details.CurrencyIn.AmountUSD, "details.currencyIn")
}

func parseUSD(raw, field string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("quote missing %s.amountUsd", field)
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote %s.amountUsd %q: %w", field, raw, err)
	}
	return value, nil
}
