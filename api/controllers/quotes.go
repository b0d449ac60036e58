package controllers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/relayhq/relaypay-backend/api/responses"
	"github.com/relayhq/relaypay-backend/api/validators"
	"github.com/relayhq/relaypay-backend/internal/payroll"
	"github.com/relayhq/relaypay-backend/pkg/chains"
	pkgerrors "github.com/relayhq/relaypay-backend/pkg/errors"
	"github.com/relayhq/relaypay-backend/pkg/logger"
	"github.com/relayhq/relaypay-backend/pkg/relay"
)

type tokenLister interface {
	SupportedTokens(ctx context.Context, chainID int64) ([]relay.Token, error)
}

type quoteEstimateRequest struct {
	OriginChainID      int64           `json:"origin_chain_id" validate:"required"`
	DestinationChainID int64           `json:"destination_chain_id" validate:"required"`
	TokenSymbol        string          `json:"token_symbol" validate:"required"`
	Amount             decimal.Decimal `json:"amount" validate:"required"`
	FromAddress        string          `json:"from_address,omitempty"`
	ToAddress          string          `json:"to_address,omitempty"`
}

// QuoteEstimate prices a hypothetical payout leg without executing anything.
// Provider failures degrade to the flat fallback fee, same as a live run.
func QuoteEstimate(resolver *payroll.QuoteResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote resolver unavailable"))
			return
		}

		var payload quoteEstimateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !payload.Amount.IsPositive() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive"))
			return
		}

		origin, ok := chains.ByID(payload.OriginChainID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unsupported origin chain").
				WithDetails(map[string]any{"chain_id": payload.OriginChainID}))
			return
		}
		destination, ok := chains.ByID(payload.DestinationChainID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unsupported destination chain").
				WithDetails(map[string]any{"chain_id": payload.DestinationChainID}))
			return
		}
		tokenAddr, ok := chains.TokenAddress(payload.TokenSymbol, destination.ID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "token is not available on chain").
				WithDetails(map[string]any{"token": payload.TokenSymbol, "chain": destination.Name}))
			return
		}

		source := payroll.Source{
			ChainID:     origin.ID,
			TokenSymbol: "USDC",
			TokenAddr:   chains.USDCAddress(origin.ID),
			Wallet:      payload.FromAddress,
		}
		leg := payroll.Leg{
			TokenSymbol:  payload.TokenSymbol,
			TokenAddress: tokenAddr,
			ChainID:      destination.ID,
			ChainName:    destination.Name,
			ToAddress:    payload.ToAddress,
			Amount:       payload.Amount.Round(2),
		}

		quote := resolver.Resolve(r.Context(), source, leg)
		responses.WriteSuccess(w, quote)
	}
}

// TokenList proxies the provider's supported token list for one chain.
func TokenList(client tokenLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "relay client unavailable"))
			return
		}

		chainID, err := validators.ParseQueryInt64(r, "chainId", chains.EthereumID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tokens, err := client.SupportedTokens(r.Context(), chainID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, tokens)
	}
}

type chainListing struct {
	chains.Chain
	Tokens []chains.Token `json:"tokens"`
}

// ChainList serves the static chain reference set with per-chain tokens.
func ChainList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listings := make([]chainListing, 0, len(chains.Chains))
		for _, chain := range chains.Chains {
			listings = append(listings, chainListing{
				Chain:  chain,
				Tokens: chains.TokensForChain(chain.ID),
			})
		}
		responses.WriteSuccess(w, listings)
	}
}
