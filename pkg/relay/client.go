package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/relayhq/relaypay-backend/pkg/config"
	pkgerrors "github.com/relayhq/relaypay-backend/pkg/errors"
	"github.com/relayhq/relaypay-backend/pkg/logger"
)

const tradeTypeExactInput = "EXACT_INPUT"

var errLoggerRequired = errors.New("relay logger is required")

// Client talks to the cross-chain swap provider with centralized auth,
// logging, timeouts, and error mapping. Every failure surfaces as a
// DEPENDENCY_ERROR so callers can apply the fallback fee policy uniformly.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logger.Logger
}

// NewClient initializes the provider wrapper.
func NewClient(ctx context.Context, cfg config.RelayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("relay base url is required")
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		logger:     logg,
	}

	logg.Info(ctx, "relay client initialized")
	return c, nil
}

// GetQuote fetches a priced execution plan for one allocation leg.
func (c *Client) GetQuote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if req.TradeType == "" {
		req.TradeType = tradeTypeExactInput
	}

	c.log(ctx, "request", "get_quote", map[string]any{
		"origin_chain_id":      req.OriginChainID,
		"destination_chain_id": req.DestinationChainID,
		"amount":               req.Amount,
	})

	var quote Quote
	if err := c.do(ctx, http.MethodPost, "/quote", req, &quote); err != nil {
		c.log(ctx, "error", "get_quote", map[string]any{"error": err.Error()})
		return nil, err
	}
	if err := quote.Validate(); err != nil {
		c.log(ctx, "error", "get_quote", map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "relay quote malformed")
	}

	c.log(ctx, "response", "get_quote", map[string]any{
		"request_id": quote.RequestID,
		"steps":      len(quote.Steps),
	})
	return &quote, nil
}

// GetStatus polls the provider for the state of a submitted request.
func (c *Client) GetStatus(ctx context.Context, requestID string) (*Status, error) {
	if strings.TrimSpace(requestID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}

	c.log(ctx, "request", "get_status", map[string]any{"request_id": requestID})

	var status Status
	path := "/requests/v2/" + url.PathEscape(requestID)
	if err := c.do(ctx, http.MethodGet, path, nil, &status); err != nil {
		c.log(ctx, "error", "get_status", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "get_status", map[string]any{
		"request_id": status.RequestID,
		"status":     status.Status,
	})
	return &status, nil
}

// SupportedTokens lists the verified currencies the provider can route to on a chain.
func (c *Client) SupportedTokens(ctx context.Context, chainID int64) ([]Token, error) {
	c.log(ctx, "request", "supported_tokens", map[string]any{"chain_id": chainID})

	var payload struct {
		Currencies []Token `json:"currencies"`
	}
	path := "/currencies/v1?chainId=" + strconv.FormatInt(chainID, 10) + "&verified=true"
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		c.log(ctx, "error", "supported_tokens", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "supported_tokens", map[string]any{"count": len(payload.Currencies)})
	return payload.Currencies, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode relay request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build relay request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "relay request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("relay returned %d: %s", resp.StatusCode, providerMessage(resp.Body)),
			"relay request rejected",
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode relay response")
	}
	return nil
}

func providerMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return "unreadable body"
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("relay %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("relay %s", phase))
	}
}
