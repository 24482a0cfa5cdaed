// Package quote fetches simulated execution prices from the Jupiter v6
// quote API. The client performs no retries; a failed or timed-out call
// surfaces as an UnavailableError and the caller decides what to do.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papertrade/market"
)

// DefaultBaseURL is the public Jupiter v6 quote endpoint.
const DefaultBaseURL = "https://quote-api.jup.ag/v6"

// DefaultTimeout bounds every quote call. A slow quote is an unavailable
// quote; the engine must never block a position lock on a hung request.
const DefaultTimeout = 10 * time.Second

// DefaultSlippageBps is the slippage tolerance sent with each quote.
const DefaultSlippageBps = 50

// UnavailableError wraps any failure to obtain a quote: transport errors,
// timeouts, non-200 responses, or a malformed body.
type UnavailableError struct {
	Mint string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("quote unavailable for %s: %v", e.Mint, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err is (or wraps) a quote failure.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

// Client is a Jupiter v6 quote API client.
type Client struct {
	baseURL     string
	slippageBps int
	httpClient  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different quote endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout bounds each quote request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithSlippageBps sets the slippage tolerance in basis points.
func WithSlippageBps(bps int) Option {
	return func(c *Client) { c.slippageBps = bps }
}

// NewClient creates a Jupiter quote client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		slippageBps: DefaultSlippageBps,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SlippageBps returns the slippage tolerance the client sends with quotes.
func (c *Client) SlippageBps() int { return c.slippageBps }

// quoteResponse is the subset of the Jupiter response the engine needs.
type quoteResponse struct {
	InAmount  string `json:"inAmount"`
	OutAmount string `json:"outAmount"`
}

// Swap returns how much of the opposite asset `amount` converts to right
// now. Buy side: amount is SOL in, the result is tokens out. Sell side:
// amount is tokens in, the result is SOL out.
func (c *Client) Swap(ctx context.Context, inst market.Instrument, side market.Side, amount decimal.Decimal) (decimal.Decimal, error) {
	in, out := market.SOL, inst
	if side == market.Sell {
		in, out = inst, market.SOL
	}

	units, err := in.ToBaseUnits(amount)
	if err != nil {
		return decimal.Zero, &UnavailableError{Mint: inst.Mint, Err: err}
	}
	if units <= 0 {
		return decimal.Zero, &UnavailableError{Mint: inst.Mint, Err: fmt.Errorf("amount %s below precision", amount)}
	}

	params := url.Values{}
	params.Set("inputMint", in.Mint)
	params.Set("outputMint", out.Mint)
	params.Set("amount", strconv.FormatInt(units, 10))
	params.Set("slippageBps", strconv.Itoa(c.slippageBps))

	apiURL := fmt.Sprintf("%s/quote?%s", c.baseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return decimal.Zero, &UnavailableError{Mint: inst.Mint, Err: err}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return decimal.Zero, &UnavailableError{Mint: inst.Mint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Zero, &UnavailableError{
			Mint: inst.Mint,
			Err:  fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var qr quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return decimal.Zero, &UnavailableError{Mint: inst.Mint, Err: fmt.Errorf("decode response: %w", err)}
	}

	outUnits, err := strconv.ParseInt(qr.OutAmount, 10, 64)
	if err != nil {
		return decimal.Zero, &UnavailableError{Mint: inst.Mint, Err: fmt.Errorf("parse outAmount %q: %w", qr.OutAmount, err)}
	}
	if outUnits <= 0 {
		return decimal.Zero, &UnavailableError{Mint: inst.Mint, Err: fmt.Errorf("empty route, outAmount %q", qr.OutAmount)}
	}

	return out.FromBaseUnits(outUnits), nil
}

// MarkPrice returns a size-independent reference price for valuing an open
// position: the SOL obtainable for one token unit on the sell side.
func (c *Client) MarkPrice(ctx context.Context, inst market.Instrument) (decimal.Decimal, error) {
	one := decimal.New(1, 0)
	out, err := c.Swap(ctx, inst, market.Sell, one)
	if err != nil {
		return decimal.Zero, err
	}
	return out, nil
}
