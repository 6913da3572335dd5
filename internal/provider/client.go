// Package provider speaks the outbound provider protocol: inventory reset and
// replenishment, and the try/confirm/cancel calls for single legs.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"

	"reservation-coordinator/api/schema"
	"reservation-coordinator/internal/game"
)

// LegRequest is the body of try, confirm and cancel calls.
type LegRequest struct {
	ReservationID string          `json:"reservation_id"`
	Leg           string          `json:"leg"`
	Cost          decimal.Decimal `json:"cost"`
}

type offerWire struct {
	Pair string          `json:"pair"`
	Cost decimal.Decimal `json:"cost"`
}

type HTTPClient struct {
	inner  *http.Client
	offers *jsonschema.Schema
}

// NewHTTPClient builds a client whose per-request deadline falls back to
// timeout when the caller's context has none.
func NewHTTPClient(timeout time.Duration) (*HTTPClient, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	offers, err := compileOffers()
	if err != nil {
		return nil, err
	}
	return &HTTPClient{inner: &http.Client{Timeout: timeout}, offers: offers}, nil
}

func compileOffers() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schema.ProviderV1Name, strings.NewReader(schema.ProviderV1)); err != nil {
		return nil, fmt.Errorf("add provider schema: %w", err)
	}
	s, err := compiler.Compile(schema.ProviderV1Name + "#/definitions/offers")
	if err != nil {
		return nil, fmt.Errorf("compile provider schema: %w", err)
	}
	return s, nil
}

func (c *HTTPClient) Reset(ctx context.Context, uri string, n int) ([]game.LegOffer, error) {
	return c.fetchOffers(ctx, uri, "reset", n)
}

func (c *HTTPClient) Add(ctx context.Context, uri string, n int) ([]game.LegOffer, error) {
	return c.fetchOffers(ctx, uri, "add", n)
}

func (c *HTTPClient) Try(ctx context.Context, uri string, req LegRequest) error {
	return c.legCall(ctx, uri, "try", req)
}

func (c *HTTPClient) Confirm(ctx context.Context, uri string, req LegRequest) error {
	return c.legCall(ctx, uri, "confirm", req)
}

func (c *HTTPClient) Cancel(ctx context.Context, uri string, req LegRequest) error {
	return c.legCall(ctx, uri, "cancel", req)
}

func (c *HTTPClient) fetchOffers(ctx context.Context, uri, op string, n int) ([]game.LegOffer, error) {
	endpoint, err := resolve(uri, op, url.Values{"n": {strconv.Itoa(n)}})
	if err != nil {
		return nil, err
	}
	_, body, err := c.sendJSON(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", op, err)
	}
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("provider %s: decode: %w", op, err)
	}
	if err := c.offers.Validate(raw); err != nil {
		return nil, fmt.Errorf("provider %s: invalid offers: %w", op, err)
	}
	var wire []offerWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("provider %s: decode: %w", op, err)
	}
	out := make([]game.LegOffer, 0, len(wire))
	for _, w := range wire {
		out = append(out, game.LegOffer{Pair: w.Pair, Cost: w.Cost})
	}
	return out, nil
}

func (c *HTTPClient) legCall(ctx context.Context, uri, op string, req LegRequest) error {
	endpoint, err := resolve(uri, op, nil)
	if err != nil {
		return err
	}
	if _, _, err := c.sendJSON(ctx, endpoint, req); err != nil {
		return fmt.Errorf("provider %s %s: %w", op, req.Leg, err)
	}
	return nil
}

func resolve(uri, op string, q url.Values) (string, error) {
	base, err := url.Parse(uri)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("provider uri %q: invalid", uri)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ref := &url.URL{Path: op}
	if len(q) > 0 {
		ref.RawQuery = q.Encode()
	}
	return base.ResolveReference(ref).String(), nil
}

func (c *HTTPClient) sendJSON(ctx context.Context, endpoint string, body any) (int, []byte, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.inner.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	bodyRaw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, nil, readErr
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, bodyRaw, nil
	}
	return resp.StatusCode, bodyRaw, fmt.Errorf("failed with status %d", resp.StatusCode)
}
