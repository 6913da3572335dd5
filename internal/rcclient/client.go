// Package rcclient is the participant side of the coordinator HTTP API, used
// by the demo agent and provider.
package rcclient

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
	"time"

	"reservation-coordinator/internal/coordinator"
	"reservation-coordinator/internal/game"
)

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	Status int
	Code   string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("failed with status %d: %s", e.Status, e.Code)
	}
	return fmt.Sprintf("failed with status %d", e.Status)
}

// IsNotFound reports whether err is a 404, which after a game reset means
// the caller has to register again.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

type Client struct {
	base  string
	inner *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), inner: &http.Client{Timeout: timeout}}
}

func (c *Client) RegisterAgent(ctx context.Context, name string) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/agents", map[string]any{"name": name}, &out)
	return out.ID, err
}

func (c *Client) PingAgent(ctx context.Context, id, seq int64) (coordinator.AgentPing, error) {
	var out coordinator.AgentPing
	path := "/api/agents/" + strconv.FormatInt(id, 10) + "/ping?" + url.Values{"seq": {strconv.FormatInt(seq, 10)}}.Encode()
	err := c.do(ctx, http.MethodPut, path, nil, &out)
	return out, err
}

func (c *Client) Ready(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, "/api/agents/"+strconv.FormatInt(id, 10)+"/ready", nil, nil)
}

func (c *Client) Customers(ctx context.Context) ([]game.Customer, error) {
	var out []game.Customer
	err := c.do(ctx, http.MethodGet, "/api/customers", nil, &out)
	return out, err
}

func (c *Client) Routes(ctx context.Context) (map[string][]game.LegOffer, error) {
	var out map[string][]game.LegOffer
	err := c.do(ctx, http.MethodGet, "/api/routes", nil, &out)
	return out, err
}

func (c *Client) SubmitReservation(ctx context.Context, agentID int64, customerID int, legs []game.Leg) (game.Reservation, error) {
	var out game.Reservation
	body := map[string]any{"agent_id": agentID, "customer_id": customerID, "legs": legs}
	err := c.do(ctx, http.MethodPost, "/api/reservations", body, &out)
	return out, err
}

func (c *Client) RegisterProvider(ctx context.Context, name, uri string) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/providers", map[string]any{"name": name, "uri": uri}, &out)
	return out.ID, err
}

func (c *Client) PingProvider(ctx context.Context, id int64) (coordinator.ProviderPing, error) {
	var out coordinator.ProviderPing
	err := c.do(ctx, http.MethodPut, "/api/providers/"+strconv.FormatInt(id, 10)+"/ping", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.inner.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &e)
		return &StatusError{Status: resp.StatusCode, Code: e.Error}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
