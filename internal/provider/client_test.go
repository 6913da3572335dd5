package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestResetDecodesOffers(t *testing.T) {
	var gotPath, gotN string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotN = r.URL.Query().Get("n")
		_, _ = w.Write([]byte(`[{"pair":"A-B","cost":12.5},{"pair":"c,d","cost":3}]`))
	}))
	defer srv.Close()

	offers, err := newTestClient(t).Reset(context.Background(), srv.URL+"/prov", 2)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if gotPath != "/prov/reset" || gotN != "2" {
		t.Fatalf("request = %s?n=%s, want /prov/reset?n=2", gotPath, gotN)
	}
	if len(offers) != 2 {
		t.Fatalf("offers = %d, want 2", len(offers))
	}
	if !offers[0].Cost.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("cost = %s, want 12.5", offers[0].Cost)
	}
	if offers[1].Pair != "c,d" {
		t.Fatalf("pair = %s, want raw c,d", offers[1].Pair)
	}
}

func TestAddRejectsMalformedOffers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"pair":"A-B","cost":"cheap"}]`))
	}))
	defer srv.Close()

	if _, err := newTestClient(t).Add(context.Background(), srv.URL+"/", 1); err == nil {
		t.Fatalf("expected schema error")
	}
}

func TestLegCallsPostBody(t *testing.T) {
	var got LegRequest
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	req := LegRequest{ReservationID: "r1", Leg: "A-B", Cost: decimal.NewFromInt(7)}
	if err := newTestClient(t).Confirm(context.Background(), srv.URL+"/", req); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if gotPath != "/confirm" {
		t.Fatalf("path = %s, want /confirm", gotPath)
	}
	if got.ReservationID != "r1" || got.Leg != "A-B" || !got.Cost.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("body = %+v", got)
	}
}

func TestTryNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	err := newTestClient(t).Try(context.Background(), srv.URL, LegRequest{ReservationID: "r1", Leg: "A-B"})
	if err == nil {
		t.Fatalf("expected error on 409")
	}
}

func TestTryHonoursContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := newTestClient(t).Cancel(ctx, srv.URL, LegRequest{ReservationID: "r1", Leg: "A-B"}); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestResolveRejectsRelativeURI(t *testing.T) {
	if _, err := resolve("not a uri", "try", nil); err == nil {
		t.Fatalf("expected error")
	}
}
