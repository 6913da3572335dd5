package main

import (
	"context"
	"math/rand"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"reservation-coordinator/internal/game"
	"reservation-coordinator/internal/provider"
)

func TestFleetServesValidOffers(t *testing.T) {
	f := newFleet([]string{"A", "B", "C"}, 50, 0, rand.New(rand.NewSource(1)))
	srv := httptest.NewServer(f.router())
	defer srv.Close()

	client, err := provider.NewHTTPClient(time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	offers, err := client.Reset(context.Background(), srv.URL, 12)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(offers) != 12 {
		t.Fatalf("offers = %d, want 12", len(offers))
	}
	for _, o := range offers {
		if _, err := game.ParsePair(o.Pair); err != nil {
			t.Fatalf("bad pair %q", o.Pair)
		}
		if o.Cost.LessThan(decimal.NewFromInt(1)) || o.Cost.GreaterThan(decimal.NewFromInt(51)) {
			t.Fatalf("cost %s out of range", o.Cost)
		}
	}
	more, err := client.Add(context.Background(), srv.URL, 1)
	if err != nil || len(more) != 1 {
		t.Fatalf("add = %v, %v", more, err)
	}
}

func TestFleetTryConfirmCancel(t *testing.T) {
	f := newFleet([]string{"A", "B"}, 10, 0, rand.New(rand.NewSource(1)))
	srv := httptest.NewServer(f.router())
	defer srv.Close()
	client, err := provider.NewHTTPClient(time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()
	req := provider.LegRequest{ReservationID: "r1", Leg: "A-B", Cost: decimal.NewFromInt(3)}

	if err := client.Try(ctx, srv.URL, req); err != nil {
		t.Fatalf("try: %v", err)
	}
	if len(f.held) != 1 {
		t.Fatalf("held = %d after try", len(f.held))
	}
	if err := client.Confirm(ctx, srv.URL, req); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(f.held) != 0 {
		t.Fatalf("held = %d after confirm", len(f.held))
	}
	if err := client.Cancel(ctx, srv.URL, req); err != nil {
		t.Fatalf("cancel of unknown leg should still succeed: %v", err)
	}
}

func TestFleetRefusesAtFullFailRate(t *testing.T) {
	f := newFleet([]string{"A", "B"}, 10, 1, rand.New(rand.NewSource(1)))
	srv := httptest.NewServer(f.router())
	defer srv.Close()
	client, err := provider.NewHTTPClient(time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	err = client.Try(context.Background(), srv.URL, provider.LegRequest{ReservationID: "r1", Leg: "A-B"})
	if err == nil {
		t.Fatal("try should be refused")
	}
}
