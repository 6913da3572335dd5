package rcclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reservation-coordinator/internal/config"
	"reservation-coordinator/internal/coordinator"
	"reservation-coordinator/internal/game"
	"reservation-coordinator/internal/stream"
	"reservation-coordinator/internal/testutil"
	httptransport "reservation-coordinator/internal/transport/http"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	events := stream.NewBuffer(50)
	coord, err := coordinator.New(testutil.FastGameConfig(), testutil.NewProviderStub("A-B"), coordinator.WithEvents(events))
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		coord.Run(ctx)
		close(done)
	}()
	srv := httptest.NewServer(httptransport.NewRouter(config.ServerConfig{StaticDir: t.TempDir() + "/none"}, coord, events, nil))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return New(srv.URL+"/", time.Second)
}

func TestClientBooksDirectLeg(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	if _, err := c.RegisterProvider(ctx, "p", "http://p.test/"); err != nil {
		t.Fatalf("register provider: %v", err)
	}
	id, err := c.RegisterAgent(ctx, "bot")
	if err != nil || id == 0 {
		t.Fatalf("register agent id=%d err=%v", id, err)
	}
	if err := c.Ready(ctx, id); err != nil {
		t.Fatalf("ready: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		ping, err := c.PingAgent(ctx, id, 0)
		if err != nil {
			t.Fatalf("ping: %v", err)
		}
		if ping.State == game.StateRunning {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("game never started, last ping %+v", ping)
		}
		time.Sleep(10 * time.Millisecond)
	}

	custs, err := c.Customers(ctx)
	if err != nil || len(custs) != 1 {
		t.Fatalf("customers=%v err=%v", custs, err)
	}
	routes, err := c.Routes(ctx)
	if err != nil || len(routes["A-B"]) == 0 {
		t.Fatalf("routes=%v err=%v", routes, err)
	}
	o := routes["A-B"][0]
	res, err := c.SubmitReservation(ctx, id, custs[0].ID, []game.Leg{{Pair: o.Pair, ProviderID: o.ProviderID, Cost: o.Cost}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Status != game.StatusTrying {
		t.Fatalf("status = %s", res.Status)
	}
}

func TestClientStatusErrors(t *testing.T) {
	c := newClient(t)
	_, err := c.PingAgent(context.Background(), 77, 0)
	if !IsNotFound(err) {
		t.Fatalf("ping unknown agent err = %v, want not found", err)
	}
	se, ok := err.(*StatusError)
	if !ok || se.Code != "agent_not_found" {
		t.Fatalf("err = %#v", err)
	}

	_, err = c.RegisterAgent(context.Background(), "")
	if se, ok := err.(*StatusError); !ok || se.Status != http.StatusBadRequest {
		t.Fatalf("empty name err = %v", err)
	}
}
