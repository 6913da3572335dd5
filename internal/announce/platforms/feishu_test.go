package platforms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFeishuAdapterPayloadAndHeader(t *testing.T) {
	var got map[string]any
	var headerSig, authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headerSig = r.Header.Get("X-Lark-Signature")
		authHeader = r.Header.Get("Authorization")
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	adapter := NewFeishuAdapter(NewHTTPClient(time.Second))
	err := adapter.Send(context.Background(), srv.URL, "sig:sig-1;bearer:token-1", Message{
		Title:       "t",
		Description: "summary",
		Fields:      []Field{{Name: "Reason", Value: "timeout", Inline: true}},
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if headerSig != "sig-1" {
		t.Fatalf("unexpected signature header: %s", headerSig)
	}
	if authHeader != "Bearer token-1" {
		t.Fatalf("unexpected auth header: %s", authHeader)
	}
	if got["msg_type"] != "interactive" {
		t.Fatalf("unexpected msg_type: %v", got["msg_type"])
	}
	card, _ := got["card"].(map[string]any)
	elements, _ := card["elements"].([]any)
	if len(elements) != 2 {
		t.Fatalf("unexpected elements: %#v", card["elements"])
	}
	first, _ := elements[0].(map[string]any)
	if first["text"] != "summary" {
		t.Fatalf("unexpected first element: %#v", first)
	}
}

func TestParseFeishuSecret(t *testing.T) {
	cases := []struct {
		in, sig, bearer string
	}{
		{"", "", ""},
		{"plain", "plain", ""},
		{"sig:a;bearer:b", "a", "b"},
		{" bearer:b ", "", "b"},
	}
	for _, tc := range cases {
		sig, bearer := parseFeishuSecret(tc.in)
		if sig != tc.sig || bearer != tc.bearer {
			t.Fatalf("parseFeishuSecret(%q) = %q,%q want %q,%q", tc.in, sig, bearer, tc.sig, tc.bearer)
		}
	}
}
