package claimapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tonwork/jetton-engine/internal/config"
)

const ownerRaw = "0:1111111111111111111111111111111111111111111111111111111111111111"

func newTestClient() *Client {
	return NewClient(config.ClaimConfig{RequestTimeout: 5 * time.Second}, zap.NewNop())
}

func TestGetWalletClaim(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/wallet/"+ownerRaw {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"custom_payload": "te6payload",
				"state_init": "te6stateinit",
				"compressed_info": {
					"amount": "1000000000",
					"start_from": "1700000000",
					"expired_at": "1800000000"
				}
			}`))
		}))
		defer server.Close()

		record, err := newTestClient().GetWalletClaim(context.Background(), server.URL, ownerRaw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record == nil {
			t.Fatal("expected record")
		}
		if record.CustomPayload != "te6payload" {
			t.Errorf("custom payload = %q", record.CustomPayload)
		}
		if record.StateInit != "te6stateinit" {
			t.Errorf("state init = %q", record.StateInit)
		}
		if record.Amount.Int64() != 1_000_000_000 {
			t.Errorf("amount = %s", record.Amount)
		}
		if got := record.StartFrom.Unix(); got != 1700000000 {
			t.Errorf("start_from = %d", got)
		}
		if got := record.ExpiredAt.Unix(); got != 1800000000 {
			t.Errorf("expired_at = %d", got)
		}
	})

	t.Run("trailing slash in base url", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/wallet/"+ownerRaw {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			http.NotFound(w, r)
		}))
		defer server.Close()

		if _, err := newTestClient().GetWalletClaim(context.Background(), server.URL+"/", ownerRaw); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing record returns nil without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		record, err := newTestClient().GetWalletClaim(context.Background(), server.URL, ownerRaw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record != nil {
			t.Errorf("expected nil record, got %+v", record)
		}
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		if _, err := newTestClient().GetWalletClaim(context.Background(), server.URL, ownerRaw); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}))
		defer server.Close()

		if _, err := newTestClient().GetWalletClaim(context.Background(), server.URL, ownerRaw); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("bad amount", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"compressed_info": {"amount": "1.5", "start_from": "1", "expired_at": "2"}}`))
		}))
		defer server.Close()

		if _, err := newTestClient().GetWalletClaim(context.Background(), server.URL, ownerRaw); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		if _, err := newTestClient().GetWalletClaim(context.Background(), "http://127.0.0.1:1", ownerRaw); err == nil {
			t.Error("expected error")
		}
	})
}
