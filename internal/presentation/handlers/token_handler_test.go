package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tonwork/jetton-engine/internal/application/services"
	"github.com/tonwork/jetton-engine/internal/config"
	"github.com/tonwork/jetton-engine/internal/domain/entities"
	"github.com/tonwork/jetton-engine/internal/infrastructure/ton"
	"github.com/tonwork/jetton-engine/internal/infrastructure/tonapi"
	"github.com/tonwork/jetton-engine/internal/testutil"
)

type stubMetadataSource struct {
	info *tonapi.JettonInfo
	err  error
}

func (s *stubMetadataSource) GetJettonInfo(ctx context.Context, network entities.Network, address string) (*tonapi.JettonInfo, error) {
	return s.info, s.err
}

func newTokenRouter(t *testing.T, catalog *testutil.MockTokenCatalog, source *stubMetadataSource) *chi.Mux {
	t.Helper()
	svc := services.NewTokenService(catalog, source, nil, config.FeesConfig{}, zap.NewNop())
	handler := NewTokenHandler(svc, zap.NewNop())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestTokenHandler_GetToken(t *testing.T) {
	canonicalAddr, err := ton.ToBase64Address(testutil.MasterAddress, true, entities.NetworkMainnet)
	if err != nil {
		t.Fatalf("bad test address: %v", err)
	}

	t.Run("known token", func(t *testing.T) {
		catalog := testutil.NewMockTokenCatalog()
		catalog.AddToken(testutil.CreateTestToken(testutil.TokenWithAddress(canonicalAddr)))
		router := newTokenRouter(t, catalog, &stubMetadataSource{})

		req := httptest.NewRequest(http.MethodGet, "/tokens/"+canonicalAddr, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
		}

		var resp TokenResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response: %v", err)
		}
		if resp.Data.Symbol != "TST" {
			t.Errorf("symbol = %q", resp.Data.Symbol)
		}
		if resp.Data.Chain != "ton" {
			t.Errorf("chain = %q", resp.Data.Chain)
		}
	})

	t.Run("unknown token is fetched", func(t *testing.T) {
		catalog := testutil.NewMockTokenCatalog()
		source := &stubMetadataSource{info: &tonapi.JettonInfo{
			Metadata: entities.JettonMetadata{Name: "Fetched", Symbol: "FET", Decimals: "9"},
		}}
		router := newTokenRouter(t, catalog, source)

		req := httptest.NewRequest(http.MethodGet, "/tokens/"+canonicalAddr, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
		}

		var resp TokenResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response: %v", err)
		}
		if resp.Data.Symbol != "FET" {
			t.Errorf("symbol = %q", resp.Data.Symbol)
		}
	})

	t.Run("invalid address", func(t *testing.T) {
		router := newTokenRouter(t, testutil.NewMockTokenCatalog(), &stubMetadataSource{})

		req := httptest.NewRequest(http.MethodGet, "/tokens/garbage", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("lookup failure", func(t *testing.T) {
		router := newTokenRouter(t, testutil.NewMockTokenCatalog(), &stubMetadataSource{err: errors.New("api down")})

		req := httptest.NewRequest(http.MethodGet, "/tokens/"+canonicalAddr, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}
