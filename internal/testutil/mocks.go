package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/tonwork/jetton-engine/internal/domain/entities"
	"github.com/tonwork/jetton-engine/internal/domain/repositories"
	"github.com/tonwork/jetton-engine/internal/infrastructure/database"
)

type MockCall struct {
	Method string
	Args   []interface{}
}

// MockLedgerGateway is a mock implementation of LedgerGateway
type MockLedgerGateway struct {
	mu sync.Mutex

	// Function hooks for custom behavior
	ResolveWalletAddressFunc func(ctx context.Context, network entities.Network, owner, tokenAddress string) (string, error)
	ResolveTokenAddressFunc  func(ctx context.Context, network entities.Network, walletAddress string) (string, error)
	IsContractActiveFunc     func(ctx context.Context, network entities.Network, addr string) (bool, error)
	IsWalletClaimedFunc      func(ctx context.Context, network entities.Network, walletAddress string) (bool, error)

	// Call tracking
	Calls []MockCall
}

func NewMockLedgerGateway() *MockLedgerGateway {
	return &MockLedgerGateway{Calls: make([]MockCall, 0)}
}

func (m *MockLedgerGateway) record(method string, args ...interface{}) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
	m.mu.Unlock()
}

func (m *MockLedgerGateway) ResolveWalletAddress(ctx context.Context, network entities.Network, owner, tokenAddress string) (string, error) {
	m.record("ResolveWalletAddress", owner, tokenAddress)

	if m.ResolveWalletAddressFunc != nil {
		return m.ResolveWalletAddressFunc(ctx, network, owner, tokenAddress)
	}
	return WalletAddress, nil
}

func (m *MockLedgerGateway) ResolveTokenAddress(ctx context.Context, network entities.Network, walletAddress string) (string, error) {
	m.record("ResolveTokenAddress", walletAddress)

	if m.ResolveTokenAddressFunc != nil {
		return m.ResolveTokenAddressFunc(ctx, network, walletAddress)
	}
	return MasterAddress, nil
}

func (m *MockLedgerGateway) IsContractActive(ctx context.Context, network entities.Network, addr string) (bool, error) {
	m.record("IsContractActive", addr)

	if m.IsContractActiveFunc != nil {
		return m.IsContractActiveFunc(ctx, network, addr)
	}
	return true, nil
}

func (m *MockLedgerGateway) IsWalletClaimed(ctx context.Context, network entities.Network, walletAddress string) (bool, error) {
	m.record("IsWalletClaimed", walletAddress)

	if m.IsWalletClaimedFunc != nil {
		return m.IsWalletClaimedFunc(ctx, network, walletAddress)
	}
	return false, nil
}

// CallCount returns how many times the given method was invoked
func (m *MockLedgerGateway) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// MockClaimGateway is a mock implementation of ClaimGateway
type MockClaimGateway struct {
	mu sync.Mutex

	GetWalletClaimFunc func(ctx context.Context, apiURL, rawOwnerAddress string) (*repositories.ClaimRecord, error)

	Calls []MockCall
}

func NewMockClaimGateway() *MockClaimGateway {
	return &MockClaimGateway{Calls: make([]MockCall, 0)}
}

func (m *MockClaimGateway) GetWalletClaim(ctx context.Context, apiURL, rawOwnerAddress string) (*repositories.ClaimRecord, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "GetWalletClaim", Args: []interface{}{apiURL, rawOwnerAddress}})
	m.mu.Unlock()

	if m.GetWalletClaimFunc != nil {
		return m.GetWalletClaimFunc(ctx, apiURL, rawOwnerAddress)
	}
	return nil, nil
}

// MockTokenCatalog is a mock implementation of TokenCatalog
type MockTokenCatalog struct {
	mu     sync.RWMutex
	tokens map[string]*entities.Token

	// Function hooks
	GetByAddressFunc func(ctx context.Context, tokenAddress string) (*entities.Token, error)
	GetBySlugFunc    func(ctx context.Context, slug string) (*entities.Token, error)
	UpsertFunc       func(ctx context.Context, token *entities.Token) error
	ListFunc         func(ctx context.Context) ([]entities.Token, error)

	Calls []MockCall
}

func NewMockTokenCatalog() *MockTokenCatalog {
	return &MockTokenCatalog{
		tokens: make(map[string]*entities.Token),
		Calls:  make([]MockCall, 0),
	}
}

func (m *MockTokenCatalog) GetByAddress(ctx context.Context, tokenAddress string) (*entities.Token, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "GetByAddress", Args: []interface{}{tokenAddress}})
	m.mu.Unlock()

	if m.GetByAddressFunc != nil {
		return m.GetByAddressFunc(ctx, tokenAddress)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if token, ok := m.tokens[tokenAddress]; ok {
		cp := *token
		return &cp, nil
	}
	return nil, database.ErrTokenNotFound
}

func (m *MockTokenCatalog) GetBySlug(ctx context.Context, slug string) (*entities.Token, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "GetBySlug", Args: []interface{}{slug}})
	m.mu.Unlock()

	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, token := range m.tokens {
		if token.Slug == slug {
			cp := *token
			return &cp, nil
		}
	}
	return nil, database.ErrTokenNotFound
}

func (m *MockTokenCatalog) Upsert(ctx context.Context, token *entities.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Method: "Upsert", Args: []interface{}{token}})

	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, token)
	}

	cp := *token
	m.tokens[token.TokenAddress] = &cp
	return nil
}

func (m *MockTokenCatalog) List(ctx context.Context) ([]entities.Token, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "List", Args: nil})
	m.mu.Unlock()

	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]entities.Token, 0, len(m.tokens))
	for _, token := range m.tokens {
		result = append(result, *token)
	}
	return result, nil
}

// AddToken seeds the mock store
func (m *MockTokenCatalog) AddToken(token entities.Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.TokenAddress] = &token
}

// Reset clears all stored data and calls
func (m *MockTokenCatalog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = make(map[string]*entities.Token)
	m.Calls = make([]MockCall, 0)
}

// MockHealthChecker is a mock implementation of HealthChecker
type MockHealthChecker struct {
	mu sync.RWMutex

	Healthy bool
	Error   error
	Calls   []MockCall
}

func NewMockHealthChecker(healthy bool) *MockHealthChecker {
	var err error
	if !healthy {
		err = errors.New("health check failed")
	}
	return &MockHealthChecker{
		Healthy: healthy,
		Error:   err,
		Calls:   make([]MockCall, 0),
	}
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "HealthCheck", Args: nil})
	m.mu.Unlock()

	return m.Error
}

func (m *MockHealthChecker) SetHealthy(healthy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Healthy = healthy
	if healthy {
		m.Error = nil
	} else {
		m.Error = errors.New("health check failed")
	}
}
