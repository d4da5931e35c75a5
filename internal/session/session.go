package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/medikart/storefront/internal/domain"
	"github.com/medikart/storefront/internal/port"
	"go.uber.org/zap"
)

// KV keys, kept compatible with earlier releases of the app.
const (
	tokenKey   = "userToken"
	profileKey = "userInfo"
)

// Manager holds the authenticated session: bearer token plus customer
// profile, mirrored to the KV store so a restart stays logged in.
type Manager struct {
	kv     port.KV
	logger *zap.Logger

	mu       sync.RWMutex
	token    string
	customer *domain.Customer
}

func NewManager(ctx context.Context, kv port.KV, logger *zap.Logger) *Manager {
	m := &Manager{kv: kv, logger: logger}
	m.hydrate(ctx)
	return m
}

func (m *Manager) hydrate(ctx context.Context) {
	token, ok, err := m.kv.Get(ctx, tokenKey)
	if err != nil {
		m.logger.Warn("session hydration failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	m.token = token

	raw, ok, err := m.kv.Get(ctx, profileKey)
	if err != nil || !ok {
		return
	}

	var customer domain.Customer
	if err := json.Unmarshal([]byte(raw), &customer); err != nil {
		m.logger.Warn("persisted profile is unreadable", zap.Error(err))
		return
	}
	m.customer = &customer
}

// Token implements api.TokenSource.
func (m *Manager) Token(_ context.Context) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token, m.token != ""
}

func (m *Manager) Customer() (domain.Customer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.customer == nil {
		return domain.Customer{}, false
	}

	return *m.customer, true
}

func (m *Manager) Start(ctx context.Context, token string, customer domain.Customer) error {
	m.mu.Lock()
	m.token = token
	m.customer = &customer
	m.mu.Unlock()

	if err := m.kv.Set(ctx, tokenKey, token); err != nil {
		return fmt.Errorf("kv.Set token: %w", err)
	}

	raw, err := json.Marshal(customer)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := m.kv.Set(ctx, profileKey, string(raw)); err != nil {
		return fmt.Errorf("kv.Set profile: %w", err)
	}

	return nil
}

// UpdateCustomer replaces the stored profile, keeping the token.
func (m *Manager) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	m.mu.Lock()
	m.customer = &customer
	m.mu.Unlock()

	raw, err := json.Marshal(customer)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := m.kv.Set(ctx, profileKey, string(raw)); err != nil {
		return fmt.Errorf("kv.Set profile: %w", err)
	}

	return nil
}

func (m *Manager) End(ctx context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.customer = nil
	m.mu.Unlock()

	if err := m.kv.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("kv.Delete token: %w", err)
	}

	if err := m.kv.Delete(ctx, profileKey); err != nil {
		return fmt.Errorf("kv.Delete profile: %w", err)
	}

	return nil
}
