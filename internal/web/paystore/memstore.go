package paystore

import (
	"context"
	"strings"
	"sync"
)

// memstore is the in-memory store used when no Redis is configured.
type memstore struct {
	mu       sync.RWMutex
	payments map[string]Payment
}

func NewMemoryStore() Store {
	return &memstore{payments: make(map[string]Payment)}
}

func (m *memstore) MarkPaid(ctx context.Context, p Payment) error {
	if strings.TrimSpace(p.SessionID) == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.SessionID] = p
	return nil
}

func (m *memstore) Get(ctx context.Context, sessionID string) (*Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[sessionID]
	if !ok {
		return nil, nil
	}
	out := p
	return &out, nil
}

func (m *memstore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.payments)), nil
}

func (m *memstore) Close() error { return nil }
