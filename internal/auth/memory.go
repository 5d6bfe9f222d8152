package auth

import (
	"context"
	"sync"
)

// memoryStore はCallerStoreのインメモリ実装。
// プロセス再起動でレコードは失われる。
type memoryStore struct {
	mu      sync.RWMutex
	records map[string]CallerAuth
}

// NewMemoryStore は新しいインメモリCallerStoreを生成する。
func NewMemoryStore() CallerStore {
	return &memoryStore{records: make(map[string]CallerAuth)}
}

// Get はレコードのコピーを返す。
func (m *memoryStore) Get(_ context.Context, callerID string) (*CallerAuth, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[callerID]
	if !ok {
		return nil, ErrCallerNotFound
	}
	return &rec, nil
}

// Put はレコードを保存する。
func (m *memoryStore) Put(_ context.Context, callerID string, rec *CallerAuth) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[callerID] = *rec
	return nil
}

// Delete はレコードを削除する。
func (m *memoryStore) Delete(_ context.Context, callerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, callerID)
	return nil
}
