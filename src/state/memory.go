package state

import (
	"context"
	"sync"
)

type MemoryStore struct {
	lock sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: map[string][]byte{},
	}
}

func (ms *MemoryStore) Get(_ context.Context, key []byte) ([]byte, error) {
	ms.lock.RLock()
	defer ms.lock.RUnlock()
	v, ok := ms.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (ms *MemoryStore) Apply(_ context.Context, writes map[string][]byte) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	for k, v := range writes {
		ms.data[k] = append([]byte(nil), v...)
	}
	return nil
}

func (ms *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len is the number of keys ever written
func (ms *MemoryStore) Len() int {
	ms.lock.RLock()
	defer ms.lock.RUnlock()
	return len(ms.data)
}
