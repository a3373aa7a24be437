// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo holds values built at most once per key. Concurrent Get calls for a
// key that is being built wait for that build and share its result. A failed
// build is not stored, so the next Get for the key builds again. The zero
// value is ready to use.
type Memo[V any] struct {
	mu     sync.RWMutex
	values map[string]V
	group  singleflight.Group
}

// Get returns the value for key, calling build if it has not been built.
func (m *Memo[V]) Get(ctx context.Context, key string, build func(context.Context) (V, error)) (V, error) {
	if v, ok := m.lookup(key); ok {
		return v, nil
	}

	res, err, _ := m.group.Do(key, func() (any, error) {
		// A build for key may have finished between lookup and Do.
		if v, ok := m.lookup(key); ok {
			return v, nil
		}
		v, err := build(ctx)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		if m.values == nil {
			m.values = make(map[string]V)
		}
		m.values[key] = v
		m.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Len returns the number of built values.
func (m *Memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

func (m *Memo[V]) lookup(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}
