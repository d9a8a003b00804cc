package cache

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo is a write-once-per-key cache for the lifetime of one run.
// Concurrent callers asking for the same key share a single fetch.
type Memo[K comparable, V any] struct {
	data  map[K]V
	mutex sync.RWMutex
	group singleflight.Group
}

// NewMemo creates an empty memo
func NewMemo[K comparable, V any]() *Memo[K, V] {
	return &Memo[K, V]{
		data: make(map[K]V),
	}
}

// Get returns the stored value for key, if any.
func (m *Memo[K, V]) Get(key K) (V, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	v, ok := m.data[key]
	return v, ok
}

// Do returns the value stored for key, calling fetch at most once to fill it.
//
// A failed fetch stores the zero value, so the key is never fetched again.
// The error is reported only to the callers that shared the failed fetch.
func (m *Memo[K, V]) Do(key K, fetch func() (V, error)) (V, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}

	result, err, _ := m.group.Do(fmt.Sprint(key), func() (interface{}, error) {
		if v, ok := m.Get(key); ok {
			return v, nil
		}

		v, err := fetch()
		if err != nil {
			var zero V
			v = zero
		}

		m.mutex.Lock()
		m.data[key] = v
		m.mutex.Unlock()

		return v, err
	})

	v, _ := result.(V)
	return v, err
}

// Size returns the number of stored keys
func (m *Memo[K, V]) Size() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.data)
}
