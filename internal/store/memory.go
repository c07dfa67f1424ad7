package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Gateway used by tests and local development.
// It implements Transactor and Subscriber as well.
type Memory struct {
	mu      sync.RWMutex
	records map[string]json.RawMessage

	subMu  sync.Mutex
	subs   map[int]memorySub
	nextID int
}

type memorySub struct {
	path string
	fn   func(Change)
}

// NewMemory creates an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]json.RawMessage),
		subs:    make(map[int]memorySub),
	}
}

func (m *Memory) Read(ctx context.Context, path string, out any) error {
	m.mu.RLock()
	raw, ok := m.records[path]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (m *Memory) Write(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.records[path] = raw
	m.mu.Unlock()
	m.fanout(Change{Path: path, Op: OpWrite})
	return nil
}

func (m *Memory) Merge(ctx context.Context, path string, fields map[string]any) error {
	m.mu.Lock()
	current := map[string]json.RawMessage{}
	if raw, ok := m.records[path]; ok {
		if err := json.Unmarshal(raw, &current); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	for key, val := range fields {
		raw, err := json.Marshal(val)
		if err != nil {
			m.mu.Unlock()
			return err
		}
		current[key] = raw
	}
	merged, err := json.Marshal(current)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.records[path] = merged
	m.mu.Unlock()
	m.fanout(Change{Path: path, Op: OpMerge})
	return nil
}

func (m *Memory) Append(ctx context.Context, path string, value any) (string, error) {
	key := newKey()
	if err := m.Write(ctx, path+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

func (m *Memory) Delete(ctx context.Context, path string) error {
	prefix := path + "/"
	m.mu.Lock()
	delete(m.records, path)
	for key := range m.records {
		if strings.HasPrefix(key, prefix) {
			delete(m.records, key)
		}
	}
	m.mu.Unlock()
	m.fanout(Change{Path: path, Op: OpDelete})
	return nil
}

func (m *Memory) List(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	prefix := path + "/"
	out := make(map[string]json.RawMessage)
	m.mu.RLock()
	for key, raw := range m.records {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		child := key[len(prefix):]
		if strings.Contains(child, "/") {
			continue
		}
		out[child] = raw
	}
	m.mu.RUnlock()
	return out, nil
}

// Update performs an atomic read-modify-write guarded by the gateway mutex.
func (m *Memory) Update(ctx context.Context, path string, fn func(current json.RawMessage) (any, error)) error {
	m.mu.Lock()
	current := m.records[path]
	next, err := fn(current)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	raw, err := json.Marshal(next)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.records[path] = raw
	m.mu.Unlock()
	m.fanout(Change{Path: path, Op: OpWrite})
	return nil
}

// Subscribe registers a change listener for path and its descendants.
func (m *Memory) Subscribe(ctx context.Context, path string, fn func(Change)) (func(), error) {
	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = memorySub{path: path, fn: fn}
	m.subMu.Unlock()
	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}, nil
}

func (m *Memory) fanout(change Change) {
	m.subMu.Lock()
	subs := make([]memorySub, 0, len(m.subs))
	for _, sub := range m.subs {
		subs = append(subs, sub)
	}
	m.subMu.Unlock()
	for _, sub := range subs {
		if change.Path == sub.path || strings.HasPrefix(change.Path, sub.path+"/") {
			sub.fn(change)
		}
	}
}

// SortedKeys returns child keys of a List result in creation order. Append
// keys are strictly increasing within a process; cross-process keys still
// order lexicographically by creation time at second granularity.
func SortedKeys(children map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(children))
	for key := range children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
