package authstate

import (
	"encoding/json"
	"os"
	"sort"
	"sync"
)

// KeyValueStore is a locally persisted key-value bucket for session
// artifacts. Two kinds exist in practice: a short-lived in-memory store and
// a durable file-backed store.
type KeyValueStore interface {
	Keys() []string
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// MemoryStore is the short-lived store; contents vanish with the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// FileStore is the durable store, persisted as a JSON document on disk.
// Every mutation rewrites the file.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// NewFileStore opens (or creates) a file-backed store at path.
func NewFileStore(path string) (*FileStore, error) {
	store := &FileStore{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &store.data); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func (f *FileStore) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f *FileStore) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	return val, ok
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return f.persist()
}

func (f *FileStore) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.persist()
}

func (f *FileStore) persist() error {
	payload, err := json.Marshal(f.data)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, payload, 0o600)
}
