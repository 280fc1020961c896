package client

import "sync"

// Storage persists the generated user identity between sessions. The
// browser original keeps these under two localStorage keys; that helper
// layer is an external collaborator, so only the data contract lives
// here. Keys are written on successful room join and removed when the
// connection closes.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

const (
	KeyUserID   = "user_id"
	KeyUserName = "user_name"
)

// MemoryStorage is the in-process default.
type MemoryStorage struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{m: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

func (s *MemoryStorage) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}
