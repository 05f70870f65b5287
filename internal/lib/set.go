package lib

import "sync"

// Set is a string set, thread-safe and can be passed by value.
type Set struct {
	data map[string]struct{}
	mu   *sync.RWMutex
}

func NewSet() Set {
	return Set{
		data: make(map[string]struct{}),
		mu:   &sync.RWMutex{},
	}
}

func (s Set) Add(elem string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[elem] = struct{}{}
}

// AddNew adds elem and reports whether it was absent beforehand.
func (s Set) AddNew(elem string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[elem]; exists {
		return false
	}
	s.data[elem] = struct{}{}
	return true
}

func (s Set) Contains(elem string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.data[elem]
	return exists
}
