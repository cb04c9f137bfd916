package dashboard

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryPreferenceStore provides a concurrency-safe default store.
type InMemoryPreferenceStore struct {
	mu     sync.RWMutex
	themes map[string]ThemeMode
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{
		themes: make(map[string]ThemeMode),
	}
}

// ThemeMode returns the stored mode or DefaultThemeMode.
func (s *InMemoryPreferenceStore) ThemeMode(_ context.Context, viewer ViewerContext) (ThemeMode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if mode, ok := s.themes[s.key(viewer)]; ok {
		return mode, nil
	}
	return DefaultThemeMode, nil
}

// SaveThemeMode persists the mode for a viewer. Anonymous viewers share a
// single slot.
func (s *InMemoryPreferenceStore) SaveThemeMode(_ context.Context, viewer ViewerContext, mode ThemeMode) error {
	if _, err := ParseThemeMode(string(mode)); err != nil {
		return fmt.Errorf("preference store: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes[s.key(viewer)] = mode
	return nil
}

func (s *InMemoryPreferenceStore) key(viewer ViewerContext) string {
	if viewer.UserID == "" {
		return "anonymous"
	}
	return viewer.UserID
}
