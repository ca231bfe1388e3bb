// Package workingmem holds the per-session set of tools the agent has
// discovered and may call. The context trimmer deactivates tools whose
// evidence has scrolled out of the retained history.
package workingmem

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
)

var ErrStoreUnavailable = errors.New("working memory store unavailable")

// Store is the tool-activation store consumed by the context trimmer.
type Store interface {
	// DiscoveredTools returns the tools currently considered active.
	DiscoveredTools(ctx context.Context) ([]string, error)
	// RemoveTools deactivates the given tools. Unknown names are ignored.
	RemoveTools(ctx context.Context, names []string) error
	// AddTools activates the given tools.
	AddTools(ctx context.Context, names []string) error
}

// MemoryStore is an in-process Store preserving discovery order.
type MemoryStore struct {
	mu    sync.RWMutex
	tools []string
}

func NewMemoryStore(initial ...string) *MemoryStore {
	s := &MemoryStore{}
	s.add(initial)
	return s
}

func (s *MemoryStore) DiscoveredTools(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.tools...), nil
}

func (s *MemoryStore) RemoveTools(_ context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools = slices.DeleteFunc(s.tools, func(tool string) bool {
		return slices.Contains(names, tool)
	})
	return nil
}

func (s *MemoryStore) AddTools(_ context.Context, names []string) error {
	s.add(names)
	return nil
}

func (s *MemoryStore) add(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(s.tools, name) {
			continue
		}
		s.tools = append(s.tools, name)
	}
}
