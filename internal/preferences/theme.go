// Package preferences stores the display theme.
package preferences

import (
	"context"
	"strings"
	"sync"

	"trackly/internal/core"
	"trackly/internal/storage"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ParseTheme maps anything other than "dark" to Light.
func ParseTheme(s string) Theme {
	if Theme(strings.TrimSpace(s)) == Dark {
		return Dark
	}
	return Light
}

func (t Theme) Toggled() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// ThemeStore keeps the theme as a single value under storage.KeyTheme.
type ThemeStore struct {
	mu sync.Mutex
	kv storage.KV
}

func NewThemeStore(kv storage.KV) *ThemeStore {
	return &ThemeStore{kv: kv}
}

// Load returns Light when the preference is missing or unreadable.
func (s *ThemeStore) Load(ctx context.Context) Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *ThemeStore) load(ctx context.Context) Theme {
	raw, ok, err := s.kv.Get(ctx, storage.KeyTheme)
	if err != nil || !ok {
		return Light
	}
	return ParseTheme(string(raw))
}

func (s *ThemeStore) Set(ctx context.Context, t Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(ctx, t)
}

func (s *ThemeStore) set(ctx context.Context, t Theme) error {
	if err := s.kv.Set(ctx, storage.KeyTheme, []byte(t)); err != nil {
		return &core.PersistenceError{Op: "save", Key: storage.KeyTheme, Err: err}
	}
	return nil
}

// Toggle flips the stored theme and returns the new value. The new value is
// returned even when it could not be saved.
func (s *ThemeStore) Toggle(ctx context.Context) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.load(ctx).Toggled()
	return next, s.set(ctx, next)
}
