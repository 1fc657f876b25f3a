package i18n

import (
	"sync"

	"todoboard/internal/ports/output"
)

// Switcher is the active-language state of one client session.
type Switcher struct {
	t output.T

	mu       sync.RWMutex
	language string
}

// NewSwitcher returns a Switcher starting at initial.
func NewSwitcher(t output.T, initial string) *Switcher {
	return &Switcher{t: t, language: initial}
}

// ChangeLanguage makes code the active language for every later T call.
// The code is not validated; unknown codes resolve through the default
// bundle.
func (s *Switcher) ChangeLanguage(code string) {
	s.mu.Lock()
	s.language = code
	s.mu.Unlock()
}

// Language returns the active language code.
func (s *Switcher) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// Languages returns the codes ChangeLanguage is offered.
func (s *Switcher) Languages() []string {
	return s.t.Languages()
}

// T resolves key against the active language.
func (s *Switcher) T(key string) string {
	return s.t.T(s.Language(), key, nil)
}

// TData resolves key against the active language with template data.
func (s *Switcher) TData(key string, data map[string]any) string {
	return s.t.T(s.Language(), key, data)
}
