package baton

import (
	"fmt"

	"golang.org/x/text/language"
)

// Scope is the immutable per-request metadata threaded through every
// call: tenancy, acting user, locale, and open audit extras. It is passed
// by value and no layer mutates it. Scope has no identity beyond field
// equality and is never persisted by this module.
type Scope struct {
	TenantID string
	UserID   string
	Locale   language.Tag
	Extras   map[string]string
}

// Extra reads an audit entry.
func (s Scope) Extra(key string) (string, bool) {
	v, ok := s.Extras[key]
	return v, ok
}

// WithExtra returns a copy of the scope with the entry added. The
// receiver is unchanged; the extras map is copied, never written in
// place, so scopes sharing a map stay independent.
func (s Scope) WithExtra(key, value string) Scope {
	extras := make(map[string]string, len(s.Extras)+1)
	for k, v := range s.Extras {
		extras[k] = v
	}
	extras[key] = value
	s.Extras = extras
	return s
}

// ParseLocale parses a BCP 47 tag such as "en-US" for Scope.Locale.
func ParseLocale(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", s, ErrValidation)
	}
	return tag, nil
}
