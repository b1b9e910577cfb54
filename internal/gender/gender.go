// Package gender defines the grammatical gender set and alias resolution.
package gender

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGender is returned when an input string resolves to no gender.
var ErrUnknownGender = errors.New("unknown gender")

// Gender is a canonical grammatical gender label.
type Gender string

// Entry describes one gender: its canonical name, display article and
// accepted alias strings.
type Entry struct {
	Canonical Gender
	Display   string
	Aliases   []string
}

// Set is a fixed collection of genders with a derived alias map. The alias
// map is built once at construction; the same vocabulary governs word
// addition and quiz answers.
type Set struct {
	entries []Entry
	aliases map[string]Gender
}

// DefaultEntries returns the standard German gender set.
func DefaultEntries() []Entry {
	return []Entry{
		{Canonical: "masculine", Display: "der", Aliases: []string{"der", "m"}},
		{Canonical: "neuter", Display: "das", Aliases: []string{"das", "n"}},
		{Canonical: "feminine", Display: "die", Aliases: []string{"die", "f"}},
	}
}

// NewSet builds a Set from entries. Canonical names count as aliases of
// themselves. An alias claimed by two different genders is a construction
// error.
func NewSet(entries []Entry) (*Set, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("gender set needs at least 2 entries, got %d", len(entries))
	}
	aliases := make(map[string]Gender)
	kept := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		canonical := Gender(strings.ToLower(strings.TrimSpace(string(entry.Canonical))))
		if canonical == "" {
			return nil, fmt.Errorf("gender set entry has empty canonical name")
		}
		names := append([]string{string(canonical)}, entry.Aliases...)
		for _, name := range names {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if prev, ok := aliases[name]; ok && prev != canonical {
				return nil, fmt.Errorf("alias %q maps to both %s and %s", name, prev, canonical)
			}
			aliases[name] = canonical
		}
		entry.Canonical = canonical
		kept = append(kept, entry)
	}
	return &Set{entries: kept, aliases: aliases}, nil
}

// Default returns the standard German set. The static entries are known to
// be collision-free.
func Default() *Set {
	set, err := NewSet(DefaultEntries())
	if err != nil {
		panic(err)
	}
	return set
}

// Format resolves a canonical gender name or a registered alias to its
// canonical gender. Input is case-insensitive.
func (s *Set) Format(input string) (Gender, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	g, ok := s.aliases[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGender, input)
	}
	return g, nil
}

// Contains reports whether g is part of the set.
func (s *Set) Contains(g Gender) bool {
	for _, entry := range s.entries {
		if entry.Canonical == g {
			return true
		}
	}
	return false
}

// Count returns the number of genders in the set.
func (s *Set) Count() int {
	return len(s.entries)
}

// Display returns the display article for g, or an empty string when g is
// not part of the set.
func (s *Set) Display(g Gender) string {
	for _, entry := range s.entries {
		if entry.Canonical == g {
			return entry.Display
		}
	}
	return ""
}

// Entries returns a copy of the set's entries in construction order.
func (s *Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Aliases returns a copy of the derived alias map.
func (s *Set) Aliases() map[string]Gender {
	out := make(map[string]Gender, len(s.aliases))
	for alias, g := range s.aliases {
		out[alias] = g
	}
	return out
}
