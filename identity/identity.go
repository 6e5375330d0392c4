// Package identity defines the opaque handle naming a participant.
//
// Two IDs denote the same participant when their canonical string forms are
// equal. Callers should compare with Equal (or the social package helpers)
// rather than relying on how a value was obtained.
package identity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmpty is returned when parsing blank text.
	ErrEmpty = errors.New("identity: empty")
	// ErrMalformed is returned when the text contains characters outside [a-z0-9-].
	ErrMalformed = errors.New("identity: malformed")
)

// ID is a participant handle in canonical form. The zero value is the
// anonymous identity.
type ID struct {
	text string
}

// Parse canonicalizes s and validates it.
func Parse(s string) (ID, error) {
	c := Canonical(s)
	if c == "" {
		return ID{}, ErrEmpty
	}
	for _, r := range c {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return ID{}, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
	}
	return ID{text: c}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Canonical returns the canonical string form of s: trimmed and lower-cased.
func Canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (id ID) String() string { return id.text }

// IsZero reports whether id is the anonymous identity.
func (id ID) IsZero() bool { return id.text == "" }

// Equal compares canonical forms. other may be any representation that
// renders the identity as text.
func (id ID) Equal(other fmt.Stringer) bool {
	if other == nil {
		return false
	}
	return id.text == Canonical(other.String())
}

// Short renders a display form keeping the first n characters and the last
// four, e.g. "rdmx6-ja…q-cai".
func (id ID) Short(n int) string {
	if n <= 0 || len(id.text) <= n*2+3 {
		return id.text
	}
	return id.text[:n] + "…" + id.text[len(id.text)-4:]
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.text), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text yields the
// zero ID.
func (id *ID) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*id = ID{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
