// Package isbn validates catalog identifiers (ISBN-10 and ISBN-13).
package isbn

import (
	"fmt"
	"strings"

	"bookjourney/internal/apperr"
)

// Format identifies which checksum scheme an identifier uses.
type Format int

const (
	ISBN10 Format = 1 << iota
	ISBN13
)

// AllFormats accepts both identifier lengths.
const AllFormats = ISBN10 | ISBN13

func (f Format) String() string {
	switch f {
	case ISBN10:
		return "ISBN-10"
	case ISBN13:
		return "ISBN-13"
	default:
		return "unknown"
	}
}

// Identifier is a normalized identifier that passed checksum validation.
type Identifier string

func (id Identifier) String() string { return string(id) }

// Format reports the scheme the identifier was validated with.
func (id Identifier) Format() Format {
	if len(id) == 10 {
		return ISBN10
	}
	return ISBN13
}

// Validator checks identifiers against a configurable set of formats.
type Validator struct {
	Formats Format
}

// Default accepts ISBN-10 and ISBN-13.
var Default = Validator{Formats: AllFormats}

// Validate checks s against both formats.
func Validate(s string) (Identifier, error) {
	return Default.Validate(s)
}

// Validate normalizes s and checks its checksum.
func (v Validator) Validate(s string) (Identifier, error) {
	n := Normalize(s)
	formats := v.Formats
	if formats == 0 {
		formats = AllFormats
	}

	var ok bool
	switch len(n) {
	case 10:
		ok = formats&ISBN10 != 0 && validISBN10(n)
	case 13:
		ok = formats&ISBN13 != 0 && validISBN13(n)
	}
	if !ok {
		return "", apperr.Validation("isbn", apperr.ReasonInvalidIdentifier)
	}
	return Identifier(n), nil
}

// Normalize trims whitespace, drops hyphens and inner spaces and upper-cases
// the check character.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("-", "", " ", "").Replace(s)
	return strings.ToUpper(s)
}

func validISBN10(s string) bool {
	sum := 0
	for i := 0; i < 9; i++ {
		d, ok := digit(s[i])
		if !ok {
			return false
		}
		sum += d * (10 - i)
	}
	switch last := s[9]; {
	case last == 'X':
		sum += 10
	default:
		d, ok := digit(last)
		if !ok {
			return false
		}
		sum += d
	}
	return sum%11 == 0
}

func validISBN13(s string) bool {
	sum := 0
	for i := 0; i < 12; i++ {
		d, ok := digit(s[i])
		if !ok {
			return false
		}
		if i%2 == 0 {
			sum += d
		} else {
			sum += 3 * d
		}
	}
	check, ok := digit(s[12])
	if !ok {
		return false
	}
	return (10-sum%10)%10 == check
}

func digit(c byte) (int, bool) {
	if c < '0' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}

// ParseFormats reads a comma separated list such as "10,13".
func ParseFormats(s string) (Format, error) {
	var f Format
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(part) {
		case "":
		case "10":
			f |= ISBN10
		case "13":
			f |= ISBN13
		default:
			return 0, fmt.Errorf("unknown isbn format %q", part)
		}
	}
	if f == 0 {
		return AllFormats, nil
	}
	return f, nil
}
