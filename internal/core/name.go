package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinNameLength is counted in characters, not bytes.
const MinNameLength = 3

// Name is a budget name.
type Name struct {
	value string
}

// NewName trims surrounding whitespace before checking the length.
func NewName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < MinNameLength {
		return Name{}, fmt.Errorf("%w: %q needs at least %d characters", ErrNameTooShort, s, MinNameLength)
	}
	return Name{value: s}, nil
}

func (n Name) String() string {
	return n.value
}
