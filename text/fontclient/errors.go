package fontclient

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fontclient package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("fontclient: empty font data")

	// ErrNoFonts is returned when the client has no registered font.
	ErrNoFonts = errors.New("fontclient: no fonts registered")
)

// FontNotFoundError is returned when no registered font matches a
// requested family.
type FontNotFoundError struct {
	Family string
}

func (e *FontNotFoundError) Error() string {
	return fmt.Sprintf("fontclient: font family %q not found", e.Family)
}
