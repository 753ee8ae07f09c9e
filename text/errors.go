package text

import "errors"

// Sentinel errors for the text package.
var (
	// ErrOutOfRange is returned when a character range exceeds the buffer.
	ErrOutOfRange = errors.New("text: character range out of bounds")
)
