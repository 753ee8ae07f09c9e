package controller

import (
	"image/color"
	"sync"

	"github.com/gogpu/textkit/text"
)

// Handle identifies a decoration handle.
type Handle uint8

const (
	// GrabHandle drags the cursor.
	GrabHandle Handle = iota
	// LeftSelectionHandle drags the start of the selection.
	LeftSelectionHandle
	// RightSelectionHandle drags the end of the selection.
	RightSelectionHandle
)

// String returns the handle name.
func (h Handle) String() string {
	switch h {
	case GrabHandle:
		return "GrabHandle"
	case LeftSelectionHandle:
		return "LeftSelectionHandle"
	case RightSelectionHandle:
		return "RightSelectionHandle"
	default:
		return unknown
	}
}

// CursorInfo is the placement of a cursor or a handle in control
// coordinates. Y is the top of the line.
type CursorInfo struct {
	X, Y   float64
	Height float64
	Line   int
}

// Rect is a rectangle in control coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Decorator draws the editing decorations: the cursor, the handles, the
// selection highlight and the selection popup. The controller calls it
// from Relayout whenever a decoration changed; the decorator reports user
// interaction back through Controller.DecorationEvent.
type Decorator interface {
	SetCursor(active bool, pos CursorInfo)
	SetHandle(h Handle, active bool, pos CursorInfo)
	SetSelection(boxes []Rect)
	SetPopupActive(active bool)
}

// Theme holds the presentation defaults a controller starts with.
type Theme struct {
	Font             text.FontDescription
	PointSize        float64
	TextColor        color.NRGBA
	PlaceholderColor color.NRGBA
	LineSpacing      float64
}

// DefaultTheme returns black 16 point text in the default family.
func DefaultTheme() Theme {
	return Theme{
		PointSize:        16,
		TextColor:        color.NRGBA{A: 255},
		PlaceholderColor: color.NRGBA{R: 128, G: 128, B: 128, A: 255},
	}
}

// Clipboard stores copied text.
type Clipboard interface {
	SetText(s string)
	Text() string
}

// MemoryClipboard is a process-local Clipboard. It is safe for concurrent
// use.
type MemoryClipboard struct {
	mu sync.Mutex
	s  string
}

// SetText implements Clipboard.
func (c *MemoryClipboard) SetText(s string) {
	c.mu.Lock()
	c.s = s
	c.mu.Unlock()
}

// Text implements Clipboard.
func (c *MemoryClipboard) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}
