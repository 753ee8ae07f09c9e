package text

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Character is a single UTF-32 code point of the logical text.
type Character = rune

// FontID is an opaque handle to a validated font at a given point size.
// Zero means "no font"; a glyph with FontID zero and a non-zero index is an
// embedded image.
type FontID uint32

// GlyphID is the glyph index within a font.
type GlyphID uint32

// Direction specifies text direction.
type Direction int

const (
	// DirectionLTR is left-to-right text (English, French, etc.)
	DirectionLTR Direction = iota
	// DirectionRTL is right-to-left text (Arabic, Hebrew)
	DirectionRTL
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "LTR"
	case DirectionRTL:
		return "RTL"
	default:
		return unknownStr
	}
}

// IsRTL reports whether d is right-to-left.
func (d Direction) IsRTL() bool {
	return d == DirectionRTL
}

// Vector2 is a 2D position or offset in pixels.
type Vector2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Size is a 2D extent in pixels.
type Size struct {
	Width, Height float64
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// Fits reports whether s fits inside box. Dimensions of box that are zero or
// negative are treated as unbounded.
func (s Size) Fits(box Size) bool {
	if box.Width > 0 && s.Width > box.Width {
		return false
	}
	if box.Height > 0 && s.Height > box.Height {
		return false
	}
	return true
}

// Rect represents a rectangle for glyph bounds.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// Empty reports whether the rectangle is empty.
func (r Rect) Empty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// HorizontalAlignment positions lines inside the layout box.
type HorizontalAlignment int

const (
	// AlignBegin aligns to the start edge of the paragraph direction.
	AlignBegin HorizontalAlignment = iota
	// AlignCenter centers lines horizontally.
	AlignCenter
	// AlignEnd aligns to the end edge of the paragraph direction.
	AlignEnd
)

// String returns the string representation of the alignment.
func (a HorizontalAlignment) String() string {
	switch a {
	case AlignBegin:
		return "Begin"
	case AlignCenter:
		return "Center"
	case AlignEnd:
		return "End"
	default:
		return unknownStr
	}
}

// VerticalAlignment positions the text block inside the layout box.
type VerticalAlignment int

const (
	// AlignTop places the block at the top.
	AlignTop VerticalAlignment = iota
	// AlignMiddle centers the block vertically.
	AlignMiddle
	// AlignBottom places the block at the bottom.
	AlignBottom
)

// String returns the string representation of the alignment.
func (a VerticalAlignment) String() string {
	switch a {
	case AlignTop:
		return "Top"
	case AlignMiddle:
		return "Middle"
	case AlignBottom:
		return "Bottom"
	default:
		return unknownStr
	}
}

// WrapMode specifies how lines are broken when they exceed the box width.
type WrapMode uint8

const (
	// WrapWord breaks at word boundaries, falling back to a forced break
	// when a single word is wider than the box.
	WrapWord WrapMode = iota
	// WrapCharacter breaks between any two grapheme clusters.
	WrapCharacter
)

// String returns the string representation of the wrap mode.
func (m WrapMode) String() string {
	switch m {
	case WrapWord:
		return "Word"
	case WrapCharacter:
		return "Character"
	default:
		return unknownStr
	}
}
