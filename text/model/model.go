// Package model holds the logical and visual models of a text and the
// presentation settings that drive how it is laid out.
package model

import (
	"image/color"

	"github.com/gogpu/textkit/text"
)

// Model bundles the logical model, the visual model and the presentation
// settings. A Model is owned by exactly one Controller or AsyncTextLoader.
type Model struct {
	Logical *LogicalModel
	Visual  *VisualModel

	// Font is the default font description and PointSize its size; the
	// size of Font is ignored. Font description runs of the logical model
	// override both.
	Font      text.FontDescription
	PointSize float64

	HorizontalAlignment text.HorizontalAlignment
	VerticalAlignment   text.VerticalAlignment
	WrapMode            text.WrapMode
	MultiLine           bool
	ElideEnabled        bool

	// LineSpacing is added between lines, in pixels.
	LineSpacing float64
	// CharacterSpacing is added to every glyph advance, in pixels.
	CharacterSpacing float64

	TextColor        color.NRGBA
	UnderlineEnabled bool
	Underline        text.UnderlineStyleProperties

	// ScrollPosition offsets the laid out text inside the control.
	ScrollPosition text.Vector2
	// BaseDirection is the paragraph direction used when the text has no
	// strong character.
	BaseDirection text.Direction
}

// New returns an empty model with default settings.
func New() *Model {
	return &Model{
		Logical:   NewLogicalModel(),
		Visual:    NewVisualModel(),
		TextColor: color.NRGBA{A: 255},
	}
}

// NumberOfCharacters returns the length of the logical text.
func (m *Model) NumberOfCharacters() int {
	return m.Logical.NumberOfCharacters()
}

// IsEmpty reports whether the model has no text.
func (m *Model) IsEmpty() bool {
	return m.Logical.NumberOfCharacters() == 0
}

// Reset clears the text and every derived table but keeps the settings.
func (m *Model) Reset() {
	m.Logical = NewLogicalModel()
	m.Visual = NewVisualModel()
	m.ScrollPosition = text.Vector2{}
}
