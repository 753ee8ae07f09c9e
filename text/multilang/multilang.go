// Package multilang assigns scripts and fonts to text.
//
// Script runs are computed per paragraph from the Unicode script of every
// character. Neutral characters (spaces, punctuation, combining marks)
// attach to a neighbouring script so they never form runs of their own.
// Font runs are then validated against the font client: characters the
// requested font cannot display get a fallback font chosen for their
// script.
//
// Both steps have partial variants that only recompute the part of the
// text touched by an edit.
package multilang

import (
	"github.com/gogpu/textkit/text"
)

// FontClient is the font capability font validation needs.
// *fontclient.Client implements it.
type FontClient interface {
	FontID(desc text.FontDescription, pointSize float64) (text.FontID, error)
	DefaultFontForScript(script text.Script, desc text.FontDescription, pointSize float64) text.FontID
	FindFallbackFont(r rune, script text.Script, desc text.FontDescription, pointSize float64) text.FontID
	IsCharacterSupported(id text.FontID, r rune) bool
}

// FontDefaults is the style used where no font description run applies.
type FontDefaults struct {
	Description text.FontDescription
	PointSize   float64
}

// Support resolves script and font runs. It keeps a per-script cache of
// fallback fonts and is not safe for concurrent use.
type Support struct {
	client    FontClient
	fallbacks map[fallbackKey]text.FontID
}

type fallbackKey struct {
	script text.Script
	desc   text.FontDescription
}

// New creates a Support backed by client.
func New(client FontClient) *Support {
	return &Support{
		client:    client,
		fallbacks: make(map[fallbackKey]text.FontID),
	}
}

// ClearCache drops cached fallback fonts, e.g. after fonts were
// registered.
func (s *Support) ClearCache() {
	clear(s.fallbacks)
}
