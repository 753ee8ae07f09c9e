// Package textkit is a text layout and rendering toolkit.
//
// The root package only holds the shared logger. The pipeline lives in
// the text sub-packages:
//
//	text/model         logical and visual text models
//	text/segmentation  line, word and grapheme breaks
//	text/fontclient    font registry, glyph lookup and metrics
//	text/multilang     script runs and font validation
//	text/shaper        character runs to glyph runs
//	text/glyphmetrics  glyph cluster sizing
//	text/layout        line breaking, bidi reordering and alignment
//	text/markup        style runs from inline markup
//	text/typesetter    glyphs to pixels
//	text/controller    editable text façade
//	text/async         off-thread rendering
//
// A minimal render:
//
//	fonts := fontclient.NewWithGoFonts()
//	loader := async.NewLoader(fonts)
//	info := loader.RenderText(async.Parameters{
//	    Text:      "Hello, 世界",
//	    PointSize: 24,
//	    Size:      text.Size{Width: 320, Height: 0},
//	    MultiLine: true,
//	})
//	if info.Success {
//	    png.Encode(w, info.Image)
//	}
package textkit
