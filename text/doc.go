// Package text defines the value types shared by the text layout pipeline:
// character and glyph indices, script and font runs, glyph information,
// font metrics, style runs and the special characters the pipeline treats
// explicitly.
//
// The pipeline itself lives in sub-packages, leaves first:
//
//   - model: the logical model (UTF-32 text and runs) and the visual model
//     (glyphs, positions, lines)
//   - segmentation: line-break, word-break and grapheme-cluster information
//   - fontclient: font registry, glyph lookup and metrics
//   - multilang: script runs and font validation
//   - shaper: character runs to glyph runs
//   - glyphmetrics: metrics of glyph clusters
//   - layout: line breaking, positioning, bidi reordering and alignment
//   - markup: style runs from markup
//   - typesetter: rasterization of a laid out model
//   - controller: the façade used by text controls
//   - async: the off-main-thread rendering path
package text
