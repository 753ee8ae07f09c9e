// Package controller is the façade a text control talks to.
//
// A Controller owns the model of one control and drives the layout
// pipeline over it. Property setters and edits only record which pipeline
// stages have to run again; Relayout runs them once per frame:
//
//	c := controller.New(fonts, controller.DefaultTheme())
//	c.SetText("Hello")
//	if c.Relayout(text.Size{Width: 200, Height: 40}) {
//	    img := ts.Render(c.Model(), image.Pt(200, 40))
//	    // upload img
//	}
//
// Editable controls call EnableTextInput. Gestures and keys are queued and
// resolved by the next Relayout, so several key presses within one frame
// produce a single layout.
//
// A Controller is not safe for concurrent use.
package controller

import (
	"image/color"
	"slices"

	"github.com/gogpu/textkit"
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/layout"
	"github.com/gogpu/textkit/text/markup"
	"github.com/gogpu/textkit/text/model"
)

// InputFilter rewrites text before it is inserted. Returning s unchanged
// accepts it.
type InputFilter func(s string) string

// Callbacks are called at the end of Relayout, in the order the changes
// happened. AnchorClicked is called from AnchorEvent. Nil callbacks are
// skipped.
type Callbacks struct {
	TextChanged           func()
	CursorPositionChanged func(old int)
	MaxLengthReached      func()
	InputFiltered         func()
	AnchorClicked         func(href string)
}

// Option configures a Controller.
type Option func(*Controller)

// WithCallbacks registers the notification callbacks.
func WithCallbacks(cb Callbacks) Option {
	return func(c *Controller) { c.callbacks = cb }
}

// WithMaxLength limits the number of characters the user can enter.
// Zero means no limit.
func WithMaxLength(n int) Option {
	return func(c *Controller) { c.maxLength = max(0, n) }
}

// WithInputFilter sets the filter applied to inserted text.
func WithInputFilter(f InputFilter) Option {
	return func(c *Controller) { c.filter = f }
}

// WithClipboard sets the clipboard used by copy, cut and paste. The
// default is a private MemoryClipboard.
func WithClipboard(cb Clipboard) Option {
	return func(c *Controller) { c.clipboard = cb }
}

// Controller coordinates a text model, the layout pipeline and the
// optional editing decorations.
type Controller struct {
	fonts    layout.PipelineFontClient
	pipeline *layout.Pipeline
	model    *model.Model
	theme    Theme

	// ops are the stages the next Relayout runs; edit narrows the script
	// and font updates when the pending text change is a single range.
	ops      layout.Operations
	edit     *layout.Edit
	fullEdit bool
	size     text.Size
	sized    bool

	modify []modifyEvent
	input  *inputState

	callbacks Callbacks
	notify    []func()
	clipboard Clipboard
	maxLength int
	filter    InputFilter

	markupEnabled    bool
	anchors          []markup.Anchor
	placeholder      []text.Character
	placeholderShown bool
}

// New creates a Controller laying out text with fonts. theme provides the
// initial font, size and colors.
func New(fonts layout.PipelineFontClient, theme Theme, opts ...Option) *Controller {
	m := model.New()
	m.Font = theme.Font
	m.Font.PointSize = 0
	m.PointSize = theme.PointSize
	if m.PointSize <= 0 {
		m.PointSize = theme.Font.PointSize
	}
	m.TextColor = theme.TextColor
	m.LineSpacing = theme.LineSpacing
	c := &Controller{
		fonts:     fonts,
		pipeline:  layout.NewPipeline(fonts),
		model:     m,
		theme:     theme,
		ops:       layout.AllOperations,
		clipboard: &MemoryClipboard{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model for rendering. It must not be modified.
func (c *Controller) Model() *model.Model { return c.model }

// EnableTextInput makes the text editable and selectable. Decorations are
// reported to decorator, which may be nil for headless editing.
func (c *Controller) EnableTextInput(decorator Decorator) {
	if c.input != nil {
		c.input.decorator = decorator
		c.input.decoratorDirty = true
		return
	}
	c.input = &inputState{
		decorator:      decorator,
		cursor:         c.model.NumberOfCharacters(),
		decoratorDirty: true,
	}
	c.input.anchor = c.input.cursor
	c.input.reported = c.input.cursor
	if c.placeholderShown {
		c.input.cursor, c.input.anchor, c.input.reported = 0, 0, 0
	}
}

// IsEditable reports whether text input is enabled.
func (c *Controller) IsEditable() bool { return c.input != nil }

// SetText replaces the text. With markup enabled s is parsed first; parse
// problems are logged and the text is shown as far as it could be parsed.
// The cursor moves to the end and the selection is cleared. Queued edits
// are dropped.
func (c *Controller) SetText(s string) {
	c.modify = c.modify[:0]
	c.hidePlaceholder()
	c.anchors = nil
	if c.markupEnabled {
		res, err := markup.Parse(s)
		if err != nil {
			textkit.Logger().Warn("controller: markup parsed with errors",
				"diagnostics", len(res.Diagnostics))
		}
		res.Apply(c.model.Logical)
		c.anchors = res.Anchors
	} else {
		chars, ok := text.StringToUtf32(s)
		if !ok {
			textkit.Logger().Warn("controller: invalid UTF-8 replaced")
		}
		c.model.Logical.SetText(chars)
	}
	c.model.ScrollPosition = text.Vector2{}
	c.textReplaced()
	if c.input != nil {
		n := c.model.NumberOfCharacters()
		c.input.cursor, c.input.anchor = n, n
		c.input.decoratorDirty = true
		c.input.cursorMoved = true
	}
	c.showPlaceholder()
	c.notifyTextChanged()
}

// Text returns the text as UTF-8 without markup. Edits still queued for
// the next Relayout are not included.
func (c *Controller) Text() string {
	if c.placeholderShown {
		return ""
	}
	return text.Utf32ToString(c.model.Logical.Text())
}

// SetMarkupEnabled sets whether SetText parses markup. The current text is
// kept as is.
func (c *Controller) SetMarkupEnabled(enabled bool) {
	c.markupEnabled = enabled
}

// SetPlaceholderText sets the text shown while the text is empty.
func (c *Controller) SetPlaceholderText(s string) {
	c.hidePlaceholder()
	c.placeholder, _ = text.StringToUtf32(s)
	c.showPlaceholder()
}

// SetFont sets the default font description. A point size in desc
// replaces the default point size.
func (c *Controller) SetFont(desc text.FontDescription) {
	if desc.PointSize > 0 {
		c.SetPointSize(desc.PointSize)
		desc.PointSize = 0
	}
	if desc == c.model.Font {
		return
	}
	c.model.Font = desc
	c.ops |= layout.StyleOperations
	c.fullEdit = true
}

// SetPointSize sets the default point size.
func (c *Controller) SetPointSize(size float64) {
	if size == c.model.PointSize {
		return
	}
	c.model.PointSize = size
	c.ops |= layout.StyleOperations
	c.fullEdit = true
}

// SetTextColor sets the default text color.
func (c *Controller) SetTextColor(col color.NRGBA) {
	c.theme.TextColor = col
	if c.placeholderShown {
		return
	}
	c.model.TextColor = col
	c.ops |= layout.Render
}

// SetUnderline enables or disables the underline of the whole text.
func (c *Controller) SetUnderline(enabled bool, props text.UnderlineStyleProperties) {
	c.model.UnderlineEnabled = enabled
	c.model.Underline = props
	c.ops |= layout.Render
}

// SetHorizontalAlignment sets the line alignment.
func (c *Controller) SetHorizontalAlignment(a text.HorizontalAlignment) {
	if a == c.model.HorizontalAlignment {
		return
	}
	c.model.HorizontalAlignment = a
	c.ops |= layout.Align | layout.Render
}

// SetVerticalAlignment sets the block alignment.
func (c *Controller) SetVerticalAlignment(a text.VerticalAlignment) {
	if a == c.model.VerticalAlignment {
		return
	}
	c.model.VerticalAlignment = a
	c.ops |= layout.Render
}

// SetMultiLine switches between single and multi-line layout.
func (c *Controller) SetMultiLine(multi bool) {
	if multi == c.model.MultiLine {
		return
	}
	c.model.MultiLine = multi
	c.ops |= layout.LayoutOperations
}

// SetWrapMode sets how lines are broken.
func (c *Controller) SetWrapMode(mode text.WrapMode) {
	if mode == c.model.WrapMode {
		return
	}
	c.model.WrapMode = mode
	c.ops |= layout.LayoutOperations
}

// SetElideEnabled sets whether overflowing text ends with an ellipsis.
func (c *Controller) SetElideEnabled(enabled bool) {
	if enabled == c.model.ElideEnabled {
		return
	}
	c.model.ElideEnabled = enabled
	c.ops |= layout.LayoutOperations
}

// SetLineSpacing sets the extra space between lines.
func (c *Controller) SetLineSpacing(spacing float64) {
	c.model.LineSpacing = spacing
	c.ops |= layout.LayoutOperations
}

// SetCharacterSpacing sets the extra space after every character.
func (c *Controller) SetCharacterSpacing(spacing float64) {
	c.model.CharacterSpacing = spacing
	c.ops |= layout.LayoutOperations
}

// Relayout brings the model up to date for a control of the given size:
// it applies the queued edits, runs the pending pipeline stages, resolves
// the queued gestures and updates the decorator. It reports whether the
// control has to be rendered again.
func (c *Controller) Relayout(size text.Size) bool {
	if !c.sized || size != c.size {
		c.size, c.sized = size, true
		c.ops |= layout.LayoutOperations
	}
	updated := c.ProcessModifyEvents()

	if c.ops != layout.NoOperation {
		c.runPipeline(c.ops)
		updated = true
	}
	if c.input != nil {
		if c.processInputEvents() {
			updated = true
		}
		if c.input.cursorMoved {
			c.input.cursorMoved = false
			if c.scrollToCursor() {
				updated = true
			}
		}
		if c.input.decoratorDirty {
			c.updateDecorator()
			updated = true
		}
		c.notifyCursor()
	}
	c.flush()
	return updated
}

// runPipeline runs ops and clears them from the pending set.
func (c *Controller) runPipeline(ops layout.Operations) {
	edit := c.edit
	if c.fullEdit {
		edit = nil
	}
	c.pipeline.Relayout(c.model, c.size, ops, edit)
	c.ops &^= ops
	if c.ops&(layout.GetScripts|layout.ValidateFonts) == 0 {
		c.edit, c.fullEdit = nil, false
	}
	if c.input != nil && ops&layout.Layout != 0 {
		c.input.decoratorDirty = true
	}
}

// shape runs the pending stages up to the glyph metrics. The layout stages
// stay pending.
func (c *Controller) shape() {
	c.ProcessModifyEvents()
	if ops := c.ops &^ layout.LayoutOperations; ops != layout.NoOperation {
		c.runPipeline(ops)
	}
}

// measure runs fn on the shaped model. fn lays the text out for another
// box, so the layout of the control size is restored afterwards and the
// cursor and selection geometry keep matching the control.
func (c *Controller) measure(fn func()) {
	c.shape()
	laidOut := c.sized && c.ops&layout.LayoutOperations == 0
	fn()
	if laidOut {
		c.runPipeline(layout.LayoutOperations)
	} else {
		c.ops |= layout.LayoutOperations
	}
}

// NaturalSize returns the size of the text laid out without width limit.
func (c *Controller) NaturalSize() text.Size {
	var s text.Size
	c.measure(func() { s = c.pipeline.NaturalSize(c.model) })
	return s
}

// HeightForWidth returns the height of the text laid out for width.
func (c *Controller) HeightForWidth(width float64) float64 {
	var h float64
	c.measure(func() { h = c.pipeline.HeightForWidth(c.model, width) })
	return h
}

// LineCount returns the number of lines of the text laid out for width.
func (c *Controller) LineCount(width float64) int {
	var n int
	c.measure(func() {
		c.pipeline.HeightForWidth(c.model, width)
		n = c.model.Visual.NumberOfLines()
	})
	return n
}

// textReplaced schedules a full pipeline run for new text.
func (c *Controller) textReplaced() {
	c.ops |= layout.TextOperations
	c.edit, c.fullEdit = nil, true
}

// textEdited schedules a pipeline run after removed characters at index
// were replaced by inserted ones.
func (c *Controller) textEdited(e layout.Edit) {
	c.ops |= layout.TextOperations
	for i := range c.anchors {
		r := &c.anchors[i].CharacterRun
		if e.Removed > 0 && !model.ShiftRun(r, e.Index, -e.Removed) {
			r.NumberOfCharacters = 0
		}
		if e.Inserted > 0 && r.NumberOfCharacters > 0 {
			model.ShiftRun(r, e.Index, e.Inserted)
		}
	}
	c.anchors = slices.DeleteFunc(c.anchors, func(a markup.Anchor) bool { return a.NumberOfCharacters == 0 })
	if c.fullEdit {
		return
	}
	if c.edit == nil {
		c.edit = &e
		return
	}
	merged := mergeEdits(*c.edit, e)
	c.edit = &merged
}

// mergeEdits returns one edit covering a followed by b.
func mergeEdits(a, b layout.Edit) layout.Edit {
	// Map a position of the text after a to the text after b.
	after := func(p int) int {
		switch {
		case p <= b.Index:
			return p
		case p >= b.Index+b.Removed:
			return p - b.Removed + b.Inserted
		default:
			return b.Index + b.Inserted
		}
	}
	start := min(a.Index, b.Index)
	aEnd := a.Index + a.Inserted
	newEnd := max(after(aEnd), b.Index+b.Inserted)
	oldEnd := max(aEnd, b.Index+b.Removed) - a.Inserted + a.Removed
	return layout.Edit{Index: start, Removed: oldEnd - start, Inserted: newEnd - start}
}

// showPlaceholder puts the placeholder in the model while the text is
// empty.
func (c *Controller) showPlaceholder() {
	if c.placeholderShown || len(c.placeholder) == 0 || c.model.NumberOfCharacters() != 0 {
		return
	}
	c.model.Logical.SetText(c.placeholder)
	c.model.TextColor = c.theme.PlaceholderColor
	c.placeholderShown = true
	c.textReplaced()
}

// hidePlaceholder empties the model if it shows the placeholder.
func (c *Controller) hidePlaceholder() {
	if !c.placeholderShown {
		return
	}
	c.model.Logical.SetText(nil)
	c.model.TextColor = c.theme.TextColor
	c.placeholderShown = false
	c.textReplaced()
}

func (c *Controller) notifyTextChanged() {
	c.callback(c.callbacks.TextChanged)
}

// flush calls the queued callbacks. Callbacks may queue further events on
// the controller; those are handled by the next Relayout.
func (c *Controller) flush() {
	pending := c.notify
	c.notify = nil
	for _, fn := range pending {
		fn()
	}
}
