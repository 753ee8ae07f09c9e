package controller

import (
	"github.com/gogpu/textkit"
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/layout"
	"github.com/gogpu/textkit/text/segmentation"
)

// inputState is the editing state of a controller with text input enabled.
// The selection is [min(anchor, cursor), max(anchor, cursor)); it is empty
// when anchor equals cursor.
type inputState struct {
	decorator Decorator
	state     State
	popup     bool
	events    []inputEvent

	// resume is the state restored when a pan ends.
	resume State

	cursor int
	anchor int
	// reported is the cursor position last passed to
	// CursorPositionChanged.
	reported int

	decoratorDirty bool
	cursorMoved    bool
}

func (s *inputState) selection() (int, int) {
	return min(s.anchor, s.cursor), max(s.anchor, s.cursor)
}

func (s *inputState) hasSelection() bool { return s.anchor != s.cursor }

// State returns the editing state. It is StateInactive without text input.
func (c *Controller) State() State {
	if c.input == nil {
		return StateInactive
	}
	return c.input.state
}

// Cursor returns the cursor position as a character index.
func (c *Controller) Cursor() int {
	if c.input == nil {
		return 0
	}
	return c.input.cursor
}

// Selection returns the selected character range. start equals end when
// nothing is selected.
func (c *Controller) Selection() (start, end int) {
	if c.input == nil {
		return 0, 0
	}
	return c.input.selection()
}

// SelectedText returns the selected text.
func (c *Controller) SelectedText() string {
	start, end := c.Selection()
	chars := c.chars()
	if end > len(chars) || start >= end {
		return ""
	}
	return text.Utf32ToString(chars[start:end])
}

// chars returns the editable text: empty while the placeholder is shown.
func (c *Controller) chars() []text.Character {
	if c.placeholderShown {
		return nil
	}
	return c.model.Logical.Text()
}

// ProcessModifyEvents applies the queued edits in order. Relayout calls
// it first; it reports whether the text, the cursor or the selection
// changed.
func (c *Controller) ProcessModifyEvents() bool {
	if len(c.modify) == 0 {
		return false
	}
	events := c.modify
	c.modify = nil
	if c.input == nil {
		return false
	}
	changed := false
	for _, ev := range events {
		if c.applyModify(ev) {
			changed = true
		}
	}
	textkit.Logger().Debug("controller: modify events",
		"count", len(events), "operations", c.ops.String())
	return changed
}

func (c *Controller) applyModify(ev modifyEvent) bool {
	in := c.input
	chars := c.chars()
	n := len(chars)
	switch ev.kind {
	case modifyInsert:
		return c.insert(ev.chars)
	case modifyDeleteBackward:
		if in.hasSelection() {
			return c.deleteSelection()
		}
		if in.cursor == 0 {
			return false
		}
		run := segmentation.GetCharacterRun(chars, in.cursor-1)
		return c.remove(run.CharacterIndex, in.cursor-run.CharacterIndex)
	case modifyDeleteForward:
		if in.hasSelection() {
			return c.deleteSelection()
		}
		if in.cursor >= n {
			return false
		}
		run := segmentation.GetCharacterRun(chars, in.cursor)
		return c.remove(in.cursor, run.End()-in.cursor)
	case modifyMoveCursor:
		return c.moveCursor(ev.key, ev.extend)
	case modifySetCursor:
		return c.moveTo(c.snap(ev.start), false)
	case modifySelectRange:
		start, end := c.snap(ev.start), c.snap(ev.end)
		in.anchor = min(start, end)
		return c.moveTo(max(start, end), true)
	case modifySelectAll:
		if n == 0 {
			return false
		}
		in.anchor = 0
		in.popup = true
		return c.moveTo(n, true)
	case modifySelectNone:
		if !in.hasSelection() {
			return false
		}
		in.popup = false
		return c.moveTo(in.cursor, false)
	case modifyCopy:
		c.copySelection()
		return false
	case modifyCut:
		if !c.copySelection() {
			return false
		}
		return c.deleteSelection()
	case modifyPaste:
		pasted, _ := text.StringToUtf32(c.clipboard.Text())
		if len(pasted) == 0 {
			return false
		}
		return c.insert(pasted)
	}
	return false
}

// insert replaces the selection with chars after filtering and length
// limiting.
func (c *Controller) insert(chars []text.Character) bool {
	if c.filter != nil {
		s := text.Utf32ToString(chars)
		if filtered := c.filter(s); filtered != s {
			chars, _ = text.StringToUtf32(filtered)
			c.callback(c.callbacks.InputFiltered)
		}
	}
	in := c.input
	start, end := in.selection()
	if c.maxLength > 0 {
		room := max(0, c.maxLength-(len(c.chars())-(end-start)))
		if len(chars) > room {
			chars = chars[:segmentation.ClusterBoundary(chars, room)]
			c.callback(c.callbacks.MaxLengthReached)
		}
	}
	if len(chars) == 0 && start == end {
		return false
	}

	c.hidePlaceholder()
	logical := c.model.Logical
	if end > start {
		logical.RemoveText(start, end-start)
	}
	logical.InsertText(start, chars)
	c.textEdited(layout.Edit{Index: start, Removed: end - start, Inserted: len(chars)})
	c.edited(start + len(chars))
	return true
}

func (c *Controller) remove(index, count int) bool {
	index, count = c.model.Logical.RemoveText(index, count)
	if count == 0 {
		return false
	}
	c.textEdited(layout.Edit{Index: index, Removed: count})
	c.edited(index)
	return true
}

func (c *Controller) deleteSelection() bool {
	start, end := c.input.selection()
	return c.remove(start, end-start)
}

// edited collapses the selection at cursor after a text change.
func (c *Controller) edited(cursor int) {
	in := c.input
	in.cursor, in.anchor = cursor, cursor
	in.state = StateEditing
	in.popup = false
	in.decoratorDirty = true
	in.cursorMoved = true
	c.showPlaceholder()
	c.notifyTextChanged()
}

func (c *Controller) copySelection() bool {
	in := c.input
	if !in.hasSelection() {
		return false
	}
	c.clipboard.SetText(c.SelectedText())
	return true
}

// moveCursor moves the cursor one grapheme cluster in logical order.
// Without extend an existing selection collapses to its edge instead.
func (c *Controller) moveCursor(k Key, extend bool) bool {
	in := c.input
	if in.hasSelection() && !extend {
		start, end := in.selection()
		if k.Code == KeyLeft {
			return c.moveTo(start, false)
		}
		return c.moveTo(end, false)
	}
	chars := c.chars()
	pos := in.cursor
	switch k.Code {
	case KeyLeft:
		if pos > 0 {
			pos = segmentation.GetCharacterRun(chars, pos-1).CharacterIndex
		}
	case KeyRight:
		if pos < len(chars) {
			pos = segmentation.GetCharacterRun(chars, pos).End()
		}
	}
	return c.moveTo(pos, extend)
}

// moveTo places the cursor at pos. With keep the selection anchor stays
// where it is, otherwise the selection collapses.
func (c *Controller) moveTo(pos int, keep bool) bool {
	in := c.input
	oldStart, oldEnd := in.selection()
	oldCursor := in.cursor
	in.cursor = pos
	if !keep {
		in.anchor = pos
	}
	switch {
	case in.hasSelection():
		if in.state != StateSelectionHandlePanning {
			in.state = StateSelecting
		}
	case in.state == StateSelecting || in.state == StateInactive:
		in.state = StateEditing
	}
	start, end := in.selection()
	if start == oldStart && end == oldEnd && pos == oldCursor {
		return false
	}
	in.decoratorDirty = true
	in.cursorMoved = true
	return true
}

// snap clamps index to the text and moves it to the start of the grapheme
// cluster it falls into.
func (c *Controller) snap(index int) int {
	chars := c.chars()
	index = max(0, min(index, len(chars)))
	if index == len(chars) {
		return index
	}
	run := segmentation.GetCharacterRun(chars, index)
	if index > run.CharacterIndex {
		return run.CharacterIndex
	}
	return index
}

// callback queues fn for the end of Relayout.
func (c *Controller) callback(fn func()) {
	if fn != nil {
		c.notify = append(c.notify, fn)
	}
}

// notifyCursor queues CursorPositionChanged when the cursor moved since
// it was last reported.
func (c *Controller) notifyCursor() {
	in := c.input
	if in.cursor == in.reported {
		return
	}
	old := in.reported
	in.reported = in.cursor
	if cb := c.callbacks.CursorPositionChanged; cb != nil {
		c.notify = append(c.notify, func() { cb(old) })
	}
}
