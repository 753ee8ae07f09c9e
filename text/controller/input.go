package controller

import (
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/layout"
	"github.com/gogpu/textkit/text/segmentation"
)

// processInputEvents resolves the queued gestures against the current
// layout. It reports whether anything visible changed.
func (c *Controller) processInputEvents() bool {
	in := c.input
	if len(in.events) == 0 {
		return false
	}
	events := in.events
	in.events = nil
	updated := false
	for _, ev := range events {
		var changed bool
		switch ev.kind {
		case inputTap:
			changed = c.onTap(ev)
		case inputPan:
			changed = c.onPan(ev)
		case inputLongPress:
			changed = c.onLongPress(ev)
		case inputSelect:
			changed = c.selectWordAt(ev.pos)
		case inputDecoration:
			changed = c.onDecoration(ev)
		case inputKey:
			changed = c.onKey(ev.key)
		}
		updated = updated || changed
	}
	return updated
}

func (c *Controller) onTap(ev inputEvent) bool {
	in := c.input
	if ev.taps >= 2 {
		return c.selectWordAt(ev.pos)
	}
	wasActive := in.state != StateInactive
	in.popup = false
	moved := c.moveTo(c.cursorIndexAt(ev.pos), false)
	in.state = StateEditing
	if !wasActive {
		in.decoratorDirty = true
		return true
	}
	return moved
}

func (c *Controller) onPan(ev inputEvent) bool {
	in := c.input
	switch ev.gesture {
	case GestureStarted:
		if in.state != StateTextPanning {
			in.resume = in.state
		}
		in.state = StateTextPanning
	case GestureFinished, GestureCancelled:
		in.state = in.resume
		return false
	}

	m := c.model
	before := m.ScrollPosition
	if m.MultiLine {
		m.ScrollPosition.Y += ev.pos.Y
	} else {
		m.ScrollPosition.X += ev.pos.X
	}
	layout.ClampScroll(m, c.size)
	if m.ScrollPosition == before {
		return false
	}
	in.decoratorDirty = true
	return true
}

func (c *Controller) onLongPress(ev inputEvent) bool {
	if ev.gesture != GestureStarted {
		return false
	}
	in := c.input
	if len(c.chars()) == 0 {
		in.state = StateEditing
		in.popup = true
		in.decoratorDirty = true
		return true
	}
	return c.selectWordAt(ev.pos)
}

// selectWordAt selects the word under p. A position after the end of a
// word selects that word.
func (c *Controller) selectWordAt(p text.Vector2) bool {
	chars := c.chars()
	if len(chars) == 0 {
		return false
	}
	index := c.cursorIndexAt(p)
	if index == len(chars) || (index > 0 && text.IsWhiteSpace(chars[index]) && !text.IsWhiteSpace(chars[index-1])) {
		index--
	}
	breaks := c.model.Logical.WordBreakInfo()
	if len(breaks) != len(chars) {
		breaks = segmentation.WordBreakInfo(chars)
	}
	start := index
	for start > 0 && breaks[start-1] != text.WordBreak {
		start--
	}
	end := index
	for end < len(chars)-1 && breaks[end] != text.WordBreak {
		end++
	}
	end++

	in := c.input
	in.anchor = start
	in.popup = true
	c.moveTo(end, true)
	in.decoratorDirty = true
	return true
}

func (c *Controller) onDecoration(ev inputEvent) bool {
	in := c.input
	if ev.handle == GrabHandle {
		switch ev.handleOp {
		case HandlePressed:
			in.state = StateGrabHandlePanning
			return false
		case HandleMoved:
			moved := c.moveTo(c.cursorIndexAt(ev.pos), false)
			in.state = StateGrabHandlePanning
			return moved
		default:
			in.state = StateEditing
			in.decoratorDirty = true
			return true
		}
	}

	switch ev.handleOp {
	case HandlePressed:
		in.state = StateSelectionHandlePanning
		return false
	case HandleReleased:
		in.state = StateEditing
		if in.hasSelection() {
			in.state = StateSelecting
		}
		in.decoratorDirty = true
		return true
	}

	start, end := in.selection()
	index := c.cursorIndexAt(ev.pos)
	if ev.handle == LeftSelectionHandle {
		start = index
	} else {
		end = index
	}
	if start == end {
		// A selection never collapses while a handle is dragged.
		return false
	}
	in.anchor = min(start, end)
	return c.moveTo(max(start, end), true)
}

func (c *Controller) onKey(k Key) bool {
	in := c.input
	extend := k.Modifiers&ModShift != 0
	lines := c.model.Visual.Lines()
	if len(lines) == 0 {
		return false
	}
	info := c.CursorInfo(in.cursor)
	x := info.X - c.origin().X
	var pos int
	switch k.Code {
	case KeyUp:
		if info.Line == 0 {
			pos = 0
		} else {
			pos = c.indexOnLine(info.Line-1, x)
		}
	case KeyDown:
		if info.Line == len(lines)-1 {
			pos = len(c.chars())
		} else {
			pos = c.indexOnLine(info.Line+1, x)
		}
	case KeyHome:
		pos = lines[info.Line].Characters.CharacterIndex
	case KeyEnd:
		pos = c.lineEnd(lines[info.Line])
	default:
		return false
	}
	return c.moveTo(pos, extend)
}

// scrollToCursor scrolls the text so the cursor is inside the control:
// horizontally in single-line mode, vertically in multi-line mode. It
// reports whether the scroll position changed.
func (c *Controller) scrollToCursor() bool {
	m := c.model
	before := m.ScrollPosition
	info := c.CursorInfo(c.input.cursor)
	if m.MultiLine {
		switch {
		case info.Y < 0:
			m.ScrollPosition.Y -= info.Y
		case info.Y+info.Height > c.size.Height:
			m.ScrollPosition.Y -= info.Y + info.Height - c.size.Height
		}
	} else {
		switch {
		case info.X < 0:
			m.ScrollPosition.X -= info.X
		case info.X > c.size.Width:
			m.ScrollPosition.X -= info.X - c.size.Width
		}
	}
	layout.ClampScroll(m, c.size)
	return m.ScrollPosition != before
}

// updateDecorator sends the decorations of the current state to the
// decorator.
func (c *Controller) updateDecorator() {
	in := c.input
	in.decoratorDirty = false
	d := in.decorator
	if d == nil {
		return
	}
	if in.state == StateInactive {
		d.SetCursor(false, CursorInfo{})
		d.SetHandle(GrabHandle, false, CursorInfo{})
		d.SetHandle(LeftSelectionHandle, false, CursorInfo{})
		d.SetHandle(RightSelectionHandle, false, CursorInfo{})
		d.SetSelection(nil)
		d.SetPopupActive(false)
		return
	}
	if !in.hasSelection() {
		cursor := c.CursorInfo(in.cursor)
		d.SetCursor(true, cursor)
		d.SetHandle(GrabHandle, true, cursor)
		d.SetHandle(LeftSelectionHandle, false, CursorInfo{})
		d.SetHandle(RightSelectionHandle, false, CursorInfo{})
		d.SetSelection(nil)
		d.SetPopupActive(in.popup)
		return
	}
	start, end := in.selection()
	d.SetCursor(false, CursorInfo{})
	d.SetHandle(GrabHandle, false, CursorInfo{})
	d.SetHandle(LeftSelectionHandle, true, c.CursorInfo(start))
	d.SetHandle(RightSelectionHandle, true, c.CursorInfo(end))
	d.SetSelection(c.SelectionBoxes(start, end))
	d.SetPopupActive(in.popup && in.state != StateSelectionHandlePanning)
}
