package controller

import (
	"unicode"

	"github.com/gogpu/textkit/text"
)

const unknown = "Unknown"

// State is the editing state of a controller with text input enabled.
type State uint8

const (
	// StateInactive shows no decoration.
	StateInactive State = iota
	// StateEditing shows the cursor and the grab handle.
	StateEditing
	// StateSelecting shows the selection, its handles and the popup.
	StateSelecting
	// StateGrabHandlePanning follows a dragged grab handle.
	StateGrabHandlePanning
	// StateSelectionHandlePanning follows a dragged selection handle.
	StateSelectionHandlePanning
	// StateTextPanning scrolls the text.
	StateTextPanning
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "Inactive"
	case StateEditing:
		return "Editing"
	case StateSelecting:
		return "Selecting"
	case StateGrabHandlePanning:
		return "GrabHandlePanning"
	case StateSelectionHandlePanning:
		return "SelectionHandlePanning"
	case StateTextPanning:
		return "TextPanning"
	default:
		return unknown
	}
}

// GestureState is the phase of a continuous gesture.
type GestureState uint8

const (
	GestureStarted GestureState = iota
	GestureContinuing
	GestureFinished
	GestureCancelled
)

// HandleState is the phase of a handle interaction.
type HandleState uint8

const (
	HandlePressed HandleState = iota
	HandleMoved
	HandleReleased
)

// SelectionType is the kind of a SelectEvent.
type SelectionType uint8

const (
	// SelectWord selects the word under the event position.
	SelectWord SelectionType = iota
	// SelectAll selects the whole text.
	SelectAll
	// SelectNone clears the selection and keeps the cursor.
	SelectNone
)

// KeyCode identifies a key.
type KeyCode uint8

const (
	// KeyRune inserts Key.Rune.
	KeyRune KeyCode = iota
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyEnter
	KeyEscape
)

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
)

// Key is a key press.
type Key struct {
	Code      KeyCode
	Rune      rune
	Modifiers Modifier
}

// inputKind enumerates the events resolved against the laid out text.
type inputKind uint8

const (
	inputTap inputKind = iota
	inputPan
	inputLongPress
	inputSelect
	inputDecoration
	inputKey
)

// inputEvent is a queued gesture. Positions are in control coordinates.
type inputEvent struct {
	kind      inputKind
	taps      int
	pos       text.Vector2
	gesture   GestureState
	handle    Handle
	handleOp  HandleState
	selection SelectionType
	key       Key
}

// modifyKind enumerates the queued model edits.
type modifyKind uint8

const (
	modifyInsert modifyKind = iota
	modifyDeleteBackward
	modifyDeleteForward
	modifyMoveCursor
	modifySetCursor
	modifySelectRange
	modifySelectAll
	modifySelectNone
	modifyCopy
	modifyCut
	modifyPaste
)

// modifyEvent is a queued edit of the logical model. Indices are resolved
// when the event is processed, so events apply on top of each other.
type modifyEvent struct {
	kind   modifyKind
	chars  []text.Character
	start  int
	end    int
	key    Key
	extend bool
}

// TapEvent handles a tap at (x, y). One tap places the cursor, two taps
// select the word under the position.
func (c *Controller) TapEvent(taps int, x, y float64) {
	if c.input == nil {
		return
	}
	c.input.events = append(c.input.events, inputEvent{kind: inputTap, taps: taps, pos: text.Vector2{X: x, Y: y}})
}

// PanEvent scrolls the text by displacement.
func (c *Controller) PanEvent(state GestureState, displacement text.Vector2) {
	if c.input == nil {
		return
	}
	c.input.events = append(c.input.events, inputEvent{kind: inputPan, gesture: state, pos: displacement})
}

// LongPressEvent selects the word under (x, y) when the press starts, or
// shows the popup over an empty text.
func (c *Controller) LongPressEvent(state GestureState, x, y float64) {
	if c.input == nil {
		return
	}
	c.input.events = append(c.input.events, inputEvent{kind: inputLongPress, gesture: state, pos: text.Vector2{X: x, Y: y}})
}

// SelectEvent changes the selection.
func (c *Controller) SelectEvent(x, y float64, kind SelectionType) {
	if c.input == nil {
		return
	}
	switch kind {
	case SelectAll:
		c.modify = append(c.modify, modifyEvent{kind: modifySelectAll})
	case SelectNone:
		c.modify = append(c.modify, modifyEvent{kind: modifySelectNone})
	default:
		c.input.events = append(c.input.events, inputEvent{kind: inputSelect, selection: kind, pos: text.Vector2{X: x, Y: y}})
	}
}

// DecorationEvent reports an interaction with a handle drawn by the
// decorator.
func (c *Controller) DecorationEvent(h Handle, state HandleState, x, y float64) {
	if c.input == nil {
		return
	}
	c.input.events = append(c.input.events, inputEvent{kind: inputDecoration, handle: h, handleOp: state, pos: text.Vector2{X: x, Y: y}})
}

// KeyEvent handles a key press and reports whether it was consumed. Edits
// are queued and applied by the next Relayout.
func (c *Controller) KeyEvent(k Key) bool {
	if c.input == nil {
		return false
	}
	extend := k.Modifiers&ModShift != 0
	if k.Modifiers&ModCtrl != 0 {
		var kind modifyKind
		switch k.Rune {
		case 'a', 'A':
			kind = modifySelectAll
		case 'c', 'C':
			kind = modifyCopy
		case 'x', 'X':
			kind = modifyCut
		case 'v', 'V':
			kind = modifyPaste
		default:
			return false
		}
		c.modify = append(c.modify, modifyEvent{kind: kind})
		return true
	}

	switch k.Code {
	case KeyRune:
		if unicode.IsControl(k.Rune) {
			return false
		}
		c.modify = append(c.modify, modifyEvent{kind: modifyInsert, chars: []text.Character{k.Rune}})
	case KeyEnter:
		if !c.model.MultiLine {
			return false
		}
		c.modify = append(c.modify, modifyEvent{kind: modifyInsert, chars: []text.Character{text.CharLineFeed}})
	case KeyBackspace:
		c.modify = append(c.modify, modifyEvent{kind: modifyDeleteBackward})
	case KeyDelete:
		c.modify = append(c.modify, modifyEvent{kind: modifyDeleteForward})
	case KeyLeft, KeyRight:
		c.modify = append(c.modify, modifyEvent{kind: modifyMoveCursor, key: k, extend: extend})
	case KeyUp, KeyDown, KeyHome, KeyEnd:
		c.input.events = append(c.input.events, inputEvent{kind: inputKey, key: k})
	case KeyEscape:
		c.modify = append(c.modify, modifyEvent{kind: modifySelectNone})
	default:
		return false
	}
	return true
}

// AnchorEvent reports whether (x, y) is over an anchor of the markup text
// and calls the AnchorClicked callback with its reference.
func (c *Controller) AnchorEvent(x, y float64) bool {
	if len(c.anchors) == 0 || c.placeholderShown {
		return false
	}
	index, ok := c.characterAt(text.Vector2{X: x, Y: y})
	if !ok {
		return false
	}
	for _, a := range c.anchors {
		if a.Contains(index) {
			if c.callbacks.AnchorClicked != nil {
				c.callbacks.AnchorClicked(a.Href)
			}
			return true
		}
	}
	return false
}

// InsertText queues the insertion of s at the cursor, replacing the
// selection.
func (c *Controller) InsertText(s string) {
	if c.input == nil {
		return
	}
	chars, _ := text.StringToUtf32(s)
	c.modify = append(c.modify, modifyEvent{kind: modifyInsert, chars: chars})
}

// SetCursorPosition queues a cursor move to index. The index is clamped
// to the text.
func (c *Controller) SetCursorPosition(index int) {
	if c.input == nil {
		return
	}
	c.modify = append(c.modify, modifyEvent{kind: modifySetCursor, start: index})
}

// SelectRange queues the selection of [start, end). Indices are clamped
// to the text.
func (c *Controller) SelectRange(start, end int) {
	if c.input == nil {
		return
	}
	c.modify = append(c.modify, modifyEvent{kind: modifySelectRange, start: start, end: end})
}

// Copy queues a copy of the selection to the clipboard.
func (c *Controller) Copy() { c.queue(modifyCopy) }

// Cut queues a copy of the selection to the clipboard and its removal.
func (c *Controller) Cut() { c.queue(modifyCut) }

// Paste queues the insertion of the clipboard text.
func (c *Controller) Paste() { c.queue(modifyPaste) }

func (c *Controller) queue(kind modifyKind) {
	if c.input == nil {
		return
	}
	c.modify = append(c.modify, modifyEvent{kind: kind})
}
