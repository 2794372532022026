package interaction

import (
	"fmt"
	"strings"

	"github.com/matzehuels/layerpaste/pkg/layer"
)

// Event is one of [PasteEvent], [PointerEvent], [KeyEvent] or [WheelEvent].
type Event interface {
	isEvent()
}

// PasteEvent carries an image the user pasted. Width and Height are the
// intrinsic pixel size of the decoded image.
type PasteEvent struct {
	Data   []byte
	Width  int
	Height int
	Origin string
}

// PointerKind distinguishes press, motion and release.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// Button identifies a mouse button.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)

// PointerEvent is a mouse event in screen coordinates. Target is the layer
// under the pointer as hit-tested by the renderer, or [layer.None] for the
// canvas background.
type PointerEvent struct {
	Kind   PointerKind
	Button Button
	X, Y   float64
	Target layer.ID
}

// KeyKind distinguishes key press from key release.
type KeyKind int

const (
	KeyPress KeyKind = iota
	KeyRelease
)

// Key names a key the controller reacts to. Other keys pass through.
type Key string

const (
	KeyArrowUp    Key = "up"
	KeyArrowDown  Key = "down"
	KeyArrowLeft  Key = "left"
	KeyArrowRight Key = "right"
	KeyPageUp     Key = "pgup"
	KeyPageDown   Key = "pgdown"
	KeyDelete     Key = "delete"
	KeyBackspace  Key = "backspace"
	KeyEscape     Key = "esc"
)

// IsMovement reports whether k is an arrow key. Whether an arrow press
// moves or restacks the focused layer depends on modifiers; see
// [KeyEvent.Nudges].
func (k Key) IsMovement() bool {
	switch k {
	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight:
		return true
	}
	return false
}

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every modifier in m is held.
func (mods Modifiers) Has(m Modifiers) bool { return m != 0 && mods&m == m }

// ParseModifier parses a single modifier name as used in configuration
// ("shift", "ctrl", "alt", "meta"). The empty string and "none" parse to 0.
func ParseModifier(s string) (Modifiers, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return 0, nil
	case "shift":
		return ModShift, nil
	case "ctrl", "control":
		return ModCtrl, nil
	case "alt", "option":
		return ModAlt, nil
	case "meta", "cmd", "super":
		return ModMeta, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", s)
}

// KeyEvent is a key press or release with the modifiers held at the time.
type KeyEvent struct {
	Kind KeyKind
	Key  Key
	Mods Modifiers
}

// Reorders reports whether ev changes the stacking order of the focused
// layer: page up/down and alt+up/down go to front/back, ctrl+up/down step
// one level.
func (ev KeyEvent) Reorders() bool {
	switch ev.Key {
	case KeyPageUp, KeyPageDown:
		return true
	case KeyArrowUp, KeyArrowDown:
		return ev.Mods.Has(ModAlt) || ev.Mods.Has(ModCtrl)
	}
	return false
}

// Nudges reports whether ev moves the focused layer. Arrows held with
// ctrl never move.
func (ev KeyEvent) Nudges() bool {
	return ev.Key.IsMovement() && !ev.Mods.Has(ModCtrl) && !ev.Reorders()
}

// WheelEvent is a scroll at screen position (X, Y). Negative DeltaY scrolls
// up, which zooms in.
type WheelEvent struct {
	DeltaY float64
	X, Y   float64
	Mods   Modifiers
}

func (PasteEvent) isEvent()   {}
func (PointerEvent) isEvent() {}
func (KeyEvent) isEvent()     {}
func (WheelEvent) isEvent()   {}
