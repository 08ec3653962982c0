// Package input is the synthetic input seat facade: pointer and keyboard
// handles an embedder drives directly, since a headless compositor has no
// real input hardware of its own. Grounded on server.go's cursor/seat
// wiring (handleCursorMotion, handleCursorButton, handleNewKeyboard),
// reworked from "translate real device events" to "inject events on
// behalf of a remote embedder."
package input

import (
	"github.com/swaywm/go-wlroots/wlroots"

	"github.com/xpra-org/wlheadless/internal/wlr"
)

// Pointer injects synthetic pointer motion, button, and scroll events into
// the seat, and controls pointer focus directly (there is no real hardware
// to generate enter/leave on a headless backend).
type Pointer struct {
	seat   wlr.Seat
	cursor wlr.Cursor
}

// NewPointer builds the pointer facade from the seat and cursor handles
// created during Compositor.Initialize.
func NewPointer(seat wlr.Seat, cursor wlr.Cursor) *Pointer {
	return &Pointer{seat: seat, cursor: cursor}
}

// Move warps the cursor to absolute layout coordinates. Whoever currently
// holds pointer focus (set via SetFocus) is notified of the motion in its
// own surface-local coordinates.
func (p *Pointer) Move(timeMS uint32, x, y float64, focusedSX, focusedSY float64) {
	p.cursor.WarpClosest(wlroots.InputDevice{}, x, y)
	p.seat.NotifyPointerMotion(timeMS, focusedSX, focusedSY)
}

// Button injects a synthetic pointer button event.
func (p *Pointer) Button(timeMS uint32, button uint32, pressed bool) {
	state := wlroots.ButtonStateReleased
	if pressed {
		state = wlroots.ButtonStatePressed
	}
	p.seat.NotifyPointerButton(timeMS, button, state)
}

// Scroll injects a synthetic scroll-axis event followed by a pointer frame,
// matching the source's OnAxis/OnFrame pairing.
func (p *Pointer) Scroll(timeMS uint32, orientation wlr.AxisOrientation, delta float64, deltaDiscrete int32) {
	p.seat.NotifyPointerAxis(timeMS, orientation, delta, deltaDiscrete, wlroots.AxisSourceWheel)
	p.seat.NotifyPointerFrame()
}

// SetFocus gives the given surface pointer focus at the given surface-local
// coordinates, or clears focus entirely if surface is the zero value.
func (p *Pointer) SetFocus(surface wlr.Surface, sx, sy float64) {
	if surface.Nil() {
		p.seat.ClearPointerFocus()
		return
	}
	p.seat.NotifyPointerEnter(surface, sx, sy)
}
