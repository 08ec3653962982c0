package compositor

import "github.com/xpra-org/wlheadless/internal/wlr"

// handleNewToplevelDecoration unconditionally forces server-side
// decorations: the host always draws the window frame, regardless of what
// the client asked for. The client's original request is still surfaced on
// the bus so embedders can record the preference.
func (c *Compositor) handleNewToplevelDecoration(native wlr.ToplevelDecoration) {
	requestedSSD := native.RequestedMode() == wlr.DecorationModeServerSide

	native.SetMode(wlr.DecorationModeServerSide)

	c.Bus.Emit(EventSSD, SSDEvent{
		Toplevel:           native.Toplevel().Pointer(),
		ClientRequestedSSD: requestedSSD,
	})
}
