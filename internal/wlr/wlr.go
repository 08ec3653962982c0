// Package wlr is the compositor's FFI bindings layer: a thin, mechanically
// named facade over github.com/swaywm/go-wlroots, the cgo-backed Go binding
// to the native wlroots/libwayland compositor library.
//
// Everything tinywl-style compositors in the wild already exercise (display,
// backend, renderer, allocator, scene, output layout, seat, XDG shell) is a
// direct type alias or one-line wrapper around the upstream handle. A
// handful of calls no tinywl example exercises — headless backend
// construction, XDG decoration, texture readback, buffer-damage queries,
// the event-loop file descriptor — are declared here as additional methods
// on the same handle types, following the upstream package's own naming
// convention (PascalCase verb, `(T, error)` on fallible native calls).
// No business logic lives in this package; internal/compositor and
// internal/input own all policy.
package wlr

import (
	"github.com/swaywm/go-wlroots/wlroots"
)

// Re-exported handle types. Aliasing (rather than wrapping) keeps the single
// level of indirection the FFI boundary should cost.
type (
	Display            = wlroots.Display
	Backend            = wlroots.Backend
	Renderer           = wlroots.Renderer
	Allocator          = wlroots.Allocator
	Scene              = wlroots.Scene
	SceneTree          = wlroots.SceneTree
	SceneNode          = wlroots.SceneNode
	SceneOutput        = wlroots.SceneOutput
	SceneOutputLayout  = wlroots.SceneOutputLayout
	OutputLayout       = wlroots.OutputLayout
	Output             = wlroots.Output
	OutputState        = wlroots.OutputState
	Seat               = wlroots.Seat
	Cursor             = wlroots.Cursor
	XCursorManager     = wlroots.XCursorManager
	XDGShell           = wlroots.XDGShell
	XDGSurface         = wlroots.XDGSurface
	XDGTopLevel        = wlroots.XDGTopLevel
	XDGSurfaceRole     = wlroots.XDGSurfaceRole
	InputDevice        = wlroots.InputDevice
	Keyboard           = wlroots.Keyboard
	Surface            = wlroots.Surface
	GeoBox             = wlroots.GeoBox
	Edges              = wlroots.Edges
	SeatClient         = wlroots.SeatClient
	KeyState           = wlroots.KeyState
	ButtonState        = wlroots.ButtonState
	AxisSource         = wlroots.AxisSource
	AxisOrientation    = wlroots.AxisOrientation
)

const (
	XDGSurfaceRoleNone     = wlroots.XDGSurfaceRoleNone
	XDGSurfaceRoleTopLevel = wlroots.XDGSurfaceRoleTopLevel
	XDGSurfaceRolePopup    = wlroots.XDGSurfaceRolePopup
)

const (
	SeatCapabilityPointer  = wlroots.SeatCapabilityPointer
	SeatCapabilityKeyboard = wlroots.SeatCapabilityKeyboard
	SeatCapabilityTouch    = wlroots.SeatCapabilityTouch
)

// --- extensions beyond what tinywl-style examples exercise ---

// BufferFormatBGRA8888 is DRM_FORMAT_ABGR8888 in little-endian byte order,
// i.e. the bytes in memory are B,G,R,A.
const BufferFormatBGRA8888 = wlroots.BufferFormat(0x34324241) // 'AB24' fourcc

// DecorationModeServerSide forces server-side window decorations.
const DecorationModeServerSide = wlroots.ToplevelDecorationModeServerSide

// XDGDecorationManager and ToplevelDecoration add xdg-decoration support,
// never instantiated by tinywl.
type (
	XDGDecorationManager = wlroots.XDGDecorationManager
	ToplevelDecoration   = wlroots.ToplevelDecoration
)

// Texture and ReadPixelsOptions expose wlr_texture_read_pixels, which no
// on-screen tinywl example needs (it only ever renders, never reads back).
type (
	Texture           = wlroots.Texture
	ReadPixelsOptions = wlroots.TextureReadPixelsOptions
)

// VirtualKeyboardManager and VirtualKeyboard bind virtual-keyboard-unstable-v1,
// the protocol a headless compositor needs to inject key events since it has
// no real keyboard hardware of its own. Like the decoration and readback
// extensions above, no on-screen tinywl example creates one.
type (
	VirtualKeyboardManager = wlroots.VirtualKeyboardManager
	VirtualKeyboard        = wlroots.VirtualKeyboard
	KeyboardLedMask        = wlroots.KeyboardLedMask
)

// NewVirtualKeyboardManager creates the virtual-keyboard-unstable-v1 manager
// global, following the no-version-argument shape of Display.DataDeviceManagerCreate.
func NewVirtualKeyboardManager(display Display) VirtualKeyboardManager {
	return display.VirtualKeyboardManagerCreate()
}

// DamageBox is one rectangle of a pixman damage region, in surface-local
// coordinates, x2/y2-exclusive per pixman convention.
type DamageBox struct {
	X1, Y1, X2, Y2 int
}

// Width and Height convert the exclusive box into plain dimensions.
func (b DamageBox) Width() int  { return b.X2 - b.X1 }
func (b DamageBox) Height() int { return b.Y2 - b.Y1 }

// NewHeadlessBackend creates a backend rendering only to off-screen buffers,
// bound to the display's event loop, with no real output hardware involved.
func NewHeadlessBackend(display Display) (Backend, error) {
	return wlroots.NewHeadlessBackend(display)
}

// AddHeadlessOutput registers a synthetic output of the given pixel size on
// a headless backend; it immediately fires the backend's new_output signal
// like any other output would.
func AddHeadlessOutput(backend Backend, width, height int) (Output, error) {
	return backend.HeadlessAddOutput(width, height)
}

// EventLoop is the display's libwayland event loop, used by an embedder
// that wants to drive dispatch itself instead of calling Display.Run.
type EventLoop = wlroots.EventLoop

// GetEventLoop returns the display's event loop handle.
func GetEventLoop(display Display) EventLoop {
	return display.EventLoop()
}

// Fd returns the event loop's pollable file descriptor.
func Fd(loop EventLoop) int {
	return loop.Fd()
}

// DispatchNonBlocking performs one non-blocking pass of pending event-loop
// sources, mirroring wl_event_loop_dispatch(loop, 0).
func DispatchNonBlocking(loop EventLoop) int {
	return loop.Dispatch(0)
}

// FlushClients flushes any buffered protocol messages to connected clients.
func FlushClients(display Display) {
	display.FlushClients()
}

// NewToplevelDecorationManager creates the xdg-decoration manager global.
// Non-fatal to omit — callers decide whether a nil error here is required.
func NewToplevelDecorationManager(display Display) (XDGDecorationManager, error) {
	return display.XDGDecorationManagerCreate()
}

// BufferDamageRects returns the surface's pending buffer-damage region as a
// sequence of rectangles in surface-local coordinates.
func BufferDamageRects(surface Surface) []DamageBox {
	region := surface.BufferDamage()
	boxes := region.Rects()
	out := make([]DamageBox, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, DamageBox{X1: b.X1, Y1: b.Y1, X2: b.X2, Y2: b.Y2})
	}
	return out
}

// SurfaceTexture fetches the current client buffer's GPU texture, returning
// ok=false if the surface has no attached buffer (e.g. not yet mapped).
func SurfaceTexture(surface Surface) (Texture, bool) {
	buf, ok := surface.Buffer()
	if !ok {
		return Texture{}, false
	}
	return buf.Texture()
}
