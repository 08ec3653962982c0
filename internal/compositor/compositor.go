// Package compositor drives a headless wlroots-backed display server,
// tracks live XDG surfaces under stable window ids, and fans out
// window-management and pixel events to an embedding host over an
// in-process event bus.
package compositor

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
	"golang.org/x/sys/unix"

	"github.com/xpra-org/wlheadless/internal/eventbus"
	"github.com/xpra-org/wlheadless/internal/input"
	"github.com/xpra-org/wlheadless/internal/wlr"
)

// Output geometry for the single headless output created at startup.
const (
	defaultOutputWidth  = 1920
	defaultOutputHeight = 1080

	// Initial configure size sent to a toplevel that commits before ever
	// being configured.
	defaultToplevelWidth  = 800
	defaultToplevelHeight = 600

	compositorProtocolVersion = 5
	xdgShellProtocolVersion   = 3
	seatName                  = "seat0"
)

// Options configures Initialize: output geometry, seat name, default
// keyboard layout, and a runtime-dir override for the Wayland socket. A
// zero field falls back to the same built-in default Initialize always
// used before config wiring existed.
type Options struct {
	OutputWidth, OutputHeight int
	SeatName                  string

	// KeyboardLayout/Model/Variant/Options are passed to the virtual
	// keyboard's SetLayout once it's constructed. An empty Layout skips
	// the call, leaving the XKB context's own environment-derived default.
	KeyboardLayout  string
	KeyboardModel   string
	KeyboardVariant string
	KeyboardOptions string

	// RuntimeDir overrides XDG_RUNTIME_DIR for the Wayland socket
	// directory. Empty defers to whatever's already in the environment.
	RuntimeDir string
}

// Compositor is the singleton-per-process owner of every wlroots lifecycle
// object. Zero value is not usable; construct with New.
type Compositor struct {
	Bus *eventbus.Bus

	opts Options

	display      wlr.Display
	backend      wlr.Backend
	renderer     wlr.Renderer
	allocator    wlr.Allocator
	scene        wlr.Scene
	sceneLayout  wlr.SceneOutputLayout
	outputLayout wlr.OutputLayout

	xdgShell   wlr.XDGShell
	decoration wlr.XDGDecorationManager
	hasDecoMgr bool

	seat      wlr.Seat
	cursor    wlr.Cursor
	cursorMgr wlr.XCursorManager

	virtualKeyboardMgr wlr.VirtualKeyboardManager
	pointer            *input.Pointer
	keyboard           *input.Keyboard

	socketName string

	nextWID  uint64
	surfaces map[uint64]*surfaceRecord
	outputs  map[wlroots.Output]*outputRecord

	stream *FrameStream

	started bool
}

// New allocates a Compositor value configured by opts. Call Initialize
// before using it.
func New(opts Options) *Compositor {
	return &Compositor{
		Bus:      eventbus.New(),
		opts:     opts,
		surfaces: make(map[uint64]*surfaceRecord),
		outputs:  make(map[wlroots.Output]*outputRecord),
	}
}

// Initialize performs the ordered wlroots setup. Any failing step aborts
// the whole call with an error naming that step; partial state is torn
// down via Cleanup before returning.
func (c *Compositor) Initialize() (socket string, err error) {
	defer func() {
		if err != nil {
			c.Cleanup()
		}
	}()

	outputWidth, outputHeight := defaultOutputWidth, defaultOutputHeight
	if c.opts.OutputWidth > 0 {
		outputWidth = c.opts.OutputWidth
	}
	if c.opts.OutputHeight > 0 {
		outputHeight = c.opts.OutputHeight
	}

	if c.opts.RuntimeDir != "" {
		if err = os.Setenv("XDG_RUNTIME_DIR", c.opts.RuntimeDir); err != nil {
			return "", fmt.Errorf("setting XDG_RUNTIME_DIR: %w", err)
		}
	}

	c.display = wlroots.NewDisplay()

	c.backend, err = wlr.NewHeadlessBackend(c.display)
	if err != nil {
		return "", fmt.Errorf("creating headless backend: %w", err)
	}
	if _, err = wlr.AddHeadlessOutput(c.backend, outputWidth, outputHeight); err != nil {
		return "", fmt.Errorf("adding headless output: %w", err)
	}

	c.renderer, err = c.backend.RendererAutoCreate()
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	c.renderer.InitDisplay(c.display)

	c.allocator, err = c.backend.AllocatorAutocreate(c.renderer)
	if err != nil {
		return "", fmt.Errorf("creating allocator: %w", err)
	}

	c.display.CompositorCreate(compositorProtocolVersion, c.renderer)
	c.display.DataDeviceManagerCreate()

	c.xdgShell = c.display.XDGShellCreate(xdgShellProtocolVersion)
	c.xdgShell.OnNewSurface(c.handleNewXDGSurface)

	c.scene = wlroots.NewScene()
	c.outputLayout = wlroots.NewOutputLayout()
	c.sceneLayout = c.scene.AttachOutputLayout(c.outputLayout)

	c.decoration, err = wlr.NewToplevelDecorationManager(c.display)
	if err != nil {
		logrus.WithError(err).Warnln("xdg-decoration manager unavailable, continuing without forced SSD")
		c.hasDecoMgr = false
	} else {
		c.hasDecoMgr = true
		c.decoration.OnNewToplevelDecoration(c.handleNewToplevelDecoration)
	}

	c.cursor = wlroots.NewCursor()
	c.cursor.AttachOutputLayout(c.outputLayout)
	c.cursorMgr = wlroots.NewXCursorManager("", 24)
	c.cursorMgr.Load(1)

	seat := seatName
	if c.opts.SeatName != "" {
		seat = c.opts.SeatName
	}
	c.seat = c.display.SeatCreate(seat)
	c.seat.SetCapabilities(wlr.SeatCapabilityPointer | wlr.SeatCapabilityKeyboard | wlr.SeatCapabilityTouch)

	c.pointer = input.NewPointer(c.seat, c.cursor)

	c.virtualKeyboardMgr = wlr.NewVirtualKeyboardManager(c.display)
	c.keyboard, err = input.NewKeyboard(c.seat, c.virtualKeyboardMgr)
	if err != nil {
		return "", fmt.Errorf("creating virtual keyboard: %w", err)
	}
	if c.opts.KeyboardLayout != "" {
		if err = c.keyboard.SetLayout(c.opts.KeyboardLayout, c.opts.KeyboardModel, c.opts.KeyboardVariant, c.opts.KeyboardOptions); err != nil {
			return "", fmt.Errorf("setting keyboard layout %q: %w", c.opts.KeyboardLayout, err)
		}
	}

	c.backend.OnNewOutput(c.handleNewOutput)

	socket, err = c.display.AddSocketAuto()
	if err != nil {
		return "", fmt.Errorf("allocating wayland socket: %w", err)
	}
	if err = os.Setenv("WAYLAND_DISPLAY", socket); err != nil {
		return "", fmt.Errorf("setting WAYLAND_DISPLAY: %w", err)
	}
	c.socketName = socket

	if err = c.backend.Start(); err != nil {
		return "", fmt.Errorf("starting backend: %w", err)
	}

	c.started = true
	logrus.WithField("socket", socket).Infoln("headless wayland compositor initialized")
	return socket, nil
}

// SocketName returns the auto-allocated socket name set during Initialize.
func (c *Compositor) SocketName() string { return c.socketName }

// GetPointerDevice returns the synthetic pointer facade an embedder drives
// to inject motion, button, and scroll events. Valid after Initialize.
func (c *Compositor) GetPointerDevice() *input.Pointer { return c.pointer }

// GetKeyboardDevice returns the synthetic keyboard facade an embedder drives
// to inject key events and keymap/modifier state. Valid after Initialize.
func (c *Compositor) GetKeyboardDevice() *input.Keyboard { return c.keyboard }

// Run blocks in the display's own event loop until terminated.
func (c *Compositor) Run() error {
	c.display.Run()
	return nil
}

// ProcessEvents performs one non-blocking dispatch plus a client flush, for
// an embedder that owns its own reactor and polls GetEventLoopFD.
func (c *Compositor) ProcessEvents() {
	loop := wlr.GetEventLoop(c.display)
	wlr.DispatchNonBlocking(loop)
	wlr.FlushClients(c.display)
}

// GetEventLoopFD returns the file descriptor an external reactor should
// poll for readability before calling ProcessEvents.
func (c *Compositor) GetEventLoopFD() int {
	return wlr.Fd(wlr.GetEventLoop(c.display))
}

// WaitEventLoopFD blocks up to timeoutMS waiting for the event loop fd to
// become readable, returning false on timeout. A convenience for embedders
// that would otherwise hand-roll their own poll(2) loop around
// GetEventLoopFD.
func (c *Compositor) WaitEventLoopFD(timeoutMS int) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(c.GetEventLoopFD()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, timeoutMS)
	if err != nil {
		return false, fmt.Errorf("polling event loop fd: %w", err)
	}
	return n > 0, nil
}

// Cleanup tears down every lifecycle object in reverse dependency order.
// Idempotent: safe to call multiple times, including from a deferred or
// destructor-style path after a failed Initialize.
func (c *Compositor) Cleanup() {
	if c.display.Nil() {
		return
	}

	if c.stream != nil {
		c.stream.Close()
		c.stream = nil
	}

	c.display.DestroyClients()

	if !c.scene.Nil() {
		c.scene.Tree().Node().Destroy()
	}
	if !c.cursorMgr.Nil() {
		c.cursorMgr.Destroy()
	}
	if !c.outputLayout.Nil() {
		c.outputLayout.Destroy()
	}
	if !c.seat.Nil() {
		c.seat.Destroy()
	}
	if !c.allocator.Nil() {
		c.allocator.Destroy()
	}
	if !c.renderer.Nil() {
		c.renderer.Destroy()
	}
	if !c.backend.Nil() {
		c.backend.Destroy()
	}
	c.display.Destroy()

	c.started = false
	c.display = wlr.Display{}
}

// AcknowledgeSurface sends a frame-done callback for the given surface's
// outputs and flushes the display, letting an embedder pace client repaint
// without waiting for the next output frame. frame-done is a SceneOutput
// notification, not a per-surface one, so every live output is notified;
// a no-op if the surface is unknown or not yet mapped.
func (c *Compositor) AcknowledgeSurface(wid uint64) {
	rec, ok := c.surfaces[wid]
	if !ok || !rec.mapped {
		return
	}
	now := time.Now()
	for _, out := range c.outputs {
		if out.alive {
			out.sceneOutput.SendFrameDone(now)
		}
	}
	wlr.FlushClients(c.display)
}
