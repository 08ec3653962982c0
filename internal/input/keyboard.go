package input

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
	"github.com/swaywm/go-wlroots/xkb"

	"github.com/xpra-org/wlheadless/internal/wlr"
)

// ErrNilSeat is returned by NewKeyboard when constructed with a nil seat,
// rejecting construction up front rather than risking a later dereference
// of a never-assigned keyboard member.
var ErrNilSeat = errors.New("input: keyboard facade requires a non-nil seat")

// moduleEpoch is the package-load time every Keyboard stamps key events
// against.
var moduleEpoch = time.Now()

// Keyboard is a virtual keyboard bound to the seat, used by an embedder to
// inject synthetic key events and keymap/modifier state. epoch is the
// module-load time key events are timestamped against: a millisecond
// timestamp measured from package load, monotonic.
type Keyboard struct {
	seat    wlr.Seat
	virtual wlr.VirtualKeyboard
	epoch   time.Time
}

// NewKeyboard constructs the virtual-keyboard device and binds it to seat.
// Fails if seat is the zero value.
func NewKeyboard(seat wlr.Seat, manager wlr.VirtualKeyboardManager) (*Keyboard, error) {
	if seat.Nil() {
		return nil, ErrNilSeat
	}
	virtual := manager.CreateVirtualKeyboard(seat)
	kb := &Keyboard{seat: seat, virtual: virtual, epoch: moduleEpoch}
	virtual.OnLed(func(leds wlr.KeyboardLedMask) {
		logrus.WithField("leds", leds).Debugln("virtual keyboard LED state changed")
	})
	return kb, nil
}

// SetLayout builds an XKB context and keymap for the given rule names,
// binds it to the virtual keyboard, and releases the transient context and
// keymap. The go-wlroots xkb binding only exposes a zero-argument
// Context.KeyMap(), which resolves rule names the same way libxkbcommon's
// xkb_keymap_new_from_names does when passed no explicit rules: from the
// XKB_DEFAULT_LAYOUT/MODEL/VARIANT/OPTIONS environment variables. Those are
// set for the duration of the call and restored afterward.
func (k *Keyboard) SetLayout(layout, model, variant, options string) error {
	restore := setXKBEnv(layout, model, variant, options)
	defer restore()

	context := xkb.NewContext(xkb.KeySymFlagNoFlags)
	if context.Nil() {
		return fmt.Errorf("input: failed creating xkb context for layout %q", layout)
	}
	defer context.Destroy()

	keymap := context.KeyMap()
	if keymap.Nil() {
		return fmt.Errorf("input: failed building keymap for layout %q", layout)
	}
	defer keymap.Destroy()

	k.virtual.Base().SetKeymap(keymap)
	return nil
}

// setXKBEnv sets the XKB rule-name environment variables libxkbcommon reads
// when resolving a keymap with no explicit rule names, and returns a
// function that restores whatever was there before.
func setXKBEnv(layout, model, variant, options string) func() {
	vars := map[string]string{
		"XKB_DEFAULT_LAYOUT":  layout,
		"XKB_DEFAULT_MODEL":   model,
		"XKB_DEFAULT_VARIANT": variant,
		"XKB_DEFAULT_OPTIONS": options,
	}
	prev := make(map[string]string, len(vars))
	had := make(map[string]bool, len(vars))
	for k, v := range vars {
		prev[k], had[k] = os.LookupEnv(k)
		os.Setenv(k, v)
	}
	return func() {
		for k := range vars {
			if had[k] {
				os.Setenv(k, prev[k])
			} else {
				os.Unsetenv(k)
			}
		}
	}
}

// PressKey notifies the seat of a key event stamped with a monotonic
// timestamp measured from when the input package was loaded.
func (k *Keyboard) PressKey(keycode uint32, pressed bool) {
	state := wlroots.KeyStateReleased
	if pressed {
		state = wlroots.KeyStatePressed
	}
	elapsed := uint32(time.Since(k.epoch).Milliseconds())
	k.seat.SetKeyboard(k.virtual.Base())
	k.seat.NotifyKeyboardKey(elapsed, keycode, state)
}

// SetRepeatRate configures the key-repeat delay and interval, in
// milliseconds.
func (k *Keyboard) SetRepeatRate(delayMS, intervalMS uint32) {
	k.virtual.Base().Keyboard().SetRepeatInfo(int32(intervalMS), int32(delayMS))
}

// UpdateModifiers pushes a modifier state to the seat.
func (k *Keyboard) UpdateModifiers(depressed, latched, locked, group uint32) {
	k.seat.SetKeyboard(k.virtual.Base())
	k.virtual.NotifyModifiers(depressed, latched, locked, group)
}

// Focus clears seat keyboard focus if surface is the zero value, otherwise
// notifies the seat of keyboard enter on that surface.
func (k *Keyboard) Focus(surface wlr.Surface) {
	if surface.Nil() {
		k.seat.ClearKeyboardFocus()
		return
	}
	k.seat.NotifyKeyboardEnter(surface, k.virtual.Base())
}

// ClearKeysPressed, GetKeycodesDown, and GetLayoutGroup are no-ops/defaults:
// the virtual keyboard has no autonomous state of its own to report.
func (k *Keyboard) ClearKeysPressed()         {}
func (k *Keyboard) GetKeycodesDown() []uint32 { return nil }
func (k *Keyboard) GetLayoutGroup() uint32    { return 0 }
