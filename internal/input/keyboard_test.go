package input

import (
	"testing"

	"github.com/swaywm/go-wlroots/wlroots"
)

func TestNewKeyboardRejectsNilSeat(t *testing.T) {
	_, err := NewKeyboard(wlroots.Seat{}, wlroots.VirtualKeyboardManager{})
	if err != ErrNilSeat {
		t.Errorf("expected ErrNilSeat for a zero-value seat, got %v", err)
	}
}
