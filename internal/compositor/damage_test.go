package compositor

import (
	"testing"

	"github.com/xpra-org/wlheadless/internal/wlr"
)

func TestRectsFromBoxesConvertsExclusiveCoordinates(t *testing.T) {
	boxes := []wlr.DamageBox{{X1: 0, Y1: 0, X2: 4, Y2: 2}}
	rects := rectsFromBoxes(boxes)

	if len(rects) != 1 {
		t.Fatalf("expected 1 rect, got %d", len(rects))
	}
	got := rects[0]
	if got != (DamageRect{X: 0, Y: 0, W: 4, H: 2}) {
		t.Errorf("expected {0 0 4 2}, got %+v", got)
	}
}

func TestRectsFromBoxesDropsEmptyBoxes(t *testing.T) {
	boxes := []wlr.DamageBox{
		{X1: 0, Y1: 0, X2: 0, Y2: 5},  // zero width
		{X1: 1, Y1: 1, X2: 5, Y2: 1},  // zero height
		{X1: 2, Y1: 2, X2: 3, Y2: 3},  // 1x1, valid
	}
	rects := rectsFromBoxes(boxes)

	if len(rects) != 1 {
		t.Fatalf("expected 1 surviving rect, got %d: %+v", len(rects), rects)
	}
	if rects[0].W < 1 || rects[0].H < 1 {
		t.Errorf("surviving rect should have positive width and height, got %+v", rects[0])
	}
}

func TestRectsFromBoxesOnEmptyInputReturnsEmptyNotNil(t *testing.T) {
	rects := rectsFromBoxes(nil)
	if rects == nil {
		t.Errorf("expected non-nil empty slice")
	}
	if len(rects) != 0 {
		t.Errorf("expected no rects, got %d", len(rects))
	}
}
