package compositor

import (
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"

	"github.com/xpra-org/wlheadless/internal/wlr"
)

// damageRects extracts the surface's pending buffer-damage region as
// (x, y, w, h) rectangles, always returned regardless of mapped state;
// rects is empty when there's no damage.
func damageRects(surface wlroots.Surface) []DamageRect {
	return rectsFromBoxes(wlr.BufferDamageRects(surface))
}

// rectsFromBoxes converts pixman-style exclusive boxes into (x, y, w, h)
// rectangles, dropping any box whose width or height falls below 1. Split
// out from damageRects so the conversion is testable without a live native
// surface.
func rectsFromBoxes(boxes []wlr.DamageBox) []DamageRect {
	rects := make([]DamageRect, 0, len(boxes))
	for _, b := range boxes {
		w, h := b.Width(), b.Height()
		if w < 1 || h < 1 {
			continue
		}
		rects = append(rects, DamageRect{X: b.X1, Y: b.Y1, W: w, H: h})
	}
	return rects
}

// readbackSurface performs the GPU texture readback: fetch the client
// buffer's texture, allocate a BGRA pixel buffer sized to it, and read the
// texture's pixels into it. Returns ok=false (and emits nothing) when the
// surface has no buffer, no texture, or the native read-pixels call fails.
func (c *Compositor) readbackSurface(wid uint64, native wlroots.XDGSurface) (Image, bool) {
	surface := native.Surface()
	texture, ok := wlr.SurfaceTexture(surface)
	if !ok {
		return Image{}, false
	}

	width, height := texture.Width(), texture.Height()
	if width <= 0 || height <= 0 {
		return Image{}, false
	}
	stride := 4 * width
	buf := make([]byte, stride*height)

	geom := native.Geometry()
	opts := wlr.ReadPixelsOptions{
		Format: wlr.BufferFormatBGRA8888,
		Stride: uint32(stride),
		DstX:   0,
		DstY:   0,
		SrcX:   geom.X,
		SrcY:   geom.Y,
		Width:  width,
		Height: height,
		Data:   buf,
	}

	if err := texture.ReadPixels(opts); err != nil {
		logrus.WithError(err).WithField("wid", wid).Warnln("texture readback failed, dropping frame")
		return Image{}, false
	}

	return Image{
		Width:        width,
		Height:       height,
		Stride:       stride,
		BitsPerPixel: 32,
		Bytes:        buf,
	}, true
}
