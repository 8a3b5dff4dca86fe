package display

import (
	"image"
	"image/color"
	"image/draw"
)

// The panels are driven in portrait while all drawing happens in
// landscape, so every frame is rotated 90° clockwise on the way out; a
// small software offset hides the driver's border artifact, and the left
// panel is mounted upside down.

// Rotate90CW returns src rotated a quarter turn clockwise
// (landscape 160x128 → portrait 128x160).
func Rotate90CW(src image.Image) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(h-1-y, x, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// Rotate180 returns src flipped half a turn.
func Rotate180(src image.Image) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(w-1-x, h-1-y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// SoftOffset shifts src right/down by (offX, offY) on a black backing of
// the same size, cropping what falls off the edge. Hides the panel's "L"
// border without touching driver window registers.
func SoftOffset(src image.Image, offX, offY int) *image.RGBA {
	if offX == 0 && offY == 0 {
		if rgba, ok := src.(*image.RGBA); ok {
			return rgba
		}
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(dst, b.Add(image.Pt(offX, offY)).Intersect(dst.Bounds()), src, b.Min, draw.Src)
	return dst
}

// Driver is the raw panel interface: draw one full portrait frame.
type Driver interface {
	Draw(img image.Image) error
}

// PanelSink adapts one physical panel into the loop's Sink: it applies the
// per-panel orientation transforms and hands the result to the driver.
type PanelSink struct {
	dev     Driver
	flip180 bool
	offX    int
	offY    int
}

// NewPanelSink wraps a driver with this panel's mounting quirks.
func NewPanelSink(dev Driver, flip180 bool, offX, offY int) *PanelSink {
	return &PanelSink{dev: dev, flip180: flip180, offX: offX, offY: offY}
}

// Push transforms the landscape frame for this panel and writes it out.
func (s *PanelSink) Push(img image.Image) error {
	frame := SoftOffset(Rotate90CW(img), s.offX, s.offY)
	if s.flip180 {
		frame = Rotate180(frame)
	}
	return s.dev.Draw(frame)
}
