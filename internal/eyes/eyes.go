package eyes

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Canvas geometry: drawn in landscape, rotated for the panel afterwards.
const (
	CanvasW = 160
	CanvasH = 128
)

// Eye geometry on the landscape canvas.
const (
	eyeCX    = CanvasW / 2
	eyeCY    = CanvasH / 2
	eyeR     = 56 // sclera radius
	irisR    = 26
	pupilR   = 12
	pupilMax = eyeR - irisR - 6 // keep a margin so the iris never touches the edge
)

var (
	bgColor      = color.RGBA{15, 18, 22, 255}
	scleraColor  = color.RGBA{245, 245, 245, 255}
	irisColor    = color.RGBA{80, 180, 255, 255}
	pupilColor   = color.RGBA{20, 20, 20, 255}
	lidColor     = bgColor // lids match the background so closing reads as a blink
	outlineColor = color.RGBA{40, 40, 50, 255}
	glintColor   = color.RGBA{255, 255, 255, 255}
)

// FarewellRamp is the shutdown blink played on exit: a quick surprised
// blink settling into a calm open stare.
var FarewellRamp = []float64{0.0, 0.4, 0.8, 1.0, 0.6, 0.2, 0.0}

// Frame draws a single eye with a wandering pupil.
//
// t is elapsed time in seconds, phase offsets the pupil path (use the same
// value on both panels to keep them locked together), blinkAmount is
// 0=open .. 1=fully closed.
func Frame(t, phase, blinkAmount float64) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, CanvasW, CanvasH))
	draw.Draw(img, img.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)

	fillCircle(img, eyeCX, eyeCY, eyeR, scleraColor)

	// Gentle Lissajous wander for the pupil target.
	tx := math.Sin(t*0.8+phase) * 0.8
	ty := math.Sin(t*1.1+phase*1.2) * 0.6
	px := eyeCX + int(pupilMax*tx)
	py := eyeCY + int(pupilMax*ty)

	fillCircle(img, px, py, irisR, irisColor)
	fillCircle(img, px, py, pupilR, pupilColor)
	fillCircle(img, px-pupilR/2-3, py-pupilR/2-3, 3, glintColor)

	strokeCircle(img, eyeCX, eyeCY, eyeR, 2, outlineColor)

	// Lids last: two bars meeting in the middle as blinkAmount goes to 1,
	// covering the outline along with the eye.
	if blinkAmount > 0 {
		cover := int(float64(CanvasH/2) * clamp01(blinkAmount))
		fillRect(img, 0, 0, CanvasW, cover, lidColor)
		fillRect(img, 0, CanvasH-cover, CanvasW, CanvasH, lidColor)
	}
	return img
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// fillCircle rasterizes a filled circle by horizontal spans.
func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		y := cy + dy
		if y < 0 || y >= img.Bounds().Dy() {
			continue
		}
		half := int(math.Sqrt(float64(r*r - dy*dy)))
		for x := cx - half; x <= cx+half; x++ {
			if x < 0 || x >= img.Bounds().Dx() {
				continue
			}
			img.SetRGBA(x, y, c)
		}
	}
}

// strokeCircle draws a ring of the given width.
func strokeCircle(img *image.RGBA, cx, cy, r, width int, c color.RGBA) {
	outer := float64(r)
	inner := float64(r - width)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d := math.Sqrt(float64(dx*dx + dy*dy))
			if d > outer || d < inner {
				continue
			}
			x, y := cx+dx, cy+dy
			if x < 0 || x >= img.Bounds().Dx() || y < 0 || y >= img.Bounds().Dy() {
				continue
			}
			img.SetRGBA(x, y, c)
		}
	}
}

// fillRect fills [x0,x1) x [y0,y1), clipped to the image.
func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	r := image.Rect(x0, y0, x1, y1).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}
