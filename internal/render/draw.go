package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Canvas geometry: panels are drawn in landscape and rotated to the
// driver's portrait orientation by the display layer.
const (
	CanvasW = 160
	CanvasH = 128
)

// newCanvas returns a landscape canvas filled with bg.
func newCanvas(bg color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, CanvasW, CanvasH))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}

// label draws text with (x, y) as the top-left anchor.
func label(img *image.RGBA, x, y int, text string, face font.Face, col color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// textWidth measures rendered width in pixels.
func textWidth(text string, face font.Face) int {
	return font.MeasureString(face, text).Ceil()
}

// fillRect fills the given rectangle, clipped to the image.
func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	r := image.Rect(x0, y0, x1, y1).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// strokeRect draws a 1px rectangle outline.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	fillRect(img, x0, y0, x1, y0+1, col)
	fillRect(img, x0, y1-1, x1, y1, col)
	fillRect(img, x0, y0, x0+1, y1, col)
	fillRect(img, x1-1, y0, x1, y1, col)
}

// bar draws a horizontal progress bar with pct in 0..100.
func bar(img *image.RGBA, x, y, w, h int, pct float64, fill, bg color.RGBA) {
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	fillRect(img, x, y, x+w, y+h, bg)
	strokeRect(img, x, y, x+w, y+h, color.RGBA{200, 200, 200, 255})
	fw := int(float64(w) * pct / 100)
	if fw > 0 {
		fillRect(img, x, y, x+fw, y+h, fill)
	}
}

// wrapText splits text into lines no wider than maxWidth under face.
func wrapText(text string, face font.Face, maxWidth int) []string {
	words := strings.Fields(strings.ReplaceAll(text, "\n", " "))
	var lines []string
	line := ""
	for _, w := range words {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if textWidth(candidate, face) > maxWidth && line != "" {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
