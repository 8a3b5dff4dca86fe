package render

import (
	"image"
	"image/color"

	pd "printer_dashboard"
)

// Fault backgrounds: a bright and a dim variant per mode; the flash index
// selects between them so a standing fault visibly pulses.
var (
	errorBright    = color.RGBA{180, 0, 0, 255}
	errorDim       = color.RGBA{110, 0, 0, 255}
	degradedBright = color.RGBA{170, 90, 0, 255}
	degradedDim    = color.RGBA{100, 55, 0, 255}
	faultOutline   = color.RGBA{255, 220, 220, 255}
)

const (
	faultTextX    = 6
	faultTextTop  = 26
	faultLineStep = 12
	faultMaxLines = 7
)

// FaultScreen draws the shared fault frame shown on every panel while the
// dashboard is not NORMAL.
func (r *Renderer) FaultScreen(f pd.Fault) image.Image {
	img := newCanvas(faultBackground(f))

	title := f.Title
	if title == "" {
		title = "ERROR"
	}
	label(img, faultTextX, 4, title, r.fonts.LG, white)

	y := faultTextTop
	lines := wrapText(f.Message, r.fonts.XS, CanvasW-2*faultTextX)
	for i, line := range lines {
		if i == faultMaxLines {
			break
		}
		label(img, faultTextX, y, line, r.fonts.XS, white)
		y += faultLineStep
	}

	strokeRect(img, 0, 0, CanvasW, CanvasH, faultOutline)
	return img
}

// faultBackground picks the mode's bright or dim variant by flash index.
func faultBackground(f pd.Fault) color.RGBA {
	dim := f.FlashIndex%2 == 1
	if f.Mode == pd.FaultDegraded {
		if dim {
			return degradedDim
		}
		return degradedBright
	}
	if dim {
		return errorDim
	}
	return errorBright
}
