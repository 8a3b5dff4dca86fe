package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"printer_dashboard/internal/eyes"

	pd "printer_dashboard"
)

// Palette for the normal panel.
var (
	black      = color.RGBA{0, 0, 0, 255}
	white      = color.RGBA{255, 255, 255, 255}
	gray       = color.RGBA{180, 180, 180, 255}
	darkGray   = color.RGBA{40, 40, 40, 255}
	borderGray = color.RGBA{80, 80, 80, 255}
	barGreen   = color.RGBA{120, 255, 120, 255}
	noteYellow = color.RGBA{255, 220, 80, 255}
	spokeBlue  = color.RGBA{110, 190, 255, 255}
)

// phaseSteps must match the quantization the loop applies to spinner
// phases before they enter the fingerprint.
const phaseSteps = 12

// Renderer is the pure model→frame presenter. It holds only immutable
// resources (font faces); all per-tick inputs arrive in the model.
type Renderer struct {
	fonts Fonts
}

// NewRenderer returns a presenter with resolved fonts.
func NewRenderer(fonts Fonts) *Renderer {
	return &Renderer{fonts: fonts}
}

// Panel draws a normal channel frame from the semantic model.
func (r *Renderer) Panel(m pd.PanelModel) image.Image {
	img := newCanvas(black)

	// Header: channel label + job state.
	label(img, 6, 4, fmt.Sprintf("%s  %s", m.Name, m.State), r.fonts.LG, white)

	// Temperatures.
	label(img, 10, 30, fmt.Sprintf("Temp: %d°C", int(m.TempC)), r.fonts.XL, white)
	label(img, 10, 56, fmt.Sprintf("Target: %d°", int(m.TargetC)), r.fonts.MD, gray)

	// Animated indicators on the right edge.
	r.spinner(img, 138, 40, 11, m.FanPhaseStep, spokeBlue)
	r.spinner(img, 138, 68, 11, m.FlowPhaseStep, barGreen)
	label(img, 126, 52, fmt.Sprintf("%d%%", int(m.FanDuty*100)), r.fonts.XS, gray)

	// Progress bar.
	const barX, barY, barH = 10, 88, 14
	barW := CanvasW - 2*barX
	bar(img, barX, barY, barW, barH, m.ProgressPct, barGreen, darkGray)
	label(img, barX+2, barY-12, "Progress", r.fonts.XS, gray)
	pctText := fmt.Sprintf("%d%%", int(m.ProgressPct))
	label(img, barX+barW-textWidth(pctText, r.fonts.XS)-2, barY-12, pctText, r.fonts.XS, gray)

	// Footer: ephemeral note when live, otherwise the toolhead position.
	if m.Message != "" {
		label(img, 6, 112, m.Message, r.fonts.SM, noteYellow)
	} else {
		label(img, 6, 112, fmt.Sprintf("X%.1f Y%.1f  %.1fmm/s", m.PosX, m.PosY, m.FlowMMs), r.fonts.XS, gray)
	}

	strokeRect(img, 0, 0, CanvasW, CanvasH, borderGray)
	return img
}

// spinner draws a rotating spoke indicator at one of phaseSteps angles.
func (r *Renderer) spinner(img *image.RGBA, cx, cy, radius, step int, col color.RGBA) {
	angle := 2 * math.Pi * float64(step) / float64(phaseSteps)
	x1 := cx + int(float64(radius)*math.Cos(angle))
	y1 := cy + int(float64(radius)*math.Sin(angle))
	drawLine(img, cx, cy, x1, y1, col)
	drawLine(img, cx, cy, cx+(cx-x1), cy+(cy-y1), col)
	strokeRect(img, cx-1, cy-1, cx+1, cy+1, white)
}

// drawLine rasterizes a line segment (Bresenham).
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if image.Pt(x0, y0).In(img.Bounds()) {
			img.SetRGBA(x0, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Farewell renders one frame of the shutdown animation: the screensaver
// eye blinking shut as the process exits.
func (r *Renderer) Farewell(amount float64) image.Image {
	return eyes.Frame(0, 0, amount)
}
