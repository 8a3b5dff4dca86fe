package render

import (
	"image"
	"strings"
	"testing"

	"golang.org/x/image/font/basicfont"

	pd "printer_dashboard"
)

func testRenderer() *Renderer {
	f := basicfont.Face7x13
	return NewRenderer(Fonts{XL: f, LG: f, MD: f, SM: f, XS: f})
}

func TestWrapText(t *testing.T) {
	face := basicfont.Face7x13 // fixed 7px advance makes widths exact

	t.Run("short text stays on one line", func(t *testing.T) {
		lines := wrapText("hello", face, 100)
		if len(lines) != 1 || lines[0] != "hello" {
			t.Fatalf("got %v", lines)
		}
	})

	t.Run("lines never exceed the limit", func(t *testing.T) {
		const maxWidth = 70 // 10 glyphs
		lines := wrapText("MCU shutdown: Timer too close. Restart firmware.", face, maxWidth)
		for _, line := range lines {
			// A single over-long word may exceed the limit; multi-word
			// lines must not.
			if strings.Contains(line, " ") && textWidth(line, face) > maxWidth {
				t.Fatalf("line %q wider than %d", line, maxWidth)
			}
		}
	})

	t.Run("round trip keeps every word", func(t *testing.T) {
		text := "one two three four five six"
		lines := wrapText(text, face, 70)
		if strings.Join(lines, " ") != text {
			t.Fatalf("words lost or reordered: %v", lines)
		}
	})

	t.Run("newlines are treated as spaces", func(t *testing.T) {
		lines := wrapText("a\nb", face, 1000)
		if len(lines) != 1 || lines[0] != "a b" {
			t.Fatalf("got %v", lines)
		}
	})

	t.Run("empty text yields no lines", func(t *testing.T) {
		if lines := wrapText("", face, 100); len(lines) != 0 {
			t.Fatalf("got %v", lines)
		}
	})
}

func frameSize(t *testing.T, img image.Image) {
	t.Helper()
	b := img.Bounds()
	if b.Dx() != CanvasW || b.Dy() != CanvasH {
		t.Fatalf("frame size: got %dx%d, want %dx%d", b.Dx(), b.Dy(), CanvasW, CanvasH)
	}
}

func TestRenderer_PanelFrames(t *testing.T) {
	r := testRenderer()

	t.Run("normal frame", func(t *testing.T) {
		frameSize(t, r.Panel(pd.PanelModel{
			Name: "T0", Tool: "EXTRUDER", TempC: 210.4, TargetC: 210,
			ProgressPct: 42, State: pd.StateActive, Active: true,
			PosX: 12.5, PosY: 88.1, FlowMMs: 31.4, FanDuty: 0.75,
			FanPhaseStep: 3, FlowPhaseStep: 9,
		}))
	})

	t.Run("frame with message footer", func(t *testing.T) {
		frameSize(t, r.Panel(pd.PanelModel{
			Name: "T0", State: pd.StateIdle, Message: "Change filament",
		}))
	})

	t.Run("zero model still draws", func(t *testing.T) {
		frameSize(t, r.Panel(pd.PanelModel{}))
	})
}

func TestRenderer_FaultScreen(t *testing.T) {
	r := testRenderer()

	t.Run("flash index selects distinct backgrounds", func(t *testing.T) {
		f := pd.Fault{Mode: pd.FaultError, Title: "PRINTER ERROR", Message: "down"}
		bright := r.FaultScreen(f)
		f.FlashIndex = 1
		dim := r.FaultScreen(f)

		// Sample an interior pixel away from text and border.
		if bright.At(CanvasW-10, CanvasH-10) == dim.At(CanvasW-10, CanvasH-10) {
			t.Fatalf("bright and dim fault frames are identical")
		}
	})

	t.Run("degraded and error differ", func(t *testing.T) {
		deg := r.FaultScreen(pd.Fault{Mode: pd.FaultDegraded})
		errf := r.FaultScreen(pd.Fault{Mode: pd.FaultError})
		if deg.At(CanvasW-10, CanvasH-10) == errf.At(CanvasW-10, CanvasH-10) {
			t.Fatalf("degraded and error frames share a background")
		}
	})

	t.Run("long message does not overflow the frame", func(t *testing.T) {
		frameSize(t, r.FaultScreen(pd.Fault{
			Mode:    pd.FaultError,
			Title:   "PRINTER ERROR",
			Message: strings.Repeat("a very long diagnostic sentence ", 20),
		}))
	})
}

func TestRenderer_Farewell(t *testing.T) {
	r := testRenderer()
	for _, amount := range []float64{0, 0.4, 1} {
		frameSize(t, r.Farewell(amount))
	}
}
