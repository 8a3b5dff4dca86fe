package eyes

import "testing"

func TestFrame_Size(t *testing.T) {
	b := Frame(0, 0, 0).Bounds()
	if b.Dx() != CanvasW || b.Dy() != CanvasH {
		t.Fatalf("frame size: got %dx%d, want %dx%d", b.Dx(), b.Dy(), CanvasW, CanvasH)
	}
}

func TestFrame_BlinkCoversTheEye(t *testing.T) {
	open := Frame(0, 0, 0)
	shut := Frame(0, 0, 1)

	// The eye center is white sclera or iris when open and lid-colored
	// when fully closed.
	if open.At(eyeCX, eyeCY) == shut.At(eyeCX, eyeCY) {
		t.Fatalf("fully closed lid left the eye center unchanged")
	}
	if shut.At(eyeCX, eyeCY) != lidColor {
		t.Fatalf("closed eye center: got %v, want lid color", shut.At(eyeCX, eyeCY))
	}
}

func TestFrame_PupilWanders(t *testing.T) {
	a := Frame(0, 0, 0)
	b := Frame(3, 0, 0)

	same := true
	bounds := a.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y && same; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if a.At(x, y) != b.At(x, y) {
				same = false
				break
			}
		}
	}
	if same {
		t.Fatalf("pupil did not move between t=0 and t=3")
	}
}

func TestFarewellRamp_EndsOpen(t *testing.T) {
	if len(FarewellRamp) == 0 {
		t.Fatalf("empty farewell ramp")
	}
	if FarewellRamp[len(FarewellRamp)-1] != 0 {
		t.Fatalf("farewell must end with the eye open, got %v", FarewellRamp[len(FarewellRamp)-1])
	}
	for i, v := range FarewellRamp {
		if v < 0 || v > 1 {
			t.Fatalf("ramp[%d] = %v out of [0,1]", i, v)
		}
	}
}
