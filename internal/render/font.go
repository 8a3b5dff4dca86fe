package render

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// System font locations on the target board (Raspberry Pi OS).
const (
	dejaVuBoldPath    = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"
	dejaVuRegularPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
)

// Fonts holds the faces the panel layout uses, largest to smallest.
type Fonts struct {
	XL font.Face
	LG font.Face
	MD font.Face
	SM font.Face
	XS font.Face
}

// LoadFonts resolves the DejaVu faces, falling back to the built-in
// bitmap face for all sizes when the TTFs are unavailable (desktop dev
// machines, containers).
func LoadFonts() Fonts {
	xl, err1 := loadFace(dejaVuBoldPath, 20)
	lg, err2 := loadFace(dejaVuBoldPath, 16)
	md, err3 := loadFace(dejaVuRegularPath, 14)
	sm, err4 := loadFace(dejaVuRegularPath, 12)
	xs, err5 := loadFace(dejaVuRegularPath, 10)
	for _, err := range []error{err1, err2, err3, err4, err5} {
		if err != nil {
			f := basicfont.Face7x13
			return Fonts{XL: f, LG: f, MD: f, SM: f, XS: f}
		}
	}
	return Fonts{XL: xl, LG: lg, MD: md, SM: sm, XS: xs}
}

// loadFace opens one TTF at the given point size.
func loadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build face %s: %w", path, err)
	}
	return face, nil
}
