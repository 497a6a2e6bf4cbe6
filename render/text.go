package render

import (
	"fmt"

	"github.com/gogpu/gg"

	"tileicons/palette"
)

// Outline color and width of the glyph stroke.
var (
	OutlineColor = gg.RGBA{R: 0.2, G: 0.2, B: 0.2, A: 0.75}
	OutlineWidth = 1.0
)

// Dimension is the size of the box text is centered in.
type Dimension struct {
	Width, Height float64
}

// NewDimension converts pixel extents, clamping negatives to zero.
func NewDimension(width, height int) Dimension {
	return Dimension{Width: float64(max(width, 0)), Height: float64(max(height, 0))}
}

// Origin returns the pen position for text with the given ink extents. The
// text is centered horizontally; vertically the baseline sits half the ink
// height below the middle of the box, which is not the same as centering the
// ink box.
func Origin(box Dimension, ext Extents) (x, y float64) {
	return (box.Width - ext.Width) / 2, box.Height - (box.Height-ext.Height)/2
}

// TextRenderer draws filled and outlined text.
type TextRenderer struct {
	Face *Face
}

// NewTextRenderer uses face, or Go Regular at DefaultFontSize when face is nil.
func NewTextRenderer(face *Face) (*TextRenderer, error) {
	if face == nil {
		var err error
		if face, err = DefaultFace(DefaultFontSize); err != nil {
			return nil, err
		}
	}
	return &TextRenderer{Face: face}, nil
}

// Draw fills text with col and strokes it with OutlineColor, centered in box.
// dc's origin is the top-left corner of box.
func (t *TextRenderer) Draw(dc *gg.Context, box Dimension, text string, col palette.Color) error {
	dc.SetRGBA(col.Normalized())

	ext, err := t.Face.Extents(text)
	if err != nil {
		return fmt.Errorf("could not measure %q: %w", text, err)
	}
	x, y := Origin(box, ext)

	dc.ClearPath()
	if err := t.Face.AppendPath(dc, text, x, y); err != nil {
		return fmt.Errorf("could not trace %q: %w", text, err)
	}
	if err := dc.FillPreserve(); err != nil {
		return fmt.Errorf("could not fill %q: %w", text, err)
	}

	dc.SetRGBA(OutlineColor.R, OutlineColor.G, OutlineColor.B, OutlineColor.A)
	dc.SetLineWidth(OutlineWidth)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("could not stroke %q: %w", text, err)
	}
	return nil
}
