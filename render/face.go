package render

import (
	"fmt"
	"math"
	"os"

	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is the em size, in pixels, glyphs are drawn at.
const DefaultFontSize = 48

// Extents is the ink box of a laid out string. Bearings are relative to the
// pen origin on the baseline, y growing downwards.
type Extents struct {
	XBearing, YBearing float64
	Width, Height      float64
	XAdvance           float64
}

// Face is one font at one size. Text is laid out left to right by glyph
// advance, without kerning or shaping. A Face is not safe for concurrent use.
type Face struct {
	font *sfnt.Font
	name string
	size float64
	buf  sfnt.Buffer
}

// NewFace parses a TrueType or OpenType font.
func NewFace(data []byte, size float64) (*Face, error) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("invalid font size: %v", size)
	}

	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse font: %w", err)
	}

	face := &Face{font: f, size: size}
	face.name, err = f.Name(&face.buf, sfnt.NameIDFull)
	if err != nil {
		face.name = "unnamed"
	}
	return face, nil
}

// DefaultFace returns Go Regular at size.
func DefaultFace(size float64) (*Face, error) {
	return NewFace(goregular.TTF, size)
}

// LoadFace reads a font file.
func LoadFace(path string, size float64) (*Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read font %q: %w", path, err)
	}
	face, err := NewFace(data, size)
	if err != nil {
		return nil, fmt.Errorf("could not load font %q: %w", path, err)
	}
	return face, nil
}

func (f *Face) Name() string  { return f.name }
func (f *Face) Size() float64 { return f.size }

// HasGlyph reports whether the font maps r to a glyph other than .notdef.
func (f *Face) HasGlyph(r rune) bool {
	idx, err := f.font.GlyphIndex(&f.buf, r)
	return err == nil && idx != 0
}

func (f *Face) ppem() fixed.Int26_6 {
	return fixed.Int26_6(math.Round(f.size * 64))
}

// glyph is one positioned outline, in pixels relative to the pen origin.
type glyph struct {
	segments []sfnt.Segment
	x        float64
}

func (f *Face) layout(text string) ([]glyph, float64, error) {
	ppem := f.ppem()
	var glyphs []glyph
	var pen fixed.Int26_6
	for _, r := range text {
		idx, err := f.font.GlyphIndex(&f.buf, r)
		if err != nil {
			return nil, 0, fmt.Errorf("could not find glyph for %q: %w", r, err)
		}

		segs, err := f.font.LoadGlyph(&f.buf, idx, ppem, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("could not load glyph for %q: %w", r, err)
		}
		glyphs = append(glyphs, glyph{
			segments: append([]sfnt.Segment(nil), segs...),
			x:        fix(pen),
		})

		adv, err := f.font.GlyphAdvance(&f.buf, idx, ppem, font.HintingNone)
		if err != nil {
			return nil, 0, fmt.Errorf("could not measure glyph for %q: %w", r, err)
		}
		pen += adv
	}
	return glyphs, fix(pen), nil
}

// Extents measures the ink box of text. The box spans every outline point,
// control points included.
func (f *Face) Extents(text string) (Extents, error) {
	glyphs, advance, err := f.layout(text)
	if err != nil {
		return Extents{}, err
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, g := range glyphs {
		for _, s := range g.segments {
			for _, p := range s.Args[:segmentArgs(s.Op)] {
				x, y := g.x+fix(p.X), fix(p.Y)
				minX, maxX = min(minX, x), max(maxX, x)
				minY, maxY = min(minY, y), max(maxY, y)
			}
		}
	}

	if math.IsInf(minX, 1) {
		return Extents{XAdvance: advance}, nil
	}
	return Extents{
		XBearing: minX,
		YBearing: minY,
		Width:    maxX - minX,
		Height:   maxY - minY,
		XAdvance: advance,
	}, nil
}

// AppendPath traces the outlines of text into dc's current path with the pen
// at (x, y) on the baseline. Each contour is closed.
func (f *Face) AppendPath(dc *gg.Context, text string, x, y float64) error {
	glyphs, _, err := f.layout(text)
	if err != nil {
		return err
	}

	for _, g := range glyphs {
		open := false
		pt := func(p fixed.Point26_6) (float64, float64) {
			return x + g.x + fix(p.X), y + fix(p.Y)
		}
		for _, s := range g.segments {
			switch s.Op {
			case sfnt.SegmentOpMoveTo:
				if open {
					dc.ClosePath()
				}
				dc.MoveTo(pt(s.Args[0]))
				open = true
			case sfnt.SegmentOpLineTo:
				dc.LineTo(pt(s.Args[0]))
			case sfnt.SegmentOpQuadTo:
				cx, cy := pt(s.Args[0])
				ex, ey := pt(s.Args[1])
				dc.QuadraticTo(cx, cy, ex, ey)
			case sfnt.SegmentOpCubeTo:
				c1x, c1y := pt(s.Args[0])
				c2x, c2y := pt(s.Args[1])
				ex, ey := pt(s.Args[2])
				dc.CubicTo(c1x, c1y, c2x, c2y, ex, ey)
			}
		}
		if open {
			dc.ClosePath()
		}
	}
	return nil
}

func segmentArgs(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	default:
		return 1
	}
}

func fix(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
