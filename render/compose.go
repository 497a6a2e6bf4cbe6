// Package render composes tile icons: it paints onto an off-screen gg
// surface and converts the result into a pixbuf shaped like the background
// the icon was derived from.
package render

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gg"

	"tileicons/palette"
	"tileicons/pixbuf"
	"tileicons/surface"
)

// ErrSurfaceAlloc is returned when no rendering surface can be created for
// the requested size.
var ErrSurfaceAlloc = errors.New("could not allocate rendering surface")

// Painter draws one icon. dc is sized to dim and starts fully transparent.
type Painter interface {
	Paint(dc *gg.Context, dim Dimension) error
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(dc *gg.Context, dim Dimension) error

func (f PainterFunc) Paint(dc *gg.Context, dim Dimension) error {
	return f(dc, dim)
}

// Composer turns painters into pixbufs.
type Composer struct {
	Converter surface.Converter
	// Format is the layout the rendered pixels are read back in before
	// conversion. The zero value reads the gg pixmap directly.
	Format surface.Format
	Logger *slog.Logger
}

// NewComposer returns a composer reading gg pixmaps directly.
func NewComposer(logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{Format: surface.RGBA, Logger: logger}
}

// Compose renders p onto a fresh surface the size of bg and returns a pixbuf
// with bg's size, alpha, sample depth and colorspace. bg itself is not
// painted unless p does so.
func (c *Composer) Compose(bg *pixbuf.Pixbuf, p Painter) (*pixbuf.Pixbuf, error) {
	params := bg.Params()
	width, height := params.Width, params.Height

	if err := surface.CheckSize(width, height); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurfaceAlloc, err)
	}

	pm := gg.NewPixmap(width, height)
	dc := gg.NewContext(width, height, gg.WithPixmap(pm))
	defer dc.Close()

	if err := p.Paint(dc, NewDimension(width, height)); err != nil {
		return nil, fmt.Errorf("could not paint icon: %w", err)
	}
	if err := dc.Close(); err != nil {
		return nil, fmt.Errorf("could not flush drawing: %w", err)
	}

	format := c.Format
	if format.Name == "" {
		format = surface.RGBA
	}
	surf, err := surface.FromRGBA(pm.Data(), width, height, format)
	if err != nil {
		return nil, fmt.Errorf("could not read surface pixels: %w", err)
	}

	out, err := c.Converter.Convert(surf, params)
	if err != nil {
		return nil, err
	}

	c.logger().Debug("icon composed", "width", width, "height", height, "surface", format.Name,
		"stride", surf.Stride, "alpha", params.HasAlpha)
	return out, nil
}

func (c *Composer) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// PaintBackground stretches bg over the whole box at the origin.
func PaintBackground(dc *gg.Context, bg *pixbuf.Pixbuf, dim Dimension) {
	dc.DrawImageEx(gg.ImageBufFromImage(bg.NRGBA()), gg.DrawImageOptions{
		DstWidth:      dim.Width,
		DstHeight:     dim.Height,
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

// TileIcon paints bg and then text, the composition used for every tile.
func TileIcon(bg *pixbuf.Pixbuf, tr *TextRenderer, text string, col palette.Color) Painter {
	return PainterFunc(func(dc *gg.Context, dim Dimension) error {
		PaintBackground(dc, bg, dim)
		return tr.Draw(dc, dim, text, col)
	})
}
