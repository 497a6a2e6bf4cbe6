package tileset

import (
	"fmt"

	"github.com/gogpu/gg"

	"tileicons/pixbuf"
	"tileicons/render"
)

// Plain tile colors.
var (
	tileFill   = gg.RGBA{R: 0.93, G: 0.93, B: 0.93, A: 1}
	tileBorder = gg.RGBA{R: 0.6, G: 0.6, B: 0.6, A: 1}
)

// LoadBackground reads the tile background from path, scaled to size x size
// when size > 0. An empty path draws a plain rounded tile of size, or
// DefaultTileSize, with c.
func LoadBackground(path string, size int, c *render.Composer) (*pixbuf.Pixbuf, error) {
	if path == "" {
		if size == 0 {
			size = DefaultTileSize
		}
		return PlainTile(size, c)
	}

	bg, err := pixbuf.Load(path)
	if err != nil {
		return nil, err
	}
	if size > 0 {
		if bg, err = bg.Scale(size, size); err != nil {
			return nil, fmt.Errorf("could not scale background %q: %w", path, err)
		}
	}
	return bg, nil
}

// PlainTile draws a light rounded square with a gray border on a transparent
// size x size buffer.
func PlainTile(size int, c *render.Composer) (*pixbuf.Pixbuf, error) {
	blank := pixbuf.Params{
		Colorspace:    pixbuf.ColorspaceRGB,
		HasAlpha:      true,
		BitsPerSample: 8,
		Width:         size,
		Height:        size,
	}
	if err := blank.Validate(); err != nil {
		return nil, fmt.Errorf("could not create tile: %w", err)
	}
	bg, err := pixbuf.New(blank)
	if err != nil {
		return nil, fmt.Errorf("could not create tile: %w", err)
	}

	tile, err := c.Compose(bg, render.PainterFunc(func(dc *gg.Context, dim render.Dimension) error {
		inset := 1.5
		radius := dim.Width / 8
		dc.DrawRoundedRectangle(inset, inset, dim.Width-2*inset, dim.Height-2*inset, radius)
		dc.SetRGBA(tileFill.R, tileFill.G, tileFill.B, tileFill.A)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		dc.SetRGBA(tileBorder.R, tileBorder.G, tileBorder.B, tileBorder.A)
		dc.SetLineWidth(1)
		return dc.Stroke()
	}))
	if err != nil {
		return nil, fmt.Errorf("could not draw tile: %w", err)
	}
	return tile, nil
}
