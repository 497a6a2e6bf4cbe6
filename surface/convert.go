package surface

import (
	"errors"
	"fmt"

	"tileicons/pixbuf"
)

// ErrBufferAlloc is returned when the target buffer cannot be allocated.
var ErrBufferAlloc = errors.New("could not allocate pixbuf")

// Converter copies surface pixels into a pixbuf, reordering channels from the
// surface format into R,G,B,A.
//
// Channel values are copied verbatim. A premultiplied surface therefore
// yields premultiplied samples in the straight-alpha pixbuf, so translucent
// pixels come out darker than intended. This matches the reference output
// and is left as is; set Unpremultiply to divide color by alpha instead.
type Converter struct {
	Unpremultiply bool
}

// Convert allocates a pixbuf with params and fills it from s. The pixbuf's
// size must match the surface.
func (c Converter) Convert(s *Surface, params pixbuf.Params) (*pixbuf.Pixbuf, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("could not read surface pixels: %w", err)
	}
	if params.Width != s.Width || params.Height != s.Height {
		return nil, fmt.Errorf("%w: target %dx%d for a %dx%d surface",
			ErrBufferAlloc, params.Width, params.Height, s.Width, s.Height)
	}

	dst, err := pixbuf.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBufferAlloc, err)
	}

	order := s.Format.Order
	unpremul := c.Unpremultiply && s.Format.Premultiplied
	width := s.Width
	for i := range width * s.Height {
		x, y := i%width, i/width
		px := s.PixelBytes(x, y)
		r, g, b, a := px[order.Red], px[order.Green], px[order.Blue], px[order.Alpha]
		if unpremul {
			r, g, b = unpremultiply(r, a), unpremultiply(g, a), unpremultiply(b, a)
		}
		dst.PutPixel(x, y, r, g, b, a)
	}

	return dst, nil
}

func unpremultiply(c, a uint8) uint8 {
	if a == 0 {
		return 0
	}
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	return uint8(min(v, 255))
}
