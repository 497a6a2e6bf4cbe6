// Package pixbuf provides the image buffer handed to icon consumers: a
// straight-alpha RGB(A) byte buffer with a 4-byte aligned rowstride, written
// one pixel at a time.
package pixbuf

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidParams is returned when a buffer cannot be allocated with the
// requested geometry or sample format.
var ErrInvalidParams = errors.New("invalid pixbuf parameters")

// Colorspace of the samples. Only RGB exists.
type Colorspace int

const (
	ColorspaceRGB Colorspace = iota
)

func (c Colorspace) String() string {
	switch c {
	case ColorspaceRGB:
		return "rgb"
	default:
		return fmt.Sprintf("colorspace(%d)", int(c))
	}
}

// Params describes the format and geometry of a buffer.
type Params struct {
	Colorspace    Colorspace
	HasAlpha      bool
	BitsPerSample int
	Width         int
	Height        int
}

// NChannels is 4 with alpha, 3 without.
func (p Params) NChannels() int {
	if p.HasAlpha {
		return 4
	}
	return 3
}

// Rowstride is the row size in bytes rounded up to a multiple of 4.
func (p Params) Rowstride() int {
	return (p.Width*p.NChannels()*p.BitsPerSample/8 + 3) &^ 3
}

// Validate reports whether a buffer with these parameters can exist.
func (p Params) Validate() error {
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidParams, p.Width, p.Height)
	case p.Colorspace != ColorspaceRGB:
		return fmt.Errorf("%w: unsupported %s", ErrInvalidParams, p.Colorspace)
	case p.BitsPerSample != 8:
		return fmt.Errorf("%w: unsupported %d bits per sample", ErrInvalidParams, p.BitsPerSample)
	}
	return nil
}

// Pixbuf is a buffer of R,G,B[,A] samples in row order.
type Pixbuf struct {
	params    Params
	rowstride int
	pixels    []byte
}

var _ image.Image = (*Pixbuf)(nil)

// New allocates a zeroed buffer.
func New(p Params) (*Pixbuf, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rowstride := p.Rowstride()
	return &Pixbuf{
		params:    p,
		rowstride: rowstride,
		pixels:    make([]byte, rowstride*p.Height),
	}, nil
}

func (p *Pixbuf) Params() Params { return p.params }
func (p *Pixbuf) Width() int { return p.params.Width }
func (p *Pixbuf) Height() int { return p.params.Height }
func (p *Pixbuf) HasAlpha() bool { return p.params.HasAlpha }
func (p *Pixbuf) BitsPerSample() int { return p.params.BitsPerSample }
func (p *Pixbuf) Colorspace() Colorspace { return p.params.Colorspace }
func (p *Pixbuf) NChannels() int { return p.params.NChannels() }
func (p *Pixbuf) Rowstride() int { return p.rowstride }

// Pixels exposes the backing samples. Row y starts at y*Rowstride().
func (p *Pixbuf) Pixels() []byte { return p.pixels }

func (p *Pixbuf) offset(x, y int) int {
	return y*p.rowstride + x*p.params.NChannels()
}

// PutPixel writes one pixel. Alpha is dropped when the buffer has none.
// Out of range coordinates are ignored.
func (p *Pixbuf) PutPixel(x, y int, r, g, b, a uint8) {
	if x < 0 || y < 0 || x >= p.params.Width || y >= p.params.Height {
		return
	}

	off := p.offset(x, y)
	p.pixels[off] = r
	p.pixels[off+1] = g
	p.pixels[off+2] = b
	if p.params.HasAlpha {
		p.pixels[off+3] = a
	}
}

// Pixel reads one pixel. Buffers without alpha report 0xFF.
func (p *Pixbuf) Pixel(x, y int) (r, g, b, a uint8) {
	if x < 0 || y < 0 || x >= p.params.Width || y >= p.params.Height {
		return 0, 0, 0, 0
	}

	off := p.offset(x, y)
	a = 0xFF
	if p.params.HasAlpha {
		a = p.pixels[off+3]
	}
	return p.pixels[off], p.pixels[off+1], p.pixels[off+2], a
}

func (p *Pixbuf) ColorModel() color.Model {
	return color.NRGBAModel
}

func (p *Pixbuf) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.params.Width, p.params.Height)
}

func (p *Pixbuf) At(x, y int) color.Color {
	r, g, b, a := p.Pixel(x, y)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Opaque reports whether every pixel is fully opaque.
func (p *Pixbuf) Opaque() bool {
	if !p.params.HasAlpha {
		return true
	}
	for y := range p.params.Height {
		row := p.pixels[y*p.rowstride:]
		for x := range p.params.Width {
			if row[x*4+3] != 0xFF {
				return false
			}
		}
	}
	return true
}

// Equal reports whether both buffers have the same parameters and pixels.
// Row padding is not compared.
func (p *Pixbuf) Equal(o *Pixbuf) bool {
	if p.params != o.params {
		return false
	}
	rowBytes := p.params.Width * p.params.NChannels()
	for y := range p.params.Height {
		a := p.pixels[y*p.rowstride : y*p.rowstride+rowBytes]
		b := o.pixels[y*o.rowstride : y*o.rowstride+rowBytes]
		if string(a) != string(b) {
			return false
		}
	}
	return true
}

// NRGBA copies the buffer into a standard image.
func (p *Pixbuf) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(p.Bounds())
	for y := range p.params.Height {
		for x := range p.params.Width {
			r, g, b, a := p.Pixel(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, a
		}
	}
	return img
}
