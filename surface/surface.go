// Package surface describes the raw pixel memory of a rendering surface and
// converts it into pixbuf buffers.
//
// A surface stores one 32-bit pixel per 4 bytes. Where each channel sits in
// those 4 bytes depends on the backend and, for formats defined as native
// 32-bit words, on host byte order. Format carries that layout so the
// converter never hard-codes it.
package surface

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
)

// BytesPerPixel is the size of one surface pixel.
const BytesPerPixel = 4

// StrideAlign is the row alignment used by New, matching cairo's
// stride-for-width for 32-bit formats.
const StrideAlign = 4

// ErrInvalidSurface is returned for surfaces whose geometry or layout cannot
// be read.
var ErrInvalidSurface = errors.New("invalid surface")

// ChannelOrder gives the byte offset of each channel inside one pixel.
type ChannelOrder struct {
	Red, Green, Blue, Alpha int
}

// Validate checks the offsets are a permutation of 0..3.
func (o ChannelOrder) Validate() error {
	var seen [BytesPerPixel]bool
	for _, off := range []int{o.Red, o.Green, o.Blue, o.Alpha} {
		if off < 0 || off >= BytesPerPixel || seen[off] {
			return fmt.Errorf("%w: channel order %+v", ErrInvalidSurface, o)
		}
		seen[off] = true
	}
	return nil
}

// Format is a named pixel layout.
type Format struct {
	Name          string
	Order         ChannelOrder
	Premultiplied bool
}

func (f Format) String() string {
	return f.Name
}

var (
	// RGBA is the gg pixmap layout: bytes R,G,B,A with straight alpha.
	RGBA = Format{Name: "rgba", Order: ChannelOrder{Red: 0, Green: 1, Blue: 2, Alpha: 3}}

	// BGRAPremul is a premultiplied ARGB32 word stored little-endian.
	BGRAPremul = Format{Name: "bgra-premul", Order: ChannelOrder{Red: 2, Green: 1, Blue: 0, Alpha: 3}, Premultiplied: true}

	// ARGBPremul is a premultiplied ARGB32 word stored big-endian.
	ARGBPremul = Format{Name: "argb-premul", Order: ChannelOrder{Red: 1, Green: 2, Blue: 3, Alpha: 0}, Premultiplied: true}
)

var nativeARGB32 = sync.OnceValue(func() Format {
	var probe [4]byte
	binary.NativeEndian.PutUint32(probe[:], 0xAA000000)
	if probe[3] == 0xAA {
		return BGRAPremul
	}
	return ARGBPremul
})

// NativeARGB32 returns the byte layout of premultiplied ARGB32 words on this
// host.
func NativeARGB32() Format {
	return nativeARGB32()
}

// Formats lists the known layouts by name.
func Formats() map[string]Format {
	return map[string]Format{
		RGBA.Name:       RGBA,
		BGRAPremul.Name: BGRAPremul,
		ARGBPremul.Name: ARGBPremul,
	}
}

// Native names NativeARGB32 in Lookup.
const Native = "native"

// Lookup resolves a layout by name, including Native.
func Lookup(name string) (Format, error) {
	if name == Native {
		return NativeARGB32(), nil
	}
	if f, ok := Formats()[name]; ok {
		return f, nil
	}
	return Format{}, fmt.Errorf("%w: unknown format %q", ErrInvalidSurface, name)
}

// Surface is a read view over rendered pixel memory. Row y starts at
// Pix[y*Stride]; bytes past Width*4 in a row are padding.
type Surface struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
	Format Format
}

// CheckSize reports whether a surface of this size can be allocated.
func CheckSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidSurface, width, height)
	}
	return nil
}

// StrideForWidth returns the aligned row size for width pixels.
func StrideForWidth(width int) int {
	return (width*BytesPerPixel + StrideAlign - 1) / StrideAlign * StrideAlign
}

// New allocates a zeroed surface.
func New(width, height int, format Format) (*Surface, error) {
	if err := CheckSize(width, height); err != nil {
		return nil, err
	}
	stride := StrideForWidth(width)
	return Wrap(make([]byte, stride*height), width, height, stride, format)
}

// Wrap views existing pixel memory without copying it.
func Wrap(pix []byte, width, height, stride int, format Format) (*Surface, error) {
	s := &Surface{Pix: pix, Width: width, Height: height, Stride: stride, Format: format}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the surface can be read without going out of bounds.
func (s *Surface) Validate() error {
	if err := CheckSize(s.Width, s.Height); err != nil {
		return err
	}
	if s.Stride < s.Width*BytesPerPixel {
		return fmt.Errorf("%w: stride %d shorter than %d pixels", ErrInvalidSurface, s.Stride, s.Width)
	}
	if need := s.Stride*(s.Height-1) + s.Width*BytesPerPixel; len(s.Pix) < need {
		return fmt.Errorf("%w: %d bytes, need %d", ErrInvalidSurface, len(s.Pix), need)
	}
	return s.Format.Order.Validate()
}

// PixelBytes returns the 4 bytes of pixel (x, y).
func (s *Surface) PixelBytes(x, y int) []byte {
	off := y*s.Stride + x*BytesPerPixel
	return s.Pix[off : off+BytesPerPixel : off+BytesPerPixel]
}

// Set stores a straight-alpha color at (x, y) in the surface layout,
// premultiplying when the format requires it.
func (s *Surface) Set(x, y int, r, g, b, a uint8) {
	if s.Format.Premultiplied {
		r, g, b = premul(r, a), premul(g, a), premul(b, a)
	}
	px := s.PixelBytes(x, y)
	px[s.Format.Order.Red] = r
	px[s.Format.Order.Green] = g
	px[s.Format.Order.Blue] = b
	px[s.Format.Order.Alpha] = a
}

func premul(c, a uint8) uint8 {
	return uint8((uint32(c)*uint32(a) + 127) / 255)
}

// FromRGBA copies a tightly packed straight-alpha RGBA buffer, such as a gg
// pixmap, into a new surface laid out in format.
func FromRGBA(pix []byte, width, height int, format Format) (*Surface, error) {
	src, err := Wrap(pix, width, height, width*BytesPerPixel, RGBA)
	if err != nil {
		return nil, err
	}
	if format == RGBA {
		return src, nil
	}

	dst, err := New(width, height, format)
	if err != nil {
		return nil, err
	}
	for y := range height {
		for x := range width {
			px := src.PixelBytes(x, y)
			dst.Set(x, y, px[0], px[1], px[2], px[3])
		}
	}
	return dst, nil
}
