package pixbuf

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgba8(w, h int, alpha bool) Params {
	return Params{Colorspace: ColorspaceRGB, HasAlpha: alpha, BitsPerSample: 8, Width: w, Height: h}
}

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"zero width", rgba8(0, 4, true)},
		{"zero height", rgba8(4, 0, true)},
		{"negative", rgba8(-1, 4, true)},
		{"16 bit", Params{Colorspace: ColorspaceRGB, HasAlpha: true, BitsPerSample: 16, Width: 1, Height: 1}},
		{"colorspace", Params{Colorspace: Colorspace(3), HasAlpha: true, BitsPerSample: 8, Width: 1, Height: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.p)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestRowstrideAligned(t *testing.T) {
	pb, err := New(rgba8(5, 2, false))
	require.NoError(t, err)
	assert.Equal(t, 3, pb.NChannels())
	assert.Equal(t, 16, pb.Rowstride())
	assert.Len(t, pb.Pixels(), 32)

	pb, err = New(rgba8(5, 2, true))
	require.NoError(t, err)
	assert.Equal(t, 20, pb.Rowstride())
}

func TestPutPixel(t *testing.T) {
	pb, err := New(rgba8(3, 2, true))
	require.NoError(t, err)

	pb.PutPixel(2, 1, 10, 20, 30, 40)
	r, g, b, a := pb.Pixel(2, 1)
	assert.Equal(t, [4]uint8{10, 20, 30, 40}, [4]uint8{r, g, b, a})
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 40}, pb.At(2, 1))
	assert.Equal(t, []byte{10, 20, 30, 40}, pb.Pixels()[1*12+2*4:][:4])

	// Ignored, must not panic.
	pb.PutPixel(3, 0, 1, 1, 1, 1)
	pb.PutPixel(0, -1, 1, 1, 1, 1)
}

func TestPutPixelWithoutAlpha(t *testing.T) {
	pb, err := New(rgba8(2, 1, false))
	require.NoError(t, err)

	pb.PutPixel(1, 0, 1, 2, 3, 0)
	r, g, b, a := pb.Pixel(1, 0)
	assert.Equal(t, [4]uint8{1, 2, 3, 0xFF}, [4]uint8{r, g, b, a})
	assert.True(t, pb.Opaque())
}

func TestEqualIgnoresPadding(t *testing.T) {
	a, err := New(rgba8(3, 2, false))
	require.NoError(t, err)
	b, err := New(rgba8(3, 2, false))
	require.NoError(t, err)

	a.PutPixel(1, 1, 9, 9, 9, 9)
	assert.False(t, a.Equal(b))
	b.PutPixel(1, 1, 9, 9, 9, 9)
	b.Pixels()[11] = 0x55
	assert.True(t, a.Equal(b))
}

func TestFromImageAlpha(t *testing.T) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	nrgba.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	pb, err := FromImage(nrgba)
	require.NoError(t, err)
	assert.True(t, pb.HasAlpha())
	r, g, b, a := pb.Pixel(1, 0)
	assert.Equal(t, [4]uint8{200, 100, 50, 128}, [4]uint8{r, g, b, a})

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	pb, err = FromImage(gray)
	require.NoError(t, err)
	assert.False(t, pb.HasAlpha())

	pal := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Black, color.White})
	pb, err = FromImage(pal)
	require.NoError(t, err)
	assert.False(t, pb.HasAlpha())

	pal.Palette = append(pal.Palette, color.Transparent)
	pb, err = FromImage(pal)
	require.NoError(t, err)
	assert.True(t, pb.HasAlpha())
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 12, 22))
	src.SetNRGBA(10, 20, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	pb, err := FromImage(src)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), pb.Bounds())
	r, g, b, _ := pb.Pixel(0, 0)
	assert.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})
}

func TestLoadPNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 3)
	}
	path := filepath.Join(t.TempDir(), "bg.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	pb, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, pb.Width())
	assert.Equal(t, 3, pb.Height())
	assert.Equal(t, 8, pb.BitsPerSample())
	assert.Equal(t, ColorspaceRGB, pb.Colorspace())
	assert.True(t, pb.HasAlpha())
	for y := range 3 {
		for x := range 4 {
			assert.Equal(t, src.NRGBAAt(x, y), pb.At(x, y))
		}
	}
}

func TestDecodeJPEGHasNoAlpha(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8)), nil))
	pb, err := Decode(&buf)
	require.NoError(t, err)
	assert.False(t, pb.HasAlpha())
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	text := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(text, []byte("definitely not pixels"), 0o644))
	_, err = Load(text)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = Load(empty)
	assert.Error(t, err)
}

func TestScale(t *testing.T) {
	pb, err := New(rgba8(4, 4, true))
	require.NoError(t, err)
	for y := range 4 {
		for x := range 4 {
			pb.PutPixel(x, y, 0, 0xFF, 0, 0xFF)
		}
	}

	same, err := pb.Scale(4, 4)
	require.NoError(t, err)
	assert.Same(t, pb, same)

	big, err := pb.Scale(8, 6)
	require.NoError(t, err)
	assert.Equal(t, 8, big.Width())
	assert.Equal(t, 6, big.Height())
	assert.True(t, big.HasAlpha())
	r, g, b, a := big.Pixel(4, 3)
	assert.Equal(t, [4]uint8{0, 0xFF, 0, 0xFF}, [4]uint8{r, g, b, a})

	_, err = pb.Scale(0, 4)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestNRGBA(t *testing.T) {
	pb, err := New(rgba8(3, 2, false))
	require.NoError(t, err)
	pb.PutPixel(2, 1, 0x10, 0x20, 0x30, 0x40)

	img := pb.NRGBA()
	assert.Equal(t, pb.Bounds(), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}, img.NRGBAAt(2, 1))
	assert.Equal(t, color.NRGBA{A: 0xFF}, img.NRGBAAt(0, 0))
}
