package pixbuf

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// sniffLen is how many header bytes filetype needs to match every kind it
// knows.
const sniffLen = 262

// Load decodes an image file into a buffer.
func Load(path string) (*Pixbuf, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close image", "file", path, "error", closeErr)
		}
	}()

	pb, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not load image %q: %w", path, err)
	}

	slog.Debug("image loaded", "file", path, "width", pb.Width(), "height", pb.Height(),
		"alpha", pb.HasAlpha())
	return pb, nil
}

// Decode reads any registered image format after checking the header
// actually describes an image.
func Decode(r io.Reader) (*Pixbuf, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not read header: %w", err)
	}

	kind, err := filetype.Match(head)
	if err != nil {
		return nil, fmt.Errorf("could not identify file type: %w", err)
	}
	if !filetype.IsImage(head) {
		return nil, fmt.Errorf("not an image: %s", kind.MIME.Value)
	}

	img, format, err := image.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s image: %w", kind.Extension, err)
	}

	slog.Debug("image decoded", "format", format, "model", fmt.Sprintf("%T", img.ColorModel()))
	return FromImage(img)
}

// FromImage copies an image into a new buffer. The buffer has an alpha
// channel unless the image's color model cannot carry one.
func FromImage(img image.Image) (*Pixbuf, error) {
	b := img.Bounds()
	pb, err := New(Params{
		Colorspace:    ColorspaceRGB,
		HasAlpha:      modelHasAlpha(img),
		BitsPerSample: 8,
		Width:         b.Dx(),
		Height:        b.Dy(),
	})
	if err != nil {
		return nil, err
	}

	for y := range b.Dy() {
		for x := range b.Dx() {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			pb.PutPixel(x, y, c.R, c.G, c.B, c.A)
		}
	}
	return pb, nil
}

func modelHasAlpha(img image.Image) bool {
	switch m := img.(type) {
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xFFFF {
				return true
			}
		}
		return false
	case *Pixbuf:
		return m.HasAlpha()
	}

	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return false
	}
	return true
}

// Scale returns a copy resampled to width x height with the same format.
func (p *Pixbuf) Scale(width, height int) (*Pixbuf, error) {
	if width == p.Width() && height == p.Height() {
		return p, nil
	}

	params := p.params
	params.Width, params.Height = width, height
	dst, err := New(params)
	if err != nil {
		return nil, err
	}

	tmp := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(tmp, tmp.Bounds(), p, p.Bounds(), draw.Src, nil)
	for y := range height {
		for x := range width {
			c := tmp.NRGBAAt(x, y)
			dst.PutPixel(x, y, c.R, c.G, c.B, c.A)
		}
	}
	return dst, nil
}
