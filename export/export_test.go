package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tileicons/parallel"
)

func square(size int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestSaveFormats(t *testing.T) {
	dir := t.TempDir()
	img := square(32, color.NRGBA{R: 0xFF, A: 0xFF})

	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			require.NoError(t, Save(img, format, dir, "tile"))
			info, err := os.Stat(filepath.Join(dir, "tile."+format))
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(Formats), "no temporary files are left behind")
}

func TestSavePNGRoundTrip(t *testing.T) {
	dir := t.TempDir()
	img := square(4, color.NRGBA{G: 0xFF, A: 0x80})
	require.NoError(t, Save(img, "png", dir, "half"))

	data, err := os.ReadFile(filepath.Join(dir, "half.png"))
	require.NoError(t, err)
	got, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 0xFF, A: 0x80}, color.NRGBAModel.Convert(got.At(3, 3)))
}

func TestSaveUnsupported(t *testing.T) {
	dir := t.TempDir()
	err := Save(square(2, color.NRGBA{A: 0xFF}), "xpm", dir, "tile")
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.False(t, Supported("xpm"))
	assert.True(t, Supported("icns"))
}

func TestSheetLayout(t *testing.T) {
	red := color.NRGBA{R: 0xFF, A: 0xFF}
	var icons []image.Image
	for range 7 {
		icons = append(icons, square(8, red))
	}

	sheet, err := Sheet(icons, 3, 2, color.Transparent)
	require.NoError(t, err)
	// 3 columns, ceil(7/3) = 3 rows.
	assert.Equal(t, 3*8+4*2, sheet.Bounds().Dx())
	assert.Equal(t, 3*8+4*2, sheet.Bounds().Dy())

	assert.Equal(t, red, sheet.NRGBAAt(2, 2), "first cell")
	assert.Equal(t, red, sheet.NRGBAAt(2, 22), "seventh cell starts the third row")
	assert.Equal(t, color.NRGBA{}, sheet.NRGBAAt(0, 0), "gap")
	assert.Equal(t, color.NRGBA{}, sheet.NRGBAAt(12, 22), "empty cell")
}

func TestSheetFewerIconsThanColumns(t *testing.T) {
	sheet, err := Sheet([]image.Image{square(8, color.NRGBA{A: 0xFF}), square(8, color.NRGBA{A: 0xFF})}, 6, 0, color.Transparent)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 8), sheet.Bounds())
}

func TestSheetFailures(t *testing.T) {
	_, err := Sheet(nil, 3, 0, color.Transparent)
	assert.Error(t, err)
	_, err = Sheet([]image.Image{square(1, color.NRGBA{})}, 0, 0, color.Transparent)
	assert.Error(t, err)
}

func TestExporter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	icons := []Icon{
		{Name: "00-U+0061", Image: square(8, color.NRGBA{R: 0xFF, A: 0xFF})},
		{Name: "01-U+0062", Image: square(8, color.NRGBA{B: 0xFF, A: 0xFF})},
		{Name: "02-U+0063", Image: square(8, color.NRGBA{G: 0xFF, A: 0xFF})},
	}

	e := &Exporter{Dir: dir, Format: "png", Pool: parallel.Start(2)}
	require.NoError(t, e.Export(icons))
	for _, icon := range icons {
		assert.FileExists(t, filepath.Join(dir, icon.Name+".png"))
	}

	imgs := []image.Image{icons[0].Image, icons[1].Image, icons[2].Image}
	require.NoError(t, e.ExportSheet(imgs, 2))
	assert.FileExists(t, filepath.Join(dir, SheetName+".png"))
}

func TestExporterIcnsSheetIsPNG(t *testing.T) {
	dir := t.TempDir()
	e := &Exporter{Dir: dir, Format: "icns"}
	require.NoError(t, e.ExportSheet([]image.Image{square(16, color.NRGBA{A: 0xFF})}, 1))
	assert.FileExists(t, filepath.Join(dir, SheetName+".png"))
}

func TestExporterRejectsFormat(t *testing.T) {
	e := &Exporter{Dir: t.TempDir(), Format: "webp"}
	assert.Error(t, e.Export([]Icon{{Name: "a", Image: square(1, color.NRGBA{})}}))
}

func TestQuantize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xF0, G: 0x10, B: 0x10, A: 0xFF})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0x10, G: 0x10, B: 0xF0, A: 0xFF})
	pal := color.Palette{color.NRGBA{R: 0xFF, A: 0xFF}, color.NRGBA{B: 0xFF, A: 0xFF}}

	q := Quantize(img, pal, false)
	require.Len(t, q.Palette, 3, "transparent entry added")
	assert.Equal(t, color.NRGBA{R: 0xFF, A: 0xFF}, q.At(0, 0))
	assert.Equal(t, color.NRGBA{B: 0xFF, A: 0xFF}, q.At(1, 0))
	_, _, _, a := q.At(3, 0).RGBA()
	assert.Zero(t, a)

	dithered := Quantize(img, pal, true)
	assert.Equal(t, img.Bounds(), dithered.Bounds())
	assert.Len(t, pal, 2, "caller palette untouched")
}

func TestExporterQuantizes(t *testing.T) {
	dir := t.TempDir()
	e := &Exporter{Dir: dir, Format: "png", Palette: color.Palette{color.NRGBA{G: 0xFF, A: 0xFF}}}
	require.NoError(t, e.Export([]Icon{{Name: "q", Image: square(4, color.NRGBA{G: 0xC0, A: 0xFF})}}))

	data, err := os.ReadFile(filepath.Join(dir, "q.png"))
	require.NoError(t, err)
	got, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 0xFF, A: 0xFF}, color.NRGBAModel.Convert(got.At(0, 0)))
}
