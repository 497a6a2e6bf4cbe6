package palette

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorConstructors(t *testing.T) {
	assert.Equal(t, Color{R: 1, G: 2, B: 3, A: 255}, RGB(1, 2, 3))
	assert.Equal(t, Color{R: 1, G: 2, B: 3, A: 4}, RGBA(1, 2, 3, 4))
}

func TestNormalized(t *testing.T) {
	r, g, b, a := RGBA(0, 51, 255, 102).Normalized()
	assert.Equal(t, 0.0, r)
	assert.InDelta(t, 0.2, g, 1e-12)
	assert.Equal(t, 1.0, b)
	assert.InDelta(t, 0.4, a, 1e-12)
}

func TestColorImplementsStraightAlpha(t *testing.T) {
	c := RGBA(0xFF, 0, 0, 0x80)
	r, _, _, a := c.RGBA()
	// color.Color reports premultiplied values.
	assert.Equal(t, uint32(0x8080), r)
	assert.Equal(t, uint32(0x8080), a)
	assert.Equal(t, c, FromColor(c))
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#f00", RGB(0xFF, 0, 0)},
		{"#0f08", RGBA(0, 0xFF, 0, 0x88)},
		{"#FFA500", RGB(0xFF, 0xA5, 0)},
		{"#80008040", RGBA(0x80, 0, 0x80, 0x40)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "red", "#12", "#zzz", "#1234567"} {
		_, err := ParseHex(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewTableCyclesColors(t *testing.T) {
	pal, err := Load("rainbow")
	require.NoError(t, err)
	require.Len(t, pal, 6)

	table, err := NewTable("a b c d e f 1 2 3 4 5 6 ♥ ♦ ★ ♣ ⚫ ♠", pal)
	require.NoError(t, err)
	require.Len(t, table, 18)

	assert.Equal(t, 'a', table[0].Glyph)
	assert.Equal(t, '♠', table[17].Glyph)
	for i, e := range table {
		assert.Equal(t, pal[i%6], e.Color, "entry %d", i)
	}
}

func TestNewTableEmptyPalette(t *testing.T) {
	_, err := NewTable("abc", nil)
	assert.Error(t, err)
}

func TestLoadUnknown(t *testing.T) {
	_, err := Load("nope")
	assert.Error(t, err)
}

func TestLoadReturnsCopy(t *testing.T) {
	a, err := Load("bw")
	require.NoError(t, err)
	a[0] = RGB(1, 2, 3)

	b, err := Load("bw")
	require.NoError(t, err)
	assert.Equal(t, RGB(0, 0, 0), b[0])
}

func TestRIFFPaletteFile(t *testing.T) {
	pal := Palette{RGB(0xFF, 0, 0), RGB(0, 0x80, 0xFF), RGBA(1, 2, 3, 4)}

	var buf bytes.Buffer
	n, err := WriteRIFF(&buf, pal)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	path := filepath.Join(t.TempDir(), "tiles.pal")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Palette{RGB(0xFF, 0, 0), RGB(0, 0x80, 0xFF), RGB(1, 2, 3)}, got)
}

func TestReadRIFFRejectsOtherForms(t *testing.T) {
	data := []byte("RIFF\x04\x00\x00\x00WAVE")
	_, err := ReadRIFF(bytes.NewReader(data))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	pal, err := Parse([]string{"#000", "#FFFFFF"})
	require.NoError(t, err)
	assert.Equal(t, Palette{RGB(0, 0, 0), RGB(255, 255, 255)}, pal)

	_, err = Parse([]string{"#000", "bad"})
	assert.Error(t, err)
}

func TestHues(t *testing.T) {
	pal := Hues(12)
	require.Len(t, pal, 12)

	seen := make(map[Color]bool)
	for i, c := range pal {
		assert.Equal(t, uint8(0xFF), c.A)
		lch := ToLCh(c)
		assert.InDelta(t, HueLightness, lch.L, 0.01, "color %d keeps its lightness", i)
		assert.LessOrEqual(t, lch.C, HueChroma+0.01)
		seen[c] = true
	}
	assert.Len(t, seen, 12)
}

func TestLChRoundTrip(t *testing.T) {
	for _, c := range []Color{RGB(0xFF, 0, 0), RGB(0, 0x80, 0xFF), RGB(0x33, 0x33, 0x33), RGB(0xFF, 0xFF, 0xFF)} {
		assert.Equal(t, c, ToLCh(c).Color(), c.String())
	}
}

func TestLChClipsToGamut(t *testing.T) {
	c := LCh{L: 0.5, C: 1, H: 140}.Color()
	lch := ToLCh(c)
	assert.InDelta(t, 0.5, lch.L, 0.01)
	assert.InDelta(t, 140, lch.H, 2)
	assert.Less(t, lch.C, 1.0)
}

func TestLoadHues(t *testing.T) {
	pal, err := Load("hues:5")
	require.NoError(t, err)
	assert.Equal(t, Hues(5), pal)

	for _, name := range []string{"hues:0", "hues:x", "hues:999"} {
		_, err := Load(name)
		assert.Error(t, err, name)
	}
}
