package palette

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Palette is an ordered list of colors reused cyclically.
type Palette []Color

// At returns the color for position i, wrapping around the palette.
func (p Palette) At(i int) Color {
	return p[i%len(p)]
}

// Std returns the palette as a color.Palette.
func (p Palette) Std() color.Palette {
	pal := make(color.Palette, len(p))
	for i, c := range p {
		pal[i] = c
	}
	return pal
}

var named = map[string]Palette{
	"rainbow": {
		RGB(0xFF, 0x00, 0x00),
		RGB(0xFF, 0xA5, 0x00),
		RGB(0xFF, 0xFB, 0x00),
		RGB(0x00, 0xFF, 0x00),
		RGB(0x00, 0x00, 0xFF),
		RGB(0x80, 0x00, 0x80),
	},
	"bw": {
		RGB(0x00, 0x00, 0x00),
		RGB(0xFF, 0xFF, 0xFF),
	},
	"vga16": {
		RGB(0x00, 0x00, 0x00),
		RGB(0x00, 0x00, 0xAA),
		RGB(0x00, 0xAA, 0x00),
		RGB(0x00, 0xAA, 0xAA),
		RGB(0xAA, 0x00, 0x00),
		RGB(0xAA, 0x00, 0xAA),
		RGB(0xAA, 0x55, 0x00),
		RGB(0xAA, 0xAA, 0xAA),
		RGB(0x55, 0x55, 0x55),
		RGB(0x55, 0x55, 0xFF),
		RGB(0x55, 0xFF, 0x55),
		RGB(0x55, 0xFF, 0xFF),
		RGB(0xFF, 0x55, 0x55),
		RGB(0xFF, 0x55, 0xFF),
		RGB(0xFF, 0xFF, 0x55),
		RGB(0xFF, 0xFF, 0xFF),
	},
}

// Names lists the built-in palettes.
func Names() []string {
	return []string{"rainbow", "bw", "vga16"}
}

// Load resolves a built-in palette name, generates "hues:N" or reads a RIFF
// .pal file.
func Load(name string) (Palette, error) {
	if pal, ok := named[strings.ToLower(name)]; ok {
		return append(Palette(nil), pal...), nil
	}
	if pal, ok, err := parseHues(name); ok {
		return pal, err
	}

	if !strings.EqualFold(filepath.Ext(name), ".pal") {
		return nil, fmt.Errorf("unknown palette %q, should be one of %v, hues:N or a .pal file", name, Names())
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open palette file %q: %w", name, err)
	}
	defer f.Close()

	pal, err := ReadRIFF(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette file %q: %w", name, err)
	}
	if len(pal) == 0 {
		return nil, fmt.Errorf("palette file %q has no colors", name)
	}
	return pal, nil
}

// Parse builds a palette from hex color strings.
func Parse(hexes []string) (Palette, error) {
	pal := make(Palette, 0, len(hexes))
	for i, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		pal = append(pal, c)
	}
	return pal, nil
}

// Entry is one tile face: a glyph and the color it is drawn with.
type Entry struct {
	Glyph rune
	Color Color
}

// Table is the ordered list of tiles to render.
type Table []Entry

// NewTable assigns palette colors to the glyphs by position. Whitespace only
// separates glyphs and does not consume a color.
func NewTable(glyphs string, pal Palette) (Table, error) {
	if len(pal) == 0 {
		return nil, fmt.Errorf("empty palette")
	}

	var t Table
	for _, r := range glyphs {
		if unicode.IsSpace(r) {
			continue
		}
		t = append(t, Entry{Glyph: r, Color: pal.At(len(t))})
	}
	return t, nil
}
