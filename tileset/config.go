package tileset

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"

	"tileicons/export"
	"tileicons/palette"
	"tileicons/render"
	"tileicons/surface"
)

// DefaultGlyphs is the tile set rendered when none is configured.
const DefaultGlyphs = "a b c d e f 1 2 3 4 5 6 ♥ ♦ ★ ♣ ⚫ ♠"

// DefaultTileSize is the edge of the plain tile drawn when no background
// image is configured.
const DefaultTileSize = 64

// Config describes one tile set run.
type Config struct {
	// Background image. Empty draws a plain tile.
	Background string `toml:"background"`
	// Font file. Empty uses Go Regular.
	Font     string  `toml:"font"`
	FontSize float64 `toml:"font_size"`
	// Glyphs are separated by whitespace.
	Glyphs  string `toml:"glyphs"`
	Palette string `toml:"palette"`
	// Colors, as hex strings, replace Palette when set.
	Colors []string `toml:"colors,omitempty"`
	// Size scales the background to Size x Size. 0 keeps its size.
	Size          int    `toml:"size"`
	Surface       string `toml:"surface"`
	Unpremultiply bool   `toml:"unpremultiply"`

	Output OutputConfig `toml:"output"`
}

// OutputConfig controls where and how icons are written.
type OutputConfig struct {
	Dir     string `toml:"dir"`
	Format  string `toml:"format"`
	Sheet   bool   `toml:"sheet"`
	Columns int    `toml:"columns"`
	Workers int    `toml:"workers"`
	// Quantize names a palette icons are reduced to before encoding.
	Quantize string `toml:"quantize,omitempty"`
	Dither   bool   `toml:"dither"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		FontSize: render.DefaultFontSize,
		Glyphs:   DefaultGlyphs,
		Palette:  "rainbow",
		Surface:  surface.RGBA.Name,
		Output: OutputConfig{
			Dir:     "icons",
			Format:  "png",
			Sheet:   true,
			Columns: 6,
		},
	}
}

// DecodeConfig reads TOML over DefaultConfig. The metadata tells which keys
// the document defined.
func DecodeConfig(r io.Reader) (Config, toml.MetaData, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, md, fmt.Errorf("could not parse config: %w", err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown config key", "key", key.String())
	}
	return cfg, md, nil
}

// configKeys maps command flags to their TOML keys.
var configKeys = map[string][]string{
	"background":    {"background"},
	"font":          {"font"},
	"font-size":     {"font_size"},
	"glyphs":        {"glyphs"},
	"palette":       {"palette"},
	"colors":        {"colors"},
	"size":          {"size"},
	"surface":       {"surface"},
	"unpremultiply": {"unpremultiply"},
	"out":           {"output", "dir"},
	"format":        {"output", "format"},
	"sheet":         {"output", "sheet"},
	"columns":       {"output", "columns"},
	"workers":       {"output", "workers"},
	"quantize":      {"output", "quantize"},
	"dither":        {"output", "dither"},
}

// TOMLLoader is a kong configuration loader. Keys the file defines become
// flag defaults; flags on the command line still win.
func TOMLLoader(r io.Reader) (kong.Resolver, error) {
	cfg, md, err := DecodeConfig(r)
	if err != nil {
		return nil, err
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		key, ok := configKeys[flag.Name]
		if !ok || !md.IsDefined(key...) {
			return nil, nil
		}
		return cfg.flagValue(flag.Name), nil
	}), nil
}

// flagValue renders a setting the way it would be typed on the command line.
func (c *Config) flagValue(name string) string {
	switch name {
	case "background":
		return c.Background
	case "font":
		return c.Font
	case "font-size":
		return fmt.Sprint(c.FontSize)
	case "glyphs":
		return c.Glyphs
	case "palette":
		return c.Palette
	case "colors":
		return strings.Join(c.Colors, ",")
	case "size":
		return fmt.Sprint(c.Size)
	case "surface":
		return c.Surface
	case "unpremultiply":
		return fmt.Sprint(c.Unpremultiply)
	case "out":
		return c.Output.Dir
	case "format":
		return c.Output.Format
	case "sheet":
		return fmt.Sprint(c.Output.Sheet)
	case "columns":
		return fmt.Sprint(c.Output.Columns)
	case "workers":
		return fmt.Sprint(c.Output.Workers)
	case "quantize":
		return c.Output.Quantize
	case "dither":
		return fmt.Sprint(c.Output.Dither)
	}
	return ""
}

// Validate checks value ranges and names. It does not touch the filesystem.
func (c *Config) Validate() error {
	switch {
	case c.FontSize <= 0:
		return fmt.Errorf("font size must be > 0, got %v", c.FontSize)
	case c.Size < 0:
		return fmt.Errorf("size must be >= 0, got %d", c.Size)
	case c.Output.Columns < 1:
		return fmt.Errorf("columns must be >= 1, got %d", c.Output.Columns)
	case c.Output.Workers < 0:
		return fmt.Errorf("workers must be >= 0, got %d", c.Output.Workers)
	case c.Output.Dir == "":
		return fmt.Errorf("output dir must not be empty")
	case strings.TrimSpace(c.Glyphs) == "":
		return fmt.Errorf("no glyphs to render")
	}

	if !export.Supported(c.Output.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Output.Format, export.Formats)
	}
	if _, err := surface.Lookup(c.Surface); err != nil {
		return fmt.Errorf("invalid surface: %w", err)
	}
	if len(c.Colors) > 0 {
		if _, err := palette.Parse(c.Colors); err != nil {
			return fmt.Errorf("invalid colors: %w", err)
		}
	}
	return nil
}

// LoadPalette returns Colors when set, the named or .pal Palette otherwise.
func (c *Config) LoadPalette() (palette.Palette, error) {
	if len(c.Colors) > 0 {
		return palette.Parse(c.Colors)
	}
	return palette.Load(c.Palette)
}

// QuantizePalette loads Output.Quantize, or returns nil when it is empty.
func (c *Config) QuantizePalette() (palette.Palette, error) {
	if c.Output.Quantize == "" {
		return nil, nil
	}
	pal, err := palette.Load(c.Output.Quantize)
	if err != nil {
		return nil, fmt.Errorf("invalid quantize palette: %w", err)
	}
	return pal, nil
}

// LoadFace opens Font, or Go Regular when Font is empty, at FontSize.
func (c *Config) LoadFace() (*render.Face, error) {
	if c.Font == "" {
		return render.DefaultFace(c.FontSize)
	}
	return render.LoadFace(c.Font, c.FontSize)
}
