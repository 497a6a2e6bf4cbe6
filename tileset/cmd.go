package tileset

import (
	"fmt"
	"log/slog"

	"github.com/alecthomas/kong"

	"tileicons/export"
	"tileicons/palette"
	"tileicons/parallel"
	"tileicons/render"
	"tileicons/surface"
)

type CLICmd struct {
	Config        kong.ConfigFlag `help:"TOML file with settings. Flags given on the command line override it"`
	Background    string          `help:"Background tile image. A plain tile is drawn when empty"`
	Font          string          `help:"TrueType or OpenType font file. Go Regular when empty" group:"text"`
	FontSize      float64         `help:"Font size in pixels" default:"48" group:"text"`
	Glyphs        string          `help:"Glyphs to render, separated by whitespace" default:"a b c d e f 1 2 3 4 5 6 ♥ ♦ ★ ♣ ⚫ ♠" group:"text"`
	Palette       string          `help:"Palette name (rainbow, bw, vga16) or PAL file in RIFF format, cycled over the glyphs" default:"rainbow" group:"text"`
	Colors        []string        `help:"Glyph colors as #RGB, #RGBA, #RRGGBB or #RRGGBBAA, used instead of the palette" group:"text"`
	Size          int             `help:"Scale the background to this many pixels square. 0 keeps its size" default:"0"`
	Surface       string          `help:"Layout rendered pixels are read back in" enum:"rgba,bgra-premul,argb-premul,native" default:"rgba" group:"pixels"`
	Unpremultiply bool            `help:"Divide color by alpha when reading a premultiplied surface" default:"false" group:"pixels"`
	Out           string          `help:"Destination folder for icons" default:"icons" group:"output"`
	Format        string          `help:"Output format of icons" enum:"png,jpeg,gif,bmp,tiff,icns" default:"png" group:"output"`
	Sheet         bool            `help:"Also write a contact sheet of all icons" default:"true" negatable:"" group:"output"`
	Columns       int             `help:"Icons per contact sheet row" default:"6" group:"output"`
	Workers       int             `help:"Icons saved in parallel. 0 uses one per CPU" default:"0" group:"output"`
	Quantize      string          `help:"Reduce icons to this palette (name, hues:N or PAL file) before saving" group:"output"`
	Dither        bool            `help:"Apply dithering when reducing to a palette" default:"false" group:"output"`

	settings Config
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	c.settings = Config{
		Background:    c.Background,
		Font:          c.Font,
		FontSize:      c.FontSize,
		Glyphs:        c.Glyphs,
		Palette:       c.Palette,
		Colors:        c.Colors,
		Size:          c.Size,
		Surface:       c.Surface,
		Unpremultiply: c.Unpremultiply,
		Output: OutputConfig{
			Dir:      c.Out,
			Format:   c.Format,
			Sheet:    c.Sheet,
			Columns:  c.Columns,
			Workers:  c.Workers,
			Quantize: c.Quantize,
			Dither:   c.Dither,
		},
	}
	if err := c.settings.Validate(); err != nil {
		return err
	}

	if _, err := c.settings.LoadPalette(); err != nil {
		return err
	}
	if _, err := c.settings.QuantizePalette(); err != nil {
		return err
	}
	return nil
}

func (c *CLICmd) Run(logger *slog.Logger) error {
	return Run(c.settings, logger)
}

// Render loads the face, background and palette described by cfg and builds
// the tile model. The returned table lists the tiles in model order.
func Render(cfg Config, logger *slog.Logger) (*Model, palette.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	face, err := cfg.LoadFace()
	if err != nil {
		return nil, nil, err
	}
	text, err := render.NewTextRenderer(face)
	if err != nil {
		return nil, nil, err
	}

	format, err := surface.Lookup(cfg.Surface)
	if err != nil {
		return nil, nil, err
	}
	composer := &render.Composer{
		Converter: surface.Converter{Unpremultiply: cfg.Unpremultiply},
		Format:    format,
		Logger:    logger,
	}

	bg, err := LoadBackground(cfg.Background, cfg.Size, composer)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load background: %w", err)
	}

	pal, err := cfg.LoadPalette()
	if err != nil {
		return nil, nil, err
	}
	table, err := palette.NewTable(cfg.Glyphs, pal)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("rendering tiles", "tiles", len(table), "width", bg.Width(), "height", bg.Height(),
		"alpha", bg.HasAlpha(), "font", face.Name(), "surface", format.Name)

	builder := &Builder{Composer: composer, Text: text, Background: bg, Logger: logger}
	model, err := builder.Build(table)
	if err != nil {
		return nil, nil, err
	}
	return model, table, nil
}

// Run renders the tile set and writes every icon, plus the contact sheet when
// enabled, into cfg.Output.Dir.
func Run(cfg Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	model, table, err := Render(cfg, logger)
	if err != nil {
		return err
	}

	quantize, err := cfg.QuantizePalette()
	if err != nil {
		return err
	}

	icons := make([]export.Icon, model.Len())
	for i := range icons {
		icons[i] = export.Icon{Name: IconName(i, table[i].Glyph), Image: model.At(i)}
	}

	exp := &export.Exporter{
		Dir:    cfg.Output.Dir,
		Format: cfg.Output.Format,
		Dither: cfg.Output.Dither,
		Pool:   parallel.Start(cfg.Output.Workers),
		Logger: logger,
	}
	if quantize != nil {
		exp.Palette = quantize.Std()
	}
	if err := exp.Export(icons); err != nil {
		return err
	}
	if cfg.Output.Sheet {
		if err := exp.ExportSheet(model.Icons(), cfg.Output.Columns); err != nil {
			return err
		}
	}

	logger.Info("done", "tiles", model.Len(), "dir", cfg.Output.Dir, "format", cfg.Output.Format)
	return nil
}
