// Package tileset builds the list of labeled tile icons and runs the
// tileicons command.
package tileset

import (
	"fmt"
	"log/slog"

	"tileicons/palette"
	"tileicons/pixbuf"
	"tileicons/render"
)

// Builder renders one icon per table entry, in table order, on the caller's
// goroutine.
type Builder struct {
	Composer   *render.Composer
	Text       *render.TextRenderer
	Background *pixbuf.Pixbuf
	Logger     *slog.Logger
}

// Build appends a tile for every entry to a new model. The first failure
// aborts the build.
func (b *Builder) Build(table palette.Table) (*Model, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}

	model := &Model{}
	for i, e := range table {
		text := string(e.Glyph)
		glyphLog := logger.With("glyph", text, "color", e.Color)

		if !b.Text.Face.HasGlyph(e.Glyph) {
			glyphLog.Warn("glyph not in font, drawing a placeholder", "font", b.Text.Face.Name())
		}

		icon, err := b.Composer.Compose(b.Background, render.TileIcon(b.Background, b.Text, text, e.Color))
		if err != nil {
			return nil, fmt.Errorf("could not render tile %d (%q): %w", i, text, err)
		}
		model.Append(icon)
		glyphLog.Debug("tile rendered", "index", i)
	}
	return model, nil
}

// IconName is the base file name of tile i showing glyph r.
func IconName(i int, r rune) string {
	return fmt.Sprintf("%02d-%U", i, r)
}
