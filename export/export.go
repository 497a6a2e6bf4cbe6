package export

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"sync/atomic"

	"tileicons/parallel"
)

// SheetName is the base name of the contact sheet.
const SheetName = "sheet"

// SheetGap is the spacing between sheet cells, in pixels.
const SheetGap = 4

// Icon is one image with the base name it is saved under.
type Icon struct {
	Name  string
	Image image.Image
}

// Exporter saves icons into a directory on a worker pool.
type Exporter struct {
	Dir    string
	Format string
	// Palette, when set, reduces every image to its colors before encoding.
	Palette color.Palette
	Dither  bool
	Pool    *parallel.Pool
	Logger  *slog.Logger
}

func (e *Exporter) prepare(img image.Image) image.Image {
	if e.Palette == nil {
		return img
	}
	return Quantize(img, e.Palette, e.Dither)
}

// Export queues one Save per icon and waits for all of them. Individual
// failures are logged and returned joined; they do not stop other icons.
func (e *Exporter) Export(icons []Icon) error {
	if !Supported(e.Format) {
		return fmt.Errorf("unsupported output format: %s", e.Format)
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", e.Dir, err)
	}

	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pool := e.Pool
	if pool == nil {
		pool = parallel.Start(1)
	}

	var savedCount, errCount atomic.Uint64
	for _, icon := range icons {
		pool.Do(func() error {
			if err := Save(e.prepare(icon.Image), e.Format, e.Dir, icon.Name); err != nil {
				errCount.Add(1)
				logger.Error("could not save icon", "name", icon.Name, "dir", e.Dir, "error", err)
				return err
			}
			savedCount.Add(1)
			logger.Debug("icon saved", "name", icon.Name, "format", e.Format)
			return nil
		})
	}

	err := pool.Wait()

	saved, errors := savedCount.Load(), errCount.Load()
	logger.Info("stats", "saved", saved, "errors", errors, "total", saved+errors)
	if err != nil {
		return fmt.Errorf("error saving %d icons: %w", errors, err)
	}
	return nil
}

// ExportSheet writes the contact sheet of icons next to them. Sheets are
// written as PNG when the icon format is icns, which only holds square images.
func (e *Exporter) ExportSheet(icons []image.Image, columns int) error {
	sheet, err := Sheet(icons, columns, SheetGap, color.Transparent)
	if err != nil {
		return fmt.Errorf("could not lay out sheet: %w", err)
	}

	format := e.Format
	if format == "icns" {
		format = "png"
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", e.Dir, err)
	}
	if err := Save(e.prepare(sheet), format, e.Dir, SheetName); err != nil {
		return err
	}
	return nil
}
