package export

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Sheet lays icons out left to right in rows of columns cells, like an icon
// view. Every cell is as large as the largest icon and icons are centered in
// their cell. Empty cells and the gaps between cells are filled with bg.
func Sheet(icons []image.Image, columns, gap int, bg color.Color) (*image.NRGBA, error) {
	if len(icons) == 0 {
		return nil, fmt.Errorf("no icons to lay out")
	}
	if columns < 1 {
		return nil, fmt.Errorf("invalid column count: %d", columns)
	}
	gap = max(gap, 0)

	var cellW, cellH int
	for _, icon := range icons {
		b := icon.Bounds()
		cellW, cellH = max(cellW, b.Dx()), max(cellH, b.Dy())
	}

	columns = min(columns, len(icons))
	rows := (len(icons) + columns - 1) / columns
	sheet := image.NewNRGBA(image.Rect(0, 0,
		columns*cellW+(columns+1)*gap,
		rows*cellH+(rows+1)*gap))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for i, icon := range icons {
		b := icon.Bounds()
		col, row := i%columns, i/columns
		x := gap + col*(cellW+gap) + (cellW-b.Dx())/2
		y := gap + row*(cellH+gap) + (cellH-b.Dy())/2
		draw.Draw(sheet, image.Rect(x, y, x+b.Dx(), y+b.Dy()), icon, b.Min, draw.Over)
	}

	return sheet, nil
}
