package tileset

import (
	"image"

	"tileicons/pixbuf"
)

// Model is a single-column list of icons in insertion order.
type Model struct {
	icons []*pixbuf.Pixbuf
}

func (m *Model) Append(icon *pixbuf.Pixbuf) {
	m.icons = append(m.icons, icon)
}

func (m *Model) Len() int {
	return len(m.icons)
}

func (m *Model) At(i int) *pixbuf.Pixbuf {
	return m.icons[i]
}

// Icons returns the column as images, for layout and export.
func (m *Model) Icons() []image.Image {
	imgs := make([]image.Image, len(m.icons))
	for i, icon := range m.icons {
		imgs[i] = icon
	}
	return imgs
}
