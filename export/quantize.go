package export

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Quantize maps img onto pal, with Floyd-Steinberg error diffusion when
// dither is set. A fully transparent entry is added when pal has none so
// transparent tile corners stay clear.
func Quantize(img image.Image, pal color.Palette, dither bool) *image.Paletted {
	if !hasTransparent(pal) && len(pal) < 256 {
		pal = append(color.Palette{color.Transparent}, pal...)
	}

	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	dest := image.NewPaletted(dr, pal)

	if dither {
		draw.FloydSteinberg.Draw(dest, dr, img, sr.Min)
	} else {
		draw.Draw(dest, dr, img, sr.Min, draw.Src)
	}
	return dest
}

func hasTransparent(pal color.Palette) bool {
	for _, c := range pal {
		if _, _, _, a := c.RGBA(); a == 0 {
			return true
		}
	}
	return false
}
