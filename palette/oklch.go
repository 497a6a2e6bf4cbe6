// OKLab conversions follow https://bottosson.github.io/posts/oklab/

package palette

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LCh is a color in the polar form of OKLab: perceived lightness L in [0,1],
// chroma C and hue H in degrees.
type LCh struct {
	L, C, H float64
}

// Hue palette defaults, chosen to stay inside sRGB for most hues.
const (
	HueLightness = 0.7
	HueChroma    = 0.16
)

const huesPrefix = "hues:"

// Hues returns n opaque colors at evenly spaced hues with the same perceived
// lightness and chroma, starting at red.
func Hues(n int) Palette {
	pal := make(Palette, n)
	for i := range n {
		pal[i] = LCh{L: HueLightness, C: HueChroma, H: 30 + 360*float64(i)/float64(n)}.Color()
	}
	return pal
}

// parseHues reads "hues:N".
func parseHues(name string) (Palette, bool, error) {
	count, ok := strings.CutPrefix(strings.ToLower(name), huesPrefix)
	if !ok {
		return nil, false, nil
	}
	n, err := strconv.Atoi(count)
	if err != nil || n < 1 || n > 256 {
		return nil, true, fmt.Errorf("invalid hue count %q, should be 1 to 256", count)
	}
	return Hues(n), true, nil
}

// ToLCh converts an sRGB color, ignoring alpha.
func ToLCh(c Color) LCh {
	l, a, b := linearToLab(toLinear(c.R), toLinear(c.G), toLinear(c.B))
	h := math.Atan2(b, a) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return LCh{L: l, C: math.Hypot(a, b), H: h}
}

// Color converts to opaque sRGB. Colors outside the sRGB gamut keep their
// lightness and hue and lose chroma until they fit.
func (lc LCh) Color() Color {
	r, g, b := lc.linear()
	if !inGamut(r, g, b) {
		lo, hi := 0.0, lc.C
		for range 24 {
			mid := (lo + hi) / 2
			if r, g, b = (LCh{L: lc.L, C: mid, H: lc.H}).linear(); inGamut(r, g, b) {
				lo = mid
			} else {
				hi = mid
			}
		}
		r, g, b = LCh{L: lc.L, C: lo, H: lc.H}.linear()
	}
	return RGB(fromLinear(r), fromLinear(g), fromLinear(b))
}

func (lc LCh) linear() (r, g, b float64) {
	rad := lc.H * math.Pi / 180
	return labToLinear(lc.L, lc.C*math.Cos(rad), lc.C*math.Sin(rad))
}

func inGamut(r, g, b float64) bool {
	const eps = 1e-6
	return r >= -eps && r <= 1+eps && g >= -eps && g <= 1+eps && b >= -eps && b <= 1+eps
}

func linearToLab(r, g, b float64) (l, a, bb float64) {
	lm := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	mm := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	sm := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	return 0.2104542553*lm + 0.7936177850*mm - 0.0040720468*sm,
		1.9779984951*lm - 2.4285922050*mm + 0.4505937099*sm,
		0.0259040371*lm + 0.7827717662*mm - 0.8086757660*sm
}

func labToLinear(l, a, b float64) (r, g, bb float64) {
	lm := l + 0.3963377774*a + 0.2158037573*b
	mm := l - 0.1055613458*a - 0.0638541728*b
	sm := l - 0.0894841775*a - 1.2914855480*b
	lm, mm, sm = lm*lm*lm, mm*mm*mm, sm*sm*sm

	return 4.0767416621*lm - 3.3077115913*mm + 0.2309699292*sm,
		-1.2684380046*lm + 2.6097574011*mm - 0.3413193965*sm,
		-0.0041960863*lm - 0.7034186147*mm + 1.7076147010*sm
}

func toLinear(c uint8) float64 {
	x := float64(c) / 0xFF
	if x <= 0.04045 {
		return x / 12.92
	}
	return math.Pow((x+0.055)/1.055, 2.4)
}

func fromLinear(x float64) uint8 {
	x = min(max(x, 0), 1)
	if x <= 0.0031308 {
		x *= 12.92
	} else {
		x = 1.055*math.Pow(x, 1/2.4) - 0.055
	}
	return uint8(math.Round(x * 0xFF))
}
