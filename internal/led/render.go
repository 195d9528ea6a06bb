package led

import (
	"image"
	"image/color"

	"github.com/coreman2200/statusmonitor/model"
)

var palette = map[model.Color]color.NRGBA{
	model.Green:  {R: 0, G: 255, B: 0, A: 255},
	model.Yellow: {R: 255, G: 160, B: 0, A: 255},
	model.Red:    {R: 255, G: 0, B: 0, A: 255},
}

var dark = color.NRGBA{A: 255}

// Image renders the bank as a single row of pixels, one per indicator. Rows the
// chip does not scan (row >= digits) stay dark, as they would on the hardware.
func Image(rows [model.Rows]byte, digits int, enabled bool, brightness float64) *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, model.Capacity, 1))
	colors, lit := model.Decode(rows)
	for x := 0; x < im.Rect.Max.X; x++ {
		row, _ := model.Locate(x)
		px := dark
		if enabled && lit[x] && row < digits {
			px = scale(palette[colors[x]], brightness)
		}
		im.SetNRGBA(x, 0, px)
	}
	return im
}

// Pixels flattens an image row into an RGB stream.
func Pixels(im *image.NRGBA) []byte {
	w := im.Rect.Dx()
	buf := make([]byte, 0, w*3)
	for x := 0; x < w; x++ {
		c := im.NRGBAAt(im.Rect.Min.X+x, im.Rect.Min.Y)
		buf = append(buf, c.R, c.G, c.B)
	}
	return buf
}

func scale(c color.NRGBA, s float64) color.NRGBA {
	if s <= 0 {
		return dark
	}
	if s >= 1 {
		return c
	}
	return color.NRGBA{
		R: uint8(float64(c.R) * s),
		G: uint8(float64(c.G) * s),
		B: uint8(float64(c.B) * s),
		A: 255,
	}
}
