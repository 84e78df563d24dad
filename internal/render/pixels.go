package render

import (
	"image/color"
	"math"
)

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := min(int(c), last)
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// fillHeatRGBA shades scalar field values from cold blue (0) to hot red
// (limit). Values outside [0, limit] saturate.
func fillHeatRGBA(buf []byte, values []float64, limit float64) {
	if limit <= 0 {
		limit = 1
	}
	for i, v := range values {
		f := math.Max(0, math.Min(1, v/limit))
		base := i * 4
		buf[base+0] = uint8(255 * f)
		buf[base+1] = uint8(64 * (1 - math.Abs(2*f-1)))
		buf[base+2] = uint8(255 * (1 - f))
		buf[base+3] = 255
	}
}
