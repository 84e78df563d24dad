//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads a cell buffer into a texture and scales it to the screen.
type GridPainter struct {
	img  *ebiten.Image
	buf  []byte
	w, h int
}

// NewGridPainter allocates a painter for a w×h grid.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{
		img: ebiten.NewImage(w, h),
		buf: make([]byte, w*h*4),
		w:   w,
		h:   h,
	}
}

// BlitPalette draws palette-indexed cells.
func (p *GridPainter) BlitPalette(dst *ebiten.Image, cells []uint8, palette []color.RGBA, scale int) {
	fillPaletteRGBA(p.buf, cells, palette)
	p.draw(dst, scale)
}

// BlitHeat draws a scalar field on a blue to red ramp.
func (p *GridPainter) BlitHeat(dst *ebiten.Image, values []float64, limit float64, scale int) {
	fillHeatRGBA(p.buf, values, limit)
	p.draw(dst, scale)
}

func (p *GridPainter) draw(dst *ebiten.Image, scale int) {
	p.img.WritePixels(p.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}
