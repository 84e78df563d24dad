package protocell

import "image/color"

const (
	displayMoleculeLevels = 16
	displayLineageBase    = displayMoleculeLevels
	displayLineageColors  = 16
)

var protocellPalette = buildPalette()

// Cells renders the grid into the display buffer: empty tiles shade by
// molecule count, occupied tiles take the color of the top cell's lineage.
func (s *Simulation) Cells() []uint8 {
	buf := s.display.Cells()
	for i, t := range s.world.Tiles() {
		buf[i] = encodeTile(t)
	}
	return buf
}

// Palette exposes the colors indexed by Cells values.
func (s *Simulation) Palette() []color.RGBA {
	return protocellPalette
}

func encodeTile(t *Tile) uint8 {
	for i := len(t.Cells) - 1; i >= 0; i-- {
		if c := t.Cells[i]; c.Alive() {
			return uint8(displayLineageBase + c.lineage%displayLineageColors)
		}
	}
	return uint8(min(len(t.Molecules), displayMoleculeLevels-1))
}

func buildPalette() []color.RGBA {
	palette := make([]color.RGBA, displayLineageBase+displayLineageColors)
	for i := 0; i < displayMoleculeLevels; i++ {
		f := float64(i) / float64(displayMoleculeLevels-1)
		palette[i] = color.RGBA{
			R: uint8(12 + 30*f),
			G: uint8(16 + 70*f),
			B: uint8(28 + 110*f),
			A: 255,
		}
	}
	for i := 0; i < displayLineageColors; i++ {
		palette[displayLineageBase+i] = hueColor(float64(i) / displayLineageColors)
	}
	return palette
}

// hueColor maps h in [0,1) to a saturated color.
func hueColor(h float64) color.RGBA {
	sector := int(h * 6)
	f := h*6 - float64(sector)
	hi := uint8(235)
	lo := uint8(60)
	up := uint8(float64(lo) + f*float64(hi-lo))
	down := uint8(float64(hi) - f*float64(hi-lo))
	switch sector % 6 {
	case 0:
		return color.RGBA{R: hi, G: up, B: lo, A: 255}
	case 1:
		return color.RGBA{R: down, G: hi, B: lo, A: 255}
	case 2:
		return color.RGBA{R: lo, G: hi, B: up, A: 255}
	case 3:
		return color.RGBA{R: lo, G: down, B: hi, A: 255}
	case 4:
		return color.RGBA{R: up, G: lo, B: hi, A: 255}
	default:
		return color.RGBA{R: hi, G: lo, B: down, A: 255}
	}
}
