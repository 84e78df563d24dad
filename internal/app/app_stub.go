//go:build !ebiten

package app

import (
	"errors"

	"protocell/internal/sims/protocell"
)

// ErrNoGUI is returned when the binary was built without the ebiten tag.
var ErrNoGUI = errors.New("viewer requires building with the 'ebiten' tag")

// Run reports that the GUI build tag is missing.
func Run(*protocell.Simulation, Options) error {
	return ErrNoGUI
}
