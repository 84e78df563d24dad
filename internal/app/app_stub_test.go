//go:build !ebiten

package app

import (
	"errors"
	"testing"

	"protocell/internal/sims/protocell"
)

func TestRunWithoutGUI(t *testing.T) {
	cfg := protocell.DefaultConfig()
	cfg.Width, cfg.Height = 4, 4
	if err := Run(protocell.New(cfg), Options{Scale: 2}); !errors.Is(err, ErrNoGUI) {
		t.Fatalf("Run() = %v, want ErrNoGUI", err)
	}
}
