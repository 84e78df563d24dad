package app

// Options configures the viewer window.
type Options struct {
	Scale int
	TPS   int
	Seed  int64
}
