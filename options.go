package vectorpack

import "fmt"

type Options struct {
	// Canvas size in pixels. Every input is composited onto a canvas of
	// exactly this size regardless of its aspect ratio.
	CanvasWidth  int
	CanvasHeight int
	// Fraction of the canvas the resized source covers, in (0,1].
	Scale float64
	// Number of dominant colors used for the background gradient.
	Colors int
}

func DefaultOptions() Options {
	return Options{
		CanvasWidth:  1920,
		CanvasHeight: 1080,
		Scale:        0.75,
		Colors:       5,
	}
}

// Validate reports an ErrInvalidConfig-wrapped error for unusable options.
func (o Options) Validate() error {
	if o.CanvasWidth <= 0 || o.CanvasHeight <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d must be positive", ErrInvalidConfig, o.CanvasWidth, o.CanvasHeight)
	}
	if !(o.Scale > 0 && o.Scale <= 1) {
		return fmt.Errorf("%w: scale %v must be in (0,1]", ErrInvalidConfig, o.Scale)
	}
	if o.Colors < 1 {
		return fmt.Errorf("%w: colors %d must be at least 1", ErrInvalidConfig, o.Colors)
	}
	return nil
}
