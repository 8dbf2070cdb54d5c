package vectorpack

import (
	"fmt"
	"image"
)

// Run is a horizontal span of Len same-band pixels starting at (X,Y).
type Run struct {
	X, Y, Len int
}

// PixelGroups partitions a W×H canvas into bands. Each band holds its
// pixels as row-major runs; consecutive same-band pixels on a scanline are
// always merged into one run.
type PixelGroups struct {
	W, H int
	Runs [len(Bands)][]Run
}

// GroupPixels classifies every canvas pixel and merges scanline runs.
func GroupPixels(c *Canvas) *PixelGroups {
	g := &PixelGroups{W: c.W, H: c.H}
	if c.W == 0 || c.H == 0 {
		return g
	}
	// Neighbouring pixels usually share a color; skip the table for repeats.
	last := c.RGBAt(0, 0)
	lastBand := Classify(last).Band
	bandAt := func(x, y int) Band {
		if v := c.RGBAt(x, y); v != last {
			last, lastBand = v, Classify(v).Band
		}
		return lastBand
	}
	for y := 0; y < c.H; y++ {
		start := 0
		cur := bandAt(0, y)
		for x := 1; x < c.W; x++ {
			b := bandAt(x, y)
			if b == cur {
				continue
			}
			g.Runs[cur] = append(g.Runs[cur], Run{X: start, Y: y, Len: x - start})
			start, cur = x, b
		}
		g.Runs[cur] = append(g.Runs[cur], Run{X: start, Y: y, Len: c.W - start})
	}
	return g
}

// Count is the number of pixels assigned to b.
func (g *PixelGroups) Count(b Band) int {
	n := 0
	for _, r := range g.Runs[b] {
		n += r.Len
	}
	return n
}

// Points expands the runs of b into row-major coordinates.
func (g *PixelGroups) Points(b Band) []image.Point {
	pts := make([]image.Point, 0, g.Count(b))
	for _, r := range g.Runs[b] {
		for x := r.X; x < r.X+r.Len; x++ {
			pts = append(pts, image.Point{x, r.Y})
		}
	}
	return pts
}

// Elements is the number of rects the groups produce in a document.
func (g *PixelGroups) Elements() int {
	n := 0
	for _, runs := range g.Runs {
		n += len(runs)
	}
	return n
}

func (g *PixelGroups) validate() error {
	for _, b := range Bands {
		for _, r := range g.Runs[b] {
			if r.Len <= 0 || r.X < 0 || r.Y < 0 || r.Y >= g.H || r.X+r.Len > g.W {
				return &RunError{Band: b, Run: r, W: g.W, H: g.H}
			}
		}
	}
	return nil
}

// RunError reports a run that falls outside its canvas.
type RunError struct {
	Band Band
	Run  Run
	W, H int
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s run at (%d,%d) len %d outside %dx%d canvas",
		e.Band, e.Run.X, e.Run.Y, e.Run.Len, e.W, e.H)
}

func (e *RunError) Unwrap() error { return ErrInternal }
