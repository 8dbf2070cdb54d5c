package vectorpack

import (
	"bufio"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
)

// WriteSVG writes the vector document: gradient defs, a full-canvas
// background rect, then one group per non-empty band in Dark, Soft, Light,
// Other order with one unit-height rect per run. It returns the number of
// band rects written.
func WriteSVG(w io.Writer, grad Gradient, groups *PixelGroups) (int, error) {
	if groups == nil {
		return 0, fmt.Errorf("%w: nil pixel groups", ErrInternal)
	}
	if err := groups.validate(); err != nil {
		return 0, err
	}
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Start(groups.W, groups.H)

	if !grad.Solid() {
		stops := make([]svg.Offcolor, len(grad.Stops))
		for i, s := range grad.Stops {
			stops[i] = svg.Offcolor{Offset: s.Offset, Color: s.Color.String(), Opacity: 1}
		}
		canvas.Def()
		canvas.LinearGradient(grad.ID, 0, 0, 100, 0, stops)
		canvas.DefEnd()
	}

	canvas.Gid("Background")
	canvas.Rect(0, 0, groups.W, groups.H, fmt.Sprintf(`fill="%s"`, grad.Fill()))
	canvas.Gend()

	n := 0
	for _, b := range Bands {
		runs := groups.Runs[b]
		if len(runs) == 0 {
			continue
		}
		fill := fmt.Sprintf(`fill="%s"`, b)
		canvas.Gid(b.String())
		for _, r := range runs {
			canvas.Rect(r.X, r.Y, r.Len, 1, fill)
		}
		canvas.Gend()
		n += len(runs)
	}
	canvas.End()

	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("%w: write svg: %w", ErrIO, err)
	}
	return n, nil
}
