package vectorpack

const GradientID = "bgGradient"

type Stop struct {
	Offset uint8 // percent, 0..100
	Color  RGB
}

// Gradient is a horizontal linear gradient over the dominant colors. The
// zero value is a solid white fill.
type Gradient struct {
	ID    string
	Stops []Stop
}

// NewGradient places one stop per color, in list order, at
// floor(i*100/(n-1)) percent. A single color gets one stop at 0%.
func NewGradient(colors []RGB) Gradient {
	if len(colors) == 0 {
		return Gradient{}
	}
	n := len(colors)
	stops := make([]Stop, n)
	for i, c := range colors {
		var off int
		if n > 1 {
			off = i * 100 / (n - 1)
		}
		stops[i] = Stop{Offset: uint8(off), Color: c}
	}
	return Gradient{ID: GradientID, Stops: stops}
}

func (g Gradient) Solid() bool { return len(g.Stops) == 0 }

// Fill is the paint used by the background rect.
func (g Gradient) Fill() string {
	if g.Solid() {
		return "white"
	}
	return "url(#" + g.ID + ")"
}
