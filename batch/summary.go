package batch

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/setanarut/vectorpack"
)

// Summary aggregates a report. Duration and element statistics cover
// succeeded files only.
type Summary struct {
	Total, Succeeded, Failed, Canceled int

	MeanDuration, StdDuration time.Duration
	MeanElements, StdElements float64
}

func (r *Report) Summary() Summary {
	s := Summary{Total: len(r.Results)}
	var durs, elems []float64
	for _, res := range r.Results {
		switch {
		case res.OK():
			s.Succeeded++
			durs = append(durs, res.Duration.Seconds())
			elems = append(elems, float64(res.Elements))
		case vectorpack.ClassifyError(res.Err) == vectorpack.CodeCancel:
			s.Canceled++
		default:
			s.Failed++
		}
	}
	meanD, stdD := meanStdDev(durs)
	s.MeanDuration = time.Duration(meanD * float64(time.Second))
	s.StdDuration = time.Duration(stdD * float64(time.Second))
	s.MeanElements, s.StdElements = meanStdDev(elems)
	return s
}

// meanStdDev is stat.MeanStdDev with a zero deviation below two samples.
func meanStdDev(xs []float64) (mean, std float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}
