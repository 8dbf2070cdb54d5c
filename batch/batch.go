// Package batch converts every raster in a folder into an svg document and
// a zip bundle, reporting each file's outcome without stopping at failures.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/setanarut/vectorpack"
	"github.com/setanarut/vectorpack/utils"
)

// DefaultExtensions are the raster extensions picked up by Discover.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".tif", ".tiff"}

type Options struct {
	Vector vectorpack.Options
	// Maximum files processed at once; 0 means runtime.NumCPU().
	Workers int
	// Stop starting new files after the first failure.
	StopOnError bool
	// Directory for outputs; empty writes beside each input.
	OutputDir string
	// Lowercase extensions with dot; nil means DefaultExtensions.
	Extensions []string
	// Also write one PNG mask per band next to the svg.
	Masks bool
	// Logger for per-file events; nil disables logging.
	Logger *zerolog.Logger
	// Progress is called once per input after it settles. Calls are
	// serialized.
	Progress func(Result)
}

// Result is the outcome for one input file.
type Result struct {
	Input    string
	SVG      string
	Archive  string
	Elements int // band rects in the svg
	Duration time.Duration
	Err      error
	Code     vectorpack.Code
}

func (r Result) OK() bool { return r.Err == nil }

// Report holds one Result per discovered input, in discovery order.
type Report struct {
	RunID   string
	Results []Result
}

// Failed returns the results that carry an error, canceled ones included.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Discover lists the files in dir whose extension is in exts, sorted by
// name. Subdirectories are not descended into.
func Discover(dir string, exts []string) ([]string, error) {
	if exts == nil {
		exts = DefaultExtensions
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vectorpack.ErrIO, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(e.Name()))) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// OutputPaths derives name.svg and name.zip for input name.ext.
func OutputPaths(input, outDir string) (svgPath, zipPath string) {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	if outDir != "" {
		stem = filepath.Join(outDir, filepath.Base(stem))
	}
	return stem + ".svg", stem + ".zip"
}

// Run processes every raster in dir. Invalid options are returned before
// any file is touched; per-file failures are recorded in the report only.
// Canceling ctx lets in-flight files finish and marks the rest canceled.
func Run(ctx context.Context, dir string, opt Options) (*Report, error) {
	if err := opt.Vector.Validate(); err != nil {
		return nil, err
	}
	if opt.Workers < 0 {
		return nil, fmt.Errorf("%w: workers %d must not be negative", vectorpack.ErrInvalidConfig, opt.Workers)
	}
	workers := opt.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	inputs, err := Discover(dir, opt.Extensions)
	if err != nil {
		return nil, err
	}
	if opt.OutputDir != "" {
		if err := os.MkdirAll(opt.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %w", vectorpack.ErrIO, err)
		}
	}

	report := &Report{RunID: uuid.NewString(), Results: make([]Result, len(inputs))}
	logger := zerolog.Nop()
	if opt.Logger != nil {
		logger = *opt.Logger
	}
	logger = logger.With().Str("run_id", report.RunID).Logger()
	logger.Info().Str("dir", dir).Int("files", len(inputs)).Int("workers", workers).Msg("batch start")

	claimed := make(map[string]string, len(inputs))
	for i, in := range inputs {
		svgPath, zipPath := OutputPaths(in, opt.OutputDir)
		res := Result{Input: in, SVG: svgPath, Archive: zipPath}
		if prev, ok := claimed[svgPath]; ok {
			res.Err = fmt.Errorf("%w: %s already writes %s", vectorpack.ErrOutputCollision, filepath.Base(prev), filepath.Base(svgPath))
		} else {
			claimed[svgPath] = in
		}
		report.Results[i] = res
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	settle := func(i int) {
		mu.Lock()
		defer mu.Unlock()
		res := &report.Results[i]
		if res.Err != nil {
			res.Code = vectorpack.ClassifyError(res.Err)
			logger.Error().Err(res.Err).Str("file", res.Input).Str("code", string(res.Code)).
				Dur("dur", res.Duration).Msg("file failed")
			if opt.StopOnError {
				cancel()
			}
		} else {
			logger.Info().Str("file", res.Input).Int("elements", res.Elements).
				Dur("dur", res.Duration).Msg("file done")
		}
		if opt.Progress != nil {
			opt.Progress(*res)
		}
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range report.Results {
		if report.Results[i].Err != nil {
			settle(i)
			continue
		}
		if err := acquire(ctx, sem); err != nil {
			report.Results[i].Err = err
			settle(i)
			continue
		}
		wg.Add(1)
		i := i
		go func(res *Result) {
			defer wg.Done()
			defer func() { <-sem }()
			processFile(res, opt, logger)
			settle(i)
		}(&report.Results[i])
	}
	wg.Wait()

	s := report.Summary()
	logger.Info().Int("succeeded", s.Succeeded).Int("failed", s.Failed).
		Int("canceled", s.Canceled).Msg("batch finish")
	return report, nil
}

func acquire(ctx context.Context, sem chan struct{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case sem <- struct{}{}:
		if err := ctx.Err(); err != nil {
			<-sem
			return err
		}
		return nil
	}
}

// processFile converts and packages one input. A panic anywhere in
// the pipeline is reported as an internal error for this file only.
func processFile(res *Result, opt Options, logger zerolog.Logger) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("%w: panic: %v", vectorpack.ErrInternal, r)
		}
		res.Duration = time.Since(start)
	}()
	logger.Debug().Str("file", res.Input).Msg("file start")

	vb, n, err := vectorpack.ConvertFile(res.Input, res.SVG, opt.Vector)
	if err != nil {
		res.Err = err
		return
	}
	res.Elements = n
	if opt.Masks {
		prefix := strings.TrimSuffix(res.SVG, filepath.Ext(res.SVG)) + "_mask"
		if err := utils.SaveGrayImages(vb.BandMasks(), prefix); err != nil {
			res.Err = fmt.Errorf("%w: %w", vectorpack.ErrIO, err)
			return
		}
	}
	if err := vectorpack.Package(res.Input, res.SVG, res.Archive); err != nil {
		res.Err = err
	}
}
