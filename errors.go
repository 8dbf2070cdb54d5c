package vectorpack

import (
	"context"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrDecode: the source raster cannot be read or is corrupt.
	ErrDecode = errors.New("decode error")
	// ErrInvalidConfig: non-positive canvas size, bad scale or color count < 1.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrIO: missing input file or an output that cannot be written.
	ErrIO = errors.New("io error")
	// ErrInternal: a pipeline consistency check failed. Always a bug.
	ErrInternal = errors.New("internal error")
	// ErrOutputCollision: two inputs derive the same output paths.
	ErrOutputCollision = fmt.Errorf("output path collision: %w", ErrIO)
)

// Code is a coarse error category used in logs and batch reports.
type Code string

const (
	CodeUnknown  Code = "unknown"
	CodeDecode   Code = "decode"
	CodeConfig   Code = "config"
	CodeIO       Code = "io"
	CodeInternal Code = "internal"
	CodeCancel   Code = "cancel"
)

// ClassifyError maps err onto a Code. Only sentinels and standard error
// types are inspected, never message text.
func ClassifyError(err error) Code {
	switch {
	case err == nil:
		return CodeUnknown
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCancel
	case errors.Is(err, ErrInternal):
		return CodeInternal
	case errors.Is(err, ErrInvalidConfig):
		return CodeConfig
	case errors.Is(err, ErrDecode):
		return CodeDecode
	case errors.Is(err, ErrIO):
		return CodeIO
	}
	var perr *os.PathError
	if errors.As(err, &perr) {
		return CodeIO
	}
	return CodeUnknown
}
