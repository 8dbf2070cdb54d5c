package vectorpack

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, CodeUnknown},
		{"plain", errors.New("boom"), CodeUnknown},
		{"decode", fmt.Errorf("photo.png: %w", ErrDecode), CodeDecode},
		{"config", Options{}.Validate(), CodeConfig},
		{"io", fmt.Errorf("%w: disk full", ErrIO), CodeIO},
		{"collision", ErrOutputCollision, CodeIO},
		{"path error", &os.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, CodeIO},
		{"internal", &RunError{Band: Dark, Run: Run{X: 1}, W: 1, H: 1}, CodeInternal},
		{"canceled", fmt.Errorf("wrapped: %w", context.Canceled), CodeCancel},
		{"deadline", context.DeadlineExceeded, CodeCancel},
		{"cancel wins", fmt.Errorf("%w: %w", ErrIO, context.Canceled), CodeCancel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestOutputCollisionIsIO(t *testing.T) {
	assert.ErrorIs(t, ErrOutputCollision, ErrIO)
	assert.NotErrorIs(t, ErrIO, ErrOutputCollision)
}
