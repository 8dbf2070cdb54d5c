package vectorpack

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

// randomCanvas fills a canvas from a small fixed palette so that colors
// repeat and span several bands.
func randomCanvas(w, h int, seed int64) *Canvas {
	palette := []RGB{{10, 10, 10}, {240, 240, 240}, {255, 0, 0}, {120, 120, 120}, {0, 0, 255}, {60, 60, 60}}
	rng := rand.New(rand.NewSource(seed))
	c := NewCanvas(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c.SetRGB(x, y, palette[rng.Intn(len(palette))])
		}
	}
	return c
}
