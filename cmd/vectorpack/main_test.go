package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fcolor "github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setanarut/vectorpack"
)

const smallConfig = "canvas:\n  width: 40\n  height: 30\ncolors: 3\nlog:\n  level: error\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeStripes(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := color.RGBA{255, 0, 0, 255}
			if x >= 4 {
				c = color.RGBA{0, 0, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	fcolor.NoColor = true
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "vectorpack.yaml")
	writeFile(t, cfgPath, smallConfig)
	writeStripes(t, filepath.Join(dir, "a.png"))
	writeFile(t, filepath.Join(dir, "broken.png"), "not an image")

	out, err := run(t, "convert", dir, "-c", cfgPath, "--no-progress")
	require.Error(t, err)
	assert.Equal(t, "1 of 2 files failed", err.Error())
	assert.Equal(t, 1, exitCode(err))

	assert.Contains(t, out, "✓ a.png → a.svg, a.zip")
	assert.Contains(t, out, "✗ broken.png [decode]")
	assert.Contains(t, out, "2 files: 1 ok, 1 failed, 0 canceled")
	assert.FileExists(t, filepath.Join(dir, "a.svg"))
	assert.FileExists(t, filepath.Join(dir, "a.zip"))
}

func TestConvertCommandAllOK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "vectorpack.yaml")
	writeFile(t, cfgPath, smallConfig)
	writeStripes(t, filepath.Join(dir, "a.png"))

	out, err := run(t, "convert", dir, "-c", cfgPath, "--no-progress", "--masks")
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode(err))
	assert.Contains(t, out, "1 files: 1 ok, 0 failed, 0 canceled")
	assert.FileExists(t, filepath.Join(dir, "a_mask_00.png"))
}

func TestInvalidConfigExitCode(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, cfgPath, "colors: 0\n")

	_, err := run(t, "convert", t.TempDir(), "-c", cfgPath, "--no-progress")
	require.Error(t, err)
	assert.ErrorIs(t, err, vectorpack.ErrInvalidConfig)
	assert.Equal(t, 2, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 1, exitCode(vectorpack.ErrDecode))
	assert.Equal(t, 2, exitCode(vectorpack.ErrInvalidConfig))
}

func TestSwatchDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vectorpack.yaml")
	writeFile(t, cfgPath, smallConfig)
	src := filepath.Join(dir, "photo.png")
	writeStripes(t, src)

	out, err := run(t, "swatch", src, "-c", cfgPath)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "photo_palette.png"))

	// white border, then the two stripes
	lines := strings.Fields(out)
	require.Len(t, lines, 3)
	assert.Equal(t, "#ffffff", lines[0])
	assert.ElementsMatch(t, []string{"#ff0000", "#0000ff"}, lines[1:])

	custom := filepath.Join(dir, "custom.png")
	_, err = run(t, "swatch", src, "-c", cfgPath, "-o", custom, "--sort")
	require.NoError(t, err)
	assert.FileExists(t, custom)

	_, err = run(t, "swatch", src, "-c", cfgPath, "-m", "median")
	assert.Error(t, err)
}
