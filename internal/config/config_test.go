package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setanarut/vectorpack"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, vectorpack.DefaultOptions(), cfg.VectorOptions())
	assert.Equal(t, 0, cfg.Batch.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "vectorpack.yaml", `
canvas:
  width: 800
  height: 600
colors: 3
batch:
  workers: 4
  stop_on_error: true
  output_dir: out
log:
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Canvas.Width)
	assert.Equal(t, 600, cfg.Canvas.Height)
	assert.Equal(t, 0.75, cfg.Canvas.Scale, "unset keys keep defaults")
	assert.Equal(t, 3, cfg.Colors)
	assert.Equal(t, BatchConfig{Workers: 4, StopOnError: true, OutputDir: "out"}, cfg.Batch)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "canvas: [1, 2"))
	assert.ErrorIs(t, err, vectorpack.ErrInvalidConfig)

	_, err = Load(writeFile(t, "zero.yaml", "colors: 0\n"))
	assert.ErrorIs(t, err, vectorpack.ErrInvalidConfig)

	_, err = Load(writeFile(t, "fmt.yaml", "log:\n  format: xml\n"))
	assert.ErrorIs(t, err, vectorpack.ErrInvalidConfig)
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "c.yaml", "colors: 3\n")
	t.Setenv("VECTORPACK_COLORS", "7")
	t.Setenv("VECTORPACK_CANVAS_WIDTH", " 640 ")
	t.Setenv("VECTORPACK_SCALE", "0.5")
	t.Setenv("VECTORPACK_WORKERS", "2")
	t.Setenv("VECTORPACK_STOP_ON_ERROR", "true")
	t.Setenv("VECTORPACK_OUTPUT_DIR", "/tmp/out")
	t.Setenv("VECTORPACK_LOG_LEVEL", "debug")
	t.Setenv("VECTORPACK_LOG_FORMAT", "JSON")
	t.Setenv("VECTORPACK_CANVAS_HEIGHT", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Colors)
	assert.Equal(t, 640, cfg.Canvas.Width)
	assert.Equal(t, 1080, cfg.Canvas.Height, "empty value is ignored")
	assert.Equal(t, 0.5, cfg.Canvas.Scale)
	assert.Equal(t, BatchConfig{Workers: 2, StopOnError: true, OutputDir: "/tmp/out"}, cfg.Batch)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
}

func TestEnvOverrideInvalid(t *testing.T) {
	for _, kv := range [][2]string{
		{"VECTORPACK_COLORS", "many"},
		{"VECTORPACK_SCALE", "big"},
		{"VECTORPACK_STOP_ON_ERROR", "maybe"},
		{"VECTORPACK_WORKERS", "-3"},
		{"VECTORPACK_SCALE", "1.5"},
	} {
		t.Run(kv[0]+"="+kv[1], func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load("")
			assert.ErrorIs(t, err, vectorpack.ErrInvalidConfig)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(""))
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	// register cleanup, then unset so the file can provide the value
	t.Setenv("VECTORPACK_COLORS", "")
	require.NoError(t, os.Unsetenv("VECTORPACK_COLORS"))
	t.Setenv("VECTORPACK_CANVAS_WIDTH", "320")

	path := writeFile(t, ".env", "VECTORPACK_COLORS=9\nVECTORPACK_CANVAS_WIDTH=100\n")
	require.NoError(t, LoadDotEnv(path))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Colors)
	assert.Equal(t, 320, cfg.Canvas.Width, "process env wins over .env")
}
