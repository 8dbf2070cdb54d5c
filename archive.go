package vectorpack

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

const (
	PlaceholderName = "output_image.ai"
	PlaceholderText = "This is a placeholder for the AI file.\nConvert SVG to AI using Illustrator."
)

// Package writes zipPath containing the raster and the svg under their base
// names followed by the placeholder note. A partially written archive is
// removed.
func Package(rasterPath, svgPath, zipPath string) (err error) {
	for _, p := range []string{rasterPath, svgPath} {
		if _, serr := os.Stat(p); serr != nil {
			return fmt.Errorf("%w: %w", ErrIO, serr)
		}
	}
	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: %w", ErrIO, cerr)
		}
		if err != nil {
			os.Remove(zipPath)
		}
	}()

	zw := zip.NewWriter(f)
	for _, p := range []string{rasterPath, svgPath} {
		if err := addFile(zw, p); err != nil {
			return err
		}
	}
	note, err := zw.Create(PlaceholderName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if _, err := io.WriteString(note, PlaceholderText); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

func addFile(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer src.Close()
	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	hdr.Name = filepath.Base(path)
	hdr.Method = zip.Deflate
	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrIO, path, err)
	}
	return nil
}
