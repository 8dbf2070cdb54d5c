package vectorpack

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
)

// VectorBuilder runs the vectorization pipeline for one image.
type VectorBuilder struct {
	InputImage image.Image
	Options    Options
	Canvas     *Canvas
	Palette    []RGB // dominant colors, most frequent first
	Gradient   Gradient
	Groups     *PixelGroups
}

func NewVectorBuilder(input image.Image, opt Options) *VectorBuilder {
	return &VectorBuilder{
		InputImage: input,
		Options:    opt,
	}
}

// Build composites the input, ranks its colors, synthesizes the gradient and
// groups every canvas pixel by band. Each stage consumes the previous one's
// full output.
func (vb *VectorBuilder) Build() error {
	c, err := Composite(vb.InputImage, vb.Options)
	if err != nil {
		return err
	}
	vb.Canvas = c
	vb.Palette = DominantColors(c, vb.Options.Colors)
	vb.Gradient = NewGradient(vb.Palette)
	vb.Groups = GroupPixels(c)
	return nil
}

func (vb *VectorBuilder) WriteSVG(w io.Writer) (int, error) {
	if vb.Groups == nil {
		return 0, fmt.Errorf("%w: WriteSVG before Build", ErrInternal)
	}
	return WriteSVG(w, vb.Gradient, vb.Groups)
}

// SaveSVG writes the document to path, removing the file on failure.
func (vb *VectorBuilder) SaveSVG(path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}
	n, err := vb.WriteSVG(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: %w", ErrIO, cerr)
	}
	if err != nil {
		os.Remove(path)
		return 0, err
	}
	return n, nil
}

// BandMasks returns one mask per band in Bands order; member pixels are 255.
func (vb *VectorBuilder) BandMasks() []*image.Gray {
	if vb.Groups == nil {
		return nil
	}
	w, h := vb.Groups.W, vb.Groups.H
	out := make([]*image.Gray, len(Bands))
	for i, b := range Bands {
		mask := image.NewGray(image.Rect(0, 0, w, h))
		for _, r := range vb.Groups.Runs[b] {
			for x := r.X; x < r.X+r.Len; x++ {
				mask.SetGray(x, r.Y, color.Gray{Y: 255})
			}
		}
		out[i] = mask
	}
	return out
}

// ConvertFile decodes rasterPath, builds it with opt and writes svgPath.
// It returns the builder so callers can inspect intermediate results.
func ConvertFile(rasterPath, svgPath string, opt Options) (*VectorBuilder, int, error) {
	img, err := DecodeFile(rasterPath)
	if err != nil {
		return nil, 0, err
	}
	vb := NewVectorBuilder(img, opt)
	if err := vb.Build(); err != nil {
		return nil, 0, err
	}
	n, err := vb.SaveSVG(svgPath)
	if err != nil {
		return nil, 0, err
	}
	return vb, n, nil
}
