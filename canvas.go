package vectorpack

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// RGB is a single 8-bit color sample.
type RGB struct {
	R, G, B uint8
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Canvas is a fixed-size opaque RGB8 raster.
type Canvas struct {
	W, H int
	Pix  []uint8 // Interleaved RGB, len = W*H*3
}

func pixOffset(w, x, y int) int {
	return (y*w + x) * 3
}

// NewCanvas returns a white w×h canvas.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{W: w, H: h, Pix: make([]uint8, w*h*3)}
	for i := range c.Pix {
		c.Pix[i] = 255
	}
	return c
}

func (c *Canvas) RGBAt(x, y int) RGB {
	off := pixOffset(c.W, x, y)
	return RGB{c.Pix[off], c.Pix[off+1], c.Pix[off+2]}
}

func (c *Canvas) SetRGB(x, y int, v RGB) {
	off := pixOffset(c.W, x, y)
	c.Pix[off], c.Pix[off+1], c.Pix[off+2] = v.R, v.G, v.B
}

func (c *Canvas) ColorModel() color.Model { return color.RGBAModel }

func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.W, c.H) }

func (c *Canvas) At(x, y int) color.Color {
	if !(image.Point{x, y}).In(c.Bounds()) {
		return color.RGBA{}
	}
	v := c.RGBAt(x, y)
	return color.RGBA{v.R, v.G, v.B, 255}
}

// Composite resizes src to Scale of the canvas size and centers it on a
// white canvas of exactly CanvasWidth×CanvasHeight. The source aspect ratio
// is not preserved. Alpha is dropped before resizing and the stored color is
// kept, so a transparent white pixel stays white.
func Composite(src image.Image, opt Options) (*Canvas, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if src == nil || src.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty source image", ErrDecode)
	}
	w, h := opt.CanvasWidth, opt.CanvasHeight
	c := NewCanvas(w, h)

	newW := int(float64(w) * opt.Scale)
	newH := int(float64(h) * opt.Scale)
	if newW == 0 || newH == 0 {
		return c, nil
	}
	scaled := image.NewRGBA(image.Rect(0, 0, newW, newH))
	opaque := dropAlpha(src)
	draw.BiLinear.Scale(scaled, scaled.Bounds(), opaque, opaque.Bounds(), draw.Src, nil)

	xOff := (w - newW) / 2
	yOff := (h - newH) / 2
	for y := 0; y < newH; y++ {
		for x := 0; x < newW; x++ {
			i := scaled.PixOffset(x, y)
			off := pixOffset(w, x+xOff, y+yOff)
			copy(c.Pix[off:off+3], scaled.Pix[i:i+3])
		}
	}
	return c, nil
}

// dropAlpha copies src into an opaque RGBA image holding the straight
// (non-premultiplied) color of every pixel. Premultiplied sources have no
// color left under zero alpha and come out black there.
func dropAlpha(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			var r, g, bl uint8
			switch c := src.At(b.Min.X+x, b.Min.Y+y).(type) {
			case color.NRGBA:
				r, g, bl = c.R, c.G, c.B
			case color.NRGBA64:
				r, g, bl = uint8(c.R>>8), uint8(c.G>>8), uint8(c.B>>8)
			default:
				rr, gg, bb, _ := c.RGBA()
				r, g, bl = uint8(rr>>8), uint8(gg>>8), uint8(bb>>8)
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = r, g, bl, 255
		}
	}
	return dst
}

// DecodeFile reads a png, jpeg, gif, bmp or tiff raster.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return img, nil
}
