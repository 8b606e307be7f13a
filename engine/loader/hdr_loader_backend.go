package loader

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/mdouchement/hdr/tmo"
)

// hdrLoaderBackend decodes Radiance RGBE (.hdr) images. The linear float data is kept and a
// Reinhard tone-mapped RGBA8 copy is produced for upload.
type hdrLoaderBackend struct {
	exposure float64
	// maxSize caps the longest edge; larger images are box-filtered down. Zero disables scaling.
	maxSize int
}

var _ loaderBackend = &hdrLoaderBackend{}

func (b *hdrLoaderBackend) Decode(r io.ReadSeeker) (*decodedTexture, error) {
	cfg, err := rgbe.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if err := checkDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	img, err := rgbe.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hdr: %w", err)
	}
	src, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a high dynamic range image", ErrFormat, img)
	}

	linear := resampleHDR(src, b.maxSize)
	tm := tmo.NewReinhard05(linear, exposureBrightness(b.exposure), 0, 1)
	return &decodedTexture{
		width:  linear.w,
		height: linear.h,
		pixels: toRGBA(tm.Perform(), 0).Pix,
		hdr:    linear.data,
	}, nil
}

// ColorSpace is sRGB because the tone-mapped output is display referred.
func (b *hdrLoaderBackend) ColorSpace() scene.ColorSpace {
	return scene.ColorSpaceSRGB
}

// exposureBrightness maps a linear exposure multiplier onto the Reinhard05 brightness
// parameter, whose intensity term is exp(-brightness).
func exposureBrightness(exposure float64) float64 {
	if exposure <= 0 {
		return 0
	}
	return math.Log(exposure)
}

// floatImage is a zero-origin hdr.Image backed by packed linear RGB triples.
type floatImage struct {
	hdr.Image
	w, h int
	data []float32
}

func (f *floatImage) Bounds() image.Rectangle { return image.Rect(0, 0, f.w, f.h) }

func (f *floatImage) At(x, y int) color.Color { return f.HDRAt(x, y) }

func (f *floatImage) HDRAt(x, y int) hdrcolor.Color {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return hdrcolor.RGB{}
	}
	i := (y*f.w + x) * 3
	return hdrcolor.RGB{R: float64(f.data[i]), G: float64(f.data[i+1]), B: float64(f.data[i+2])}
}

func (f *floatImage) Size() int { return f.w * f.h }

// resampleHDR copies src into packed float data, averaging source blocks when the image has to
// shrink to fit maxSize.
//
// Parameters:
//   - src: the decoded image
//   - maxSize: the longest allowed edge, or 0 for no limit
//
// Returns:
//   - *floatImage: the zero-origin copy
func resampleHDR(src hdr.Image, maxSize int) *floatImage {
	bounds := src.Bounds()
	sw, sh := bounds.Dx(), bounds.Dy()
	w, h := fitWithin(sw, sh, maxSize)

	out := &floatImage{Image: src, w: w, h: h, data: make([]float32, 0, w*h*3)}
	for ty := 0; ty < h; ty++ {
		y0 := ty * sh / h
		y1 := max(y0+1, (ty+1)*sh/h)
		for tx := 0; tx < w; tx++ {
			x0 := tx * sw / w
			x1 := max(x0+1, (tx+1)*sw/w)

			var r, g, b float64
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					pr, pg, pb, _ := src.HDRAt(bounds.Min.X+x, bounds.Min.Y+y).HDRRGBA()
					r, g, b = r+pr, g+pg, b+pb
				}
			}
			n := float64((y1 - y0) * (x1 - x0))
			out.data = append(out.data, float32(r/n), float32(g/n), float32(b/n))
		}
	}
	return out
}
