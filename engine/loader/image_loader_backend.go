package loader

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// imageLoaderBackend decodes LDR images through the registered image codecs.
type imageLoaderBackend struct {
	// maxSize caps the longest edge; larger images are scaled down. Zero disables scaling.
	maxSize int
}

var _ loaderBackend = &imageLoaderBackend{}

func (b *imageLoaderBackend) Decode(r io.ReadSeeker) (*decodedTexture, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if err := checkDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	rgba := toRGBA(img, b.maxSize)
	if rgba.Rect.Dx() == 0 || rgba.Rect.Dy() == 0 {
		return nil, fmt.Errorf("%s image has no pixels", format)
	}
	return &decodedTexture{
		width:  rgba.Rect.Dx(),
		height: rgba.Rect.Dy(),
		pixels: rgba.Pix,
	}, nil
}

// ColorSpace is linear: the caller decides which images hold sRGB color.
func (b *imageLoaderBackend) ColorSpace() scene.ColorSpace {
	return scene.ColorSpaceLinear
}

// toRGBA converts img to tightly packed RGBA, scaling it to fit maxSize when maxSize > 0.
//
// Parameters:
//   - img: the decoded image in any color model
//   - maxSize: the longest allowed edge, or 0 for no limit
//
// Returns:
//   - *image.RGBA: a zero-origin RGBA copy
func toRGBA(img image.Image, maxSize int) *image.RGBA {
	bounds := img.Bounds()
	w, h := fitWithin(bounds.Dx(), bounds.Dy(), maxSize)

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(rgba, rgba.Rect, img, bounds.Min, draw.Src)
		return rgba
	}
	draw.CatmullRom.Scale(rgba, rgba.Rect, img, bounds, draw.Src, nil)
	return rgba
}

// fitWithin scales (w, h) down uniformly so neither edge exceeds maxSize, keeping at least one pixel.
func fitWithin(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		return maxSize, max(1, h*maxSize/w)
	}
	return max(1, w*maxSize/h), maxSize
}
