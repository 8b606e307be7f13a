package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

// ErrFormat is returned when a file's extension or contents is not a supported texture format.
var ErrFormat = errors.New("unsupported texture format")

const (
	// maxDecodeEdge bounds either edge of a source image, whatever the scaling options.
	maxDecodeEdge = 16384
	// maxDecodePixels bounds the source pixel count; an 8k equirect panorama fits.
	maxDecodePixels = 1 << 26
)

// checkDimensions rejects image headers whose size would not fit the decode limits.
func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > maxDecodeEdge || height > maxDecodeEdge || width*height > maxDecodePixels {
		return fmt.Errorf("%w: image size %dx%d outside limits", ErrFormat, width, height)
	}
	return nil
}

// decodedTexture is the CPU-side result of a decode, applied to a scene.Texture on the render thread.
type decodedTexture struct {
	width  int
	height int
	pixels []byte
	// hdr holds linear RGB triples for high dynamic range sources, nil otherwise.
	hdr []float32
}

// apply stores the decoded data on t.
func (d *decodedTexture) apply(t *scene.Texture) {
	if d.hdr != nil {
		t.SetHDR(d.width, d.height, d.pixels, d.hdr)
		return
	}
	t.SetImage(d.width, d.height, d.pixels)
}

// loaderBackend decodes one family of file formats into RGBA8 pixels.
// Concrete implementations (imageLoaderBackend, hdrLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Decode reads a complete file from r. Implementations read the header first and reject
	// dimensions outside checkDimensions before allocating pixel storage.
	//
	// Parameters:
	//   - r: the file data, rewound between the header check and the full decode
	//
	// Returns:
	//   - *decodedTexture: the decoded pixels
	//   - error: error if decoding fails
	Decode(r io.ReadSeeker) (*decodedTexture, error)

	// ColorSpace reports the color space of the decoded pixels.
	ColorSpace() scene.ColorSpace
}

// resolveBackend picks a backend by file extension.
func (l *TextureLoader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return l.images, nil
	case ".hdr", ".pic":
		return l.hdr, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, ext)
	}
}
