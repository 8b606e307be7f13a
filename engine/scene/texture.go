package scene

import (
	"sync"
	"sync/atomic"
)

// ColorSpace names how a texture's stored values relate to linear light.
// The string values are what the parameter panel shows and sets.
type ColorSpace string

const (
	ColorSpaceSRGB   ColorSpace = "srgb"
	ColorSpaceLinear ColorSpace = "srgb-linear"
)

// Mapping selects how a texture is addressed when sampled.
type Mapping int

const (
	// MappingUV samples by the geometry's texture coordinates.
	MappingUV Mapping = iota
	// MappingEquirectangularReflection samples a latitude/longitude panorama by direction.
	MappingEquirectangularReflection
)

// TextureState reports the progress of an asynchronous load.
type TextureState int32

const (
	TexturePending TextureState = iota
	TextureLoaded
	TextureFailed
)

func (s TextureState) String() string {
	switch s {
	case TexturePending:
		return "pending"
	case TextureLoaded:
		return "loaded"
	case TextureFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Texture is a CPU-side image that renderers upload on demand. It starts Pending and is
// filled in by a loader; materials referencing a pending or failed texture render with
// their defaults. Every change to pixels or sampling settings bumps Version so renderers
// know to re-upload.
type Texture struct {
	Name       string
	Path       string
	ColorSpace ColorSpace
	Mapping    Mapping

	mu     sync.RWMutex
	width  int
	height int
	pixels []byte
	hdr    []float32
	err    error

	state   atomic.Int32
	version atomic.Uint64
}

// NewTexture creates a pending texture with linear color space and UV mapping.
//
// Parameters:
//   - name: a human-readable label, usually the file name
//
// Returns:
//   - *Texture: the new texture
func NewTexture(name string) *Texture {
	return &Texture{Name: name, ColorSpace: ColorSpaceLinear}
}

// SetImage stores RGBA8 pixel data and marks the texture loaded.
//
// Parameters:
//   - width, height: image dimensions in pixels
//   - pixels: tightly packed RGBA8 rows, len == width*height*4
func (t *Texture) SetImage(width, height int, pixels []byte) {
	t.mu.Lock()
	t.width, t.height, t.pixels, t.hdr, t.err = width, height, pixels, nil, nil
	t.mu.Unlock()
	t.state.Store(int32(TextureLoaded))
	t.version.Add(1)
}

// SetHDR stores a tone-mapped RGBA8 preview alongside the linear float data it came from.
//
// Parameters:
//   - width, height: image dimensions in pixels
//   - pixels: tone-mapped RGBA8 rows used for upload
//   - hdr: linear RGB float triples, len == width*height*3
func (t *Texture) SetHDR(width, height int, pixels []byte, hdr []float32) {
	t.mu.Lock()
	t.width, t.height, t.pixels, t.hdr, t.err = width, height, pixels, hdr, nil
	t.mu.Unlock()
	t.state.Store(int32(TextureLoaded))
	t.version.Add(1)
}

// Fail marks the texture failed. Previously loaded pixels are kept so a failed
// reload does not blank a texture that was already on screen.
//
// Parameters:
//   - err: the load error
func (t *Texture) Fail(err error) {
	t.mu.Lock()
	t.err = err
	loaded := t.pixels != nil
	t.mu.Unlock()
	if !loaded {
		t.state.Store(int32(TextureFailed))
	}
}

// NeedsUpdate flags the texture for re-upload after its settings changed.
func (t *Texture) NeedsUpdate() {
	t.version.Add(1)
}

// State returns the current load state.
func (t *Texture) State() TextureState {
	return TextureState(t.state.Load())
}

// Ready reports whether the texture has pixel data to upload.
func (t *Texture) Ready() bool {
	return t != nil && t.State() == TextureLoaded
}

// Version returns a counter that changes whenever the texture must be re-uploaded.
func (t *Texture) Version() uint64 {
	return t.version.Load()
}

// Err returns the most recent load error, if any.
func (t *Texture) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// Size returns the image dimensions in pixels.
func (t *Texture) Size() (int, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.width, t.height
}

// Pixels returns the RGBA8 data. The slice must not be modified.
func (t *Texture) Pixels() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pixels
}

// HDR returns the linear float data for HDR textures, or nil.
func (t *Texture) HDR() []float32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hdr
}
