package loader

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
	"github.com/fsnotify/fsnotify"
)

// TextureLoader decodes texture files on a worker pool and hands the results back to the
// render thread. Load returns a pending *scene.Texture immediately; the decoded pixels, and
// the caller's callbacks, are applied by the next Poll after the decode finishes. Materials
// referencing a texture render with their defaults until then.
type TextureLoader struct {
	mu sync.Mutex

	baseDir string
	workers int
	verbose bool

	images *imageLoaderBackend
	hdr    *hdrLoaderBackend

	pool     worker.DynamicWorkerPool
	taskID   atomic.Int64
	inFlight sync.WaitGroup
	pending  atomic.Int64

	completions []completion

	watcher *fsnotify.Watcher
	watched map[string][]watchedTexture // absolute path -> textures loaded from it
	dirs    map[string]bool
	closed  bool
}

// completion is a finished decode waiting for Poll.
type completion struct {
	tex     *scene.Texture
	decoded *decodedTexture
	err     error
	onLoad  func(*scene.Texture)
	onError func(error)
}

// NewTextureLoader creates a loader with a worker pool sized by WithWorkers (default 4).
//
// Parameters:
//   - options: variadic list of LoaderBuilderOption functions to configure the loader
//
// Returns:
//   - *TextureLoader: the configured loader
func NewTextureLoader(options ...LoaderBuilderOption) *TextureLoader {
	l := &TextureLoader{
		workers: 4,
		images:  &imageLoaderBackend{},
		hdr:     &hdrLoaderBackend{exposure: 1},
		watched: make(map[string][]watchedTexture),
		dirs:    make(map[string]bool),
	}
	for _, option := range options {
		option(l)
	}

	// Queue size of 256 comfortably covers a demo's worth of textures plus hot reloads.
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

// Load starts decoding an image file (PNG, JPEG, BMP, TIFF, WebP, or Radiance HDR by extension)
// and returns its texture in the pending state. Unsupported extensions fail the texture with
// ErrFormat; the failure is still reported through onError on the next Poll.
//
// Parameters:
//   - path: the file to load, relative paths resolve against the base directory
//   - onLoad: called on the render thread once the pixels are applied, may be nil
//   - onError: called on the render thread if loading fails, may be nil
//
// Returns:
//   - *scene.Texture: the pending texture
func (l *TextureLoader) Load(path string, onLoad func(*scene.Texture), onError func(error)) *scene.Texture {
	resolved := l.resolve(path)
	tex := scene.NewTexture(filepath.Base(path))
	tex.Path = resolved

	backend, err := l.resolveBackend(resolved)
	if err != nil {
		l.enqueue(completion{tex: tex, err: fmt.Errorf("failed to load %s: %w", path, err), onLoad: onLoad, onError: onError})
		return tex
	}
	tex.ColorSpace = backend.ColorSpace()

	l.track(tex, backend)
	l.submit(tex, backend, onLoad, onError)
	return tex
}

// LoadHDR loads a Radiance RGBE file regardless of extension. The texture keeps the linear
// float data and uploads a tone-mapped sRGB copy.
//
// Parameters:
//   - path: the file to load, relative paths resolve against the base directory
//   - onLoad: called on the render thread once the pixels are applied, may be nil
//   - onError: called on the render thread if loading fails, may be nil
//
// Returns:
//   - *scene.Texture: the pending texture
func (l *TextureLoader) LoadHDR(path string, onLoad func(*scene.Texture), onError func(error)) *scene.Texture {
	resolved := l.resolve(path)
	tex := scene.NewTexture(filepath.Base(path))
	tex.Path = resolved
	tex.ColorSpace = l.hdr.ColorSpace()

	l.track(tex, l.hdr)
	l.submit(tex, l.hdr, onLoad, onError)
	return tex
}

// Poll applies every finished decode to its texture and runs the callbacks. Call it from the
// render thread, once per frame.
//
// Returns:
//   - int: the number of completions delivered
func (l *TextureLoader) Poll() int {
	l.mu.Lock()
	batch := l.completions
	l.completions = nil
	l.mu.Unlock()

	for _, c := range batch {
		if c.err != nil {
			c.tex.Fail(c.err)
			log.Printf("[Loader] %v", c.err)
			if c.onError != nil {
				c.onError(c.err)
			}
			continue
		}
		c.decoded.apply(c.tex)
		if l.verbose {
			w, h := c.tex.Size()
			log.Printf("[Loader] loaded %s (%dx%d)", c.tex.Name, w, h)
		}
		if c.onLoad != nil {
			c.onLoad(c.tex)
		}
	}
	return len(batch)
}

// Pending reports how many decodes are queued or running.
func (l *TextureLoader) Pending() int {
	return int(l.pending.Load())
}

// Wait blocks until every submitted decode has finished. Completions still need a Poll.
func (l *TextureLoader) Wait() {
	l.inFlight.Wait()
}

// Close stops watching for file changes and waits for in-flight decodes.
//
// Returns:
//   - error: an error if the file watcher failed to close
func (l *TextureLoader) Close() error {
	l.mu.Lock()
	l.closed = true
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	l.inFlight.Wait()
	if w != nil {
		if err := w.Close(); err != nil {
			return fmt.Errorf("failed to close texture watcher: %w", err)
		}
	}
	return nil
}

func (l *TextureLoader) resolve(path string) string {
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// submit queues a decode of tex.Path on the worker pool.
func (l *TextureLoader) submit(tex *scene.Texture, backend loaderBackend, onLoad func(*scene.Texture), onError func(error)) {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		l.enqueue(completion{tex: tex, err: fmt.Errorf("failed to load %s: loader closed", tex.Name), onLoad: onLoad, onError: onError})
		return
	}

	l.inFlight.Add(1)
	l.pending.Add(1)
	path := tex.Path
	l.pool.SubmitTask(worker.Task{
		ID: int(l.taskID.Add(1)),
		Do: func() (any, error) {
			defer l.inFlight.Done()
			defer l.pending.Add(-1)

			decoded, err := decodeFile(path, backend)
			if err != nil {
				err = fmt.Errorf("failed to load %s: %w", tex.Name, err)
			}
			l.enqueue(completion{tex: tex, decoded: decoded, err: err, onLoad: onLoad, onError: onError})
			// Failures are delivered through Poll, not the pool.
			return nil, nil
		},
	})
}

func (l *TextureLoader) enqueue(c completion) {
	l.mu.Lock()
	l.completions = append(l.completions, c)
	l.mu.Unlock()
}

// decodeFile decodes path with backend. A panicking decoder fails the texture instead of the
// worker goroutine.
func decodeFile(path string, backend loaderBackend) (decoded *decodedTexture, err error) {
	defer func() {
		if r := recover(); r != nil {
			decoded, err = nil, fmt.Errorf("decoder panic: %v", r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return backend.Decode(f)
}
