package loader

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
	"github.com/fsnotify/fsnotify"
)

// Watch starts re-decoding textures whenever their source file is written or replaced. The
// directories of textures loaded before and after the call are watched. Reloads arrive through
// Poll like any other load; a failed reload keeps the texture's previous pixels.
//
// Returns:
//   - error: an error if the file watcher could not be created
func (l *TextureLoader) Watch() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		return nil
	}
	if l.closed {
		return fmt.Errorf("texture loader is closed")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create texture watcher: %w", err)
	}
	l.watcher = w
	for path := range l.watched {
		l.watchDirLocked(filepath.Dir(path))
	}

	go l.watchLoop(w)
	return nil
}

// watchedTexture is a texture and the backend that decoded it.
type watchedTexture struct {
	tex     *scene.Texture
	backend loaderBackend
}

// track records tex for hot reload.
func (l *TextureLoader) track(tex *scene.Texture, backend loaderBackend) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.watched[tex.Path] = append(l.watched[tex.Path], watchedTexture{tex: tex, backend: backend})
	if l.watcher != nil {
		l.watchDirLocked(filepath.Dir(tex.Path))
	}
}

// watchDirLocked adds dir to the watcher once. Caller holds l.mu.
func (l *TextureLoader) watchDirLocked(dir string) {
	if l.dirs[dir] {
		return
	}
	if err := l.watcher.Add(dir); err != nil {
		log.Printf("[Loader] cannot watch %s: %v", dir, err)
		return
	}
	l.dirs[dir] = true
}

func (l *TextureLoader) watchLoop(w *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			l.reload(filepath.Clean(event.Name))
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("[Loader] texture watcher error: %v", err)
		}
	}
}

// reload re-decodes every texture loaded from path.
func (l *TextureLoader) reload(path string) {
	l.mu.Lock()
	entries := append([]watchedTexture(nil), l.watched[path]...)
	l.mu.Unlock()

	for _, e := range entries {
		if l.verbose {
			log.Printf("[Loader] reloading %s", e.tex.Name)
		}
		l.submit(e.tex, e.backend, nil, nil)
	}
}
