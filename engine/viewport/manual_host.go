package viewport

import "sync"

// ManualHost is a Host driven explicitly by the caller: frames run only when Step is called
// and resizes are injected with Resize. It is used by tests and by headless tools.
type ManualHost struct {
	mu       sync.Mutex
	width    int
	height   int
	onResize func(width, height int)
	pending  []func()
}

var _ Host = &ManualHost{}

// NewManualHost creates a host reporting the given initial size.
//
// Parameters:
//   - width, height: initial display size in pixels
//
// Returns:
//   - *ManualHost: the new host
func NewManualHost(width, height int) *ManualHost {
	return &ManualHost{width: width, height: height}
}

func (h *ManualHost) RequestFrame(fn func()) {
	h.mu.Lock()
	h.pending = append(h.pending, fn)
	h.mu.Unlock()
}

func (h *ManualHost) SetResizeCallback(fn func(width, height int)) {
	h.mu.Lock()
	h.onResize = fn
	h.mu.Unlock()
}

func (h *ManualHost) Width() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width
}

func (h *ManualHost) Height() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.height
}

// Resize records the new display size and dispatches it to the resize callback, if any.
//
// Parameters:
//   - width, height: new display size in pixels; may be zero to simulate minimizing
func (h *ManualHost) Resize(width, height int) {
	h.mu.Lock()
	h.width, h.height = width, height
	cb := h.onResize
	h.mu.Unlock()
	if cb != nil {
		cb(width, height)
	}
}

// Step runs every frame callback requested before the call. Callbacks requested while
// stepping are deferred to the next Step.
//
// Returns:
//   - int: the number of callbacks run
func (h *ManualHost) Step() int {
	h.mu.Lock()
	batch := h.pending
	h.pending = nil
	h.mu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Pending returns the number of frame callbacks waiting for the next Step.
func (h *ManualHost) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}
