package panel

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// GUI is a tree of folders and controls bound to live objects. Bound fields belong to the
// render thread: Set, Flush and Snapshot run there, while Enqueue and Published are safe from
// any goroutine.
type GUI struct {
	*Folder

	mu      sync.Mutex
	title   string
	verbose bool

	folders  []*Folder
	controls []*Controller
	byID     map[string]*Controller
	nextID   int

	queue map[string]edit
	order []string

	published Snapshot
	version   uint64
}

// Folder groups controls under a collapsible heading. The GUI itself is the root folder.
type Folder struct {
	gui  *GUI
	path string
	open bool
}

// edit is a queued change from a remote client.
type edit struct {
	value  any
	invoke bool
}

// Snapshot is the serialisable state of every control.
type Snapshot struct {
	Title    string         `json:"title"`
	Folders  []FolderState  `json:"folders"`
	Controls []ControlState `json:"controls"`
}

// FolderState describes one folder in a snapshot.
type FolderState struct {
	Path string `json:"path"`
	Open bool   `json:"open"`
}

// ControlState describes one control in a snapshot.
type ControlState struct {
	ID      string   `json:"id"`
	Folder  string   `json:"folder,omitempty"`
	Name    string   `json:"name"`
	Kind    Kind     `json:"kind"`
	Value   any      `json:"value"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Step    *float64 `json:"step,omitempty"`
	Options []Option `json:"options,omitempty"`
	Listen  bool     `json:"listen,omitempty"`
}

// NewGUI creates an empty panel.
//
// Parameters:
//   - options: variadic list of GUIBuilderOption functions to configure the panel
//
// Returns:
//   - *GUI: the panel
func NewGUI(options ...GUIBuilderOption) *GUI {
	g := &GUI{
		title: "Controls",
		byID:  make(map[string]*Controller),
		queue: make(map[string]edit),
	}
	g.Folder = &Folder{gui: g, open: true}
	for _, option := range options {
		option(g)
	}
	g.published = Snapshot{Title: g.title}
	return g
}

// Title returns the panel heading.
func (g *GUI) Title() string {
	return g.title
}

// AddFolder creates a nested folder. Folder paths are joined with "/".
//
// Parameters:
//   - name: the folder heading
//
// Returns:
//   - *Folder: the new folder, open by default
func (f *Folder) AddFolder(name string) *Folder {
	path := name
	if f.path != "" {
		path = f.path + "/" + name
	}
	child := &Folder{gui: f.gui, path: path, open: true}

	f.gui.mu.Lock()
	f.gui.folders = append(f.gui.folders, child)
	f.gui.mu.Unlock()
	return child
}

// Path returns the folder's slash-joined path; the root folder's path is empty.
func (f *Folder) Path() string {
	return f.path
}

// Open expands the folder in clients.
func (f *Folder) Open() *Folder {
	f.gui.mu.Lock()
	f.open = true
	f.gui.mu.Unlock()
	return f
}

// Close collapses the folder in clients.
func (f *Folder) Close() *Folder {
	f.gui.mu.Lock()
	f.open = false
	f.gui.mu.Unlock()
	return f
}

// Add binds an exported field of the struct target points to. The control kind follows the
// field type: numbers, bool, string, common.Color, or func() for a button. Add panics if the
// field cannot be bound, the same way a bad regexp.MustCompile pattern does.
//
// Parameters:
//   - target: a non-nil pointer to a struct
//   - field: the exported field name
//
// Returns:
//   - *Controller: the new control
func (f *Folder) Add(target any, field string) *Controller {
	return f.gui.register(newController(f.gui, f.path, target, field))
}

// AddColor binds a common.Color or hex string field as a color picker.
//
// Parameters:
//   - target: a non-nil pointer to a struct
//   - field: the exported field name
//
// Returns:
//   - *Controller: the new control
func (f *Folder) AddColor(target any, field string) *Controller {
	c := newController(f.gui, f.path, target, field)
	if c.kind != KindColor && c.kind != KindString {
		panic(fmt.Sprintf("panel: field %q is not a color", field))
	}
	c.kind = KindColor
	c.cached = c.read()
	return f.gui.register(c)
}

// AddButton adds a button that calls fn when pressed.
//
// Parameters:
//   - name: the button label
//   - fn: the action
//
// Returns:
//   - *Controller: the new control
func (f *Folder) AddButton(name string, fn func()) *Controller {
	c := &Controller{gui: f.gui, folder: f.path, name: name, kind: KindButton, fn: fn}
	return f.gui.register(c)
}

func (g *GUI) register(c *Controller) *Controller {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	c.id = strconv.Itoa(g.nextID)
	g.controls = append(g.controls, c)
	g.byID[c.id] = c
	return c
}

// Controller returns the control with the given id.
func (g *GUI) Controller(id string) (*Controller, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.byID[id]
	return c, ok
}

// Find returns the first control in folder path whose name matches.
func (g *GUI) Find(folder, name string) (*Controller, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.controls {
		if c.folder == folder && c.name == name {
			return c, true
		}
	}
	return nil, false
}

// Set assigns a value to a control immediately. Render thread only.
//
// Parameters:
//   - id: the control id
//   - value: the new value
//
// Returns:
//   - error: ErrUnknownControl or ErrInvalidValue
func (g *GUI) Set(id string, value any) error {
	c, ok := g.Controller(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownControl, id)
	}
	return c.Set(value)
}

// Invoke presses a button control. Render thread only.
//
// Parameters:
//   - id: the button id
//
// Returns:
//   - error: ErrUnknownControl if id is not a button
func (g *GUI) Invoke(id string) error {
	c, ok := g.Controller(id)
	if !ok || c.Kind() != KindButton {
		return fmt.Errorf("%w: no button %q", ErrUnknownControl, id)
	}
	return c.Set(nil)
}

// Enqueue records an edit to apply on the next Flush. Later edits to the same control replace
// earlier ones. Safe from any goroutine.
//
// Parameters:
//   - id: the control id
//   - value: the new value
//
// Returns:
//   - error: ErrUnknownControl if id is not registered
func (g *GUI) Enqueue(id string, value any) error {
	return g.enqueue(id, edit{value: value})
}

// EnqueueInvoke records a button press to apply on the next Flush. Safe from any goroutine.
func (g *GUI) EnqueueInvoke(id string) error {
	return g.enqueue(id, edit{invoke: true})
}

func (g *GUI) enqueue(id string, e edit) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownControl, id)
	}
	if e.invoke != (c.kind == KindButton) {
		return fmt.Errorf("%w: %q is a %s control", ErrInvalidValue, id, c.kind)
	}
	if _, queued := g.queue[id]; !queued {
		g.order = append(g.order, id)
	}
	g.queue[id] = e
	return nil
}

// Flush applies queued edits in the order their controls were first queued, then refreshes the
// published snapshot. Render thread only; a frame hook calls it once per frame.
//
// Returns:
//   - error: the joined errors of edits that were rejected
func (g *GUI) Flush() error {
	g.mu.Lock()
	queue, order := g.queue, g.order
	g.queue = make(map[string]edit)
	g.order = nil
	g.mu.Unlock()

	var errs []error
	for _, id := range order {
		e := queue[id]
		var err error
		if e.invoke {
			err = g.Invoke(id)
		} else {
			err = g.Set(id, e.value)
		}
		if err != nil {
			log.Printf("[Panel] rejected edit: %v", err)
			errs = append(errs, err)
		} else if g.verbose {
			log.Printf("[Panel] applied edit to control %s", id)
		}
	}

	g.publish()
	return errors.Join(errs...)
}

// Snapshot captures every folder and control. Listened controls are re-read from their bound
// fields. Render thread only.
//
// Returns:
//   - Snapshot: the current state
func (g *GUI) Snapshot() Snapshot {
	g.mu.Lock()
	controls := append([]*Controller(nil), g.controls...)
	var listened []*Controller
	for _, c := range controls {
		if c.listen {
			listened = append(listened, c)
		}
	}
	g.mu.Unlock()

	// Read listened fields without the lock; they belong to the caller's thread.
	live := make(map[*Controller]any, len(listened))
	for _, c := range listened {
		live[c] = c.read()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	snap := Snapshot{
		Title:    g.title,
		Folders:  make([]FolderState, 0, len(g.folders)),
		Controls: make([]ControlState, 0, len(controls)),
	}
	for _, f := range g.folders {
		snap.Folders = append(snap.Folders, FolderState{Path: f.path, Open: f.open})
	}
	for _, c := range controls {
		if v, ok := live[c]; ok {
			c.cached = v
		}
		snap.Controls = append(snap.Controls, c.state(c.cached))
	}
	return snap
}

// Published returns the snapshot taken by the last Flush and its version. The version grows
// whenever the snapshot changes. Safe from any goroutine.
func (g *GUI) Published() (Snapshot, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.published, g.version
}

func (g *GUI) publish() {
	snap := g.Snapshot()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.version == 0 || !reflect.DeepEqual(snap, g.published) {
		g.published = snap
		g.version++
	}
}

// String renders the tree for logs.
func (g *GUI) String() string {
	snap := g.Snapshot()
	var b strings.Builder
	b.WriteString(snap.Title)
	for _, c := range snap.Controls {
		fmt.Fprintf(&b, "\n  [%s] %s/%s = %v", c.Kind, c.Folder, c.Name, c.Value)
	}
	return b.String()
}
