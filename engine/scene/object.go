package scene

import (
	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// Node is anything that can be placed in the scene graph.
type Node interface {
	// Object returns the node's transform and hierarchy data.
	Object() *Object3D
}

// Object3D carries a local transform, a visibility flag and a list of child nodes.
// Position, Rotation (Euler radians) and Scale are exported so the parameter panel can bind them.
//
// An Object3D is not safe for concurrent use; the scene graph is only touched from the render thread.
type Object3D struct {
	Name     string
	Position common.Vec3
	Rotation common.Vec3
	Scale    common.Vec3
	Visible  bool

	parent   *Object3D
	children []Node
}

// NewObject3D creates an empty, visible group node with unit scale.
//
// Parameters:
//   - name: a human-readable label
//
// Returns:
//   - *Object3D: the new node
func NewObject3D(name string) *Object3D {
	o := &Object3D{}
	o.init(name)
	return o
}

func (o *Object3D) init(name string) {
	o.Name = name
	o.Scale = common.V3(1, 1, 1)
	o.Visible = true
}

// Object implements Node.
func (o *Object3D) Object() *Object3D {
	return o
}

// Add attaches children to this node, detaching each from any previous parent first.
// Nil nodes and attempts to add a node to itself are ignored.
//
// Parameters:
//   - children: the nodes to attach
func (o *Object3D) Add(children ...Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		obj := c.Object()
		if obj == o {
			continue
		}
		if obj.parent != nil {
			obj.parent.Remove(c)
		}
		obj.parent = o
		o.children = append(o.children, c)
	}
}

// Remove detaches child from this node.
//
// Parameters:
//   - child: the node to detach
//
// Returns:
//   - bool: true if child was attached to this node
func (o *Object3D) Remove(child Node) bool {
	target := child.Object()
	for i, c := range o.children {
		if c.Object() == target {
			o.children = append(o.children[:i], o.children[i+1:]...)
			target.parent = nil
			return true
		}
	}
	return false
}

// Children returns the direct children of the node. The slice must not be modified.
func (o *Object3D) Children() []Node {
	return o.children
}

// Parent returns the node this object is attached to, or nil for a root.
func (o *Object3D) Parent() *Object3D {
	return o.parent
}

// LocalMatrix builds the column-major local transform from Position, Rotation and Scale.
func (o *Object3D) LocalMatrix() [16]float32 {
	var m [16]float32
	common.BuildModelMatrix(m[:], o.Position, o.Rotation, o.Scale)
	return m
}

// Traverse walks the visible subtree rooted at o depth-first, parent before children,
// handing each node its world matrix. Invisible nodes are skipped together with their children.
//
// Parameters:
//   - fn: called once per visible node
func (o *Object3D) Traverse(fn func(n Node, world [16]float32)) {
	var root [16]float32
	common.Identity(root[:])
	traverse(o, root, fn)
}

func traverse(n Node, parentWorld [16]float32, fn func(Node, [16]float32)) {
	obj := n.Object()
	if !obj.Visible {
		return
	}
	local := obj.LocalMatrix()
	var world [16]float32
	common.Mul4(world[:], parentWorld[:], local[:])
	fn(n, world)
	for _, c := range obj.children {
		traverse(c, world, fn)
	}
}
