package scene

// Mesh is a drawable node pairing a Geometry with a BasicMaterial.
type Mesh struct {
	Object3D
	Geometry *Geometry
	Material *BasicMaterial
}

// NewMesh creates a visible mesh at the origin.
//
// Parameters:
//   - geometry: vertex data to draw
//   - material: surface appearance; a default BasicMaterial is used when nil
//
// Returns:
//   - *Mesh: the new mesh
func NewMesh(geometry *Geometry, material *BasicMaterial) *Mesh {
	if material == nil {
		material = NewBasicMaterial()
	}
	m := &Mesh{Geometry: geometry, Material: material}
	m.init("mesh")
	return m
}
