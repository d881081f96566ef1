// Package kernel defines the abstract geometry kernel used to build preview
// solids for shapes. The sdfx subpackage provides the implementation.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds solids and turns them into triangle meshes. ToMesh may be
// called concurrently on different solids.
type Kernel interface {
	// Primitives. Box has its minimum corner at the origin; Cylinder and
	// Sphere are centred on it, the cylinder's axis along Z.
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid
	Sphere(radius float64) Solid

	Difference(a, b Solid) Solid
	Translate(s Solid, x, y, z float64) Solid

	ToMesh(s Solid) (*Mesh, error)
}
