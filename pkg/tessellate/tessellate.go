// Package tessellate turns shapes into preview meshes using a geometry
// kernel. Planar shapes become slabs of a given thickness; solids are
// tessellated as-is. Every solid is centred on the origin.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/geomaster/pkg/calc"
	"github.com/chazu/geomaster/pkg/kernel"
	"github.com/chazu/geomaster/pkg/shape"
	"golang.org/x/sync/errgroup"
)

// DefaultThickness is the slab thickness used for planar shapes.
const DefaultThickness = 1.0

// Labels for the meshes of a containment preview.
const (
	LabelOuter = "outer"
	LabelInner = "inner"
)

// ErrThickness is returned for a non-positive or non-finite slab thickness.
var ErrThickness = errors.New("tessellate: thickness must be positive")

// solidFor builds the kernel solid for s.
func solidFor(k kernel.Kernel, s shape.Shape, thickness float64) (kernel.Solid, error) {
	switch v := s.(type) {
	case shape.Circle:
		return k.Cylinder(thickness, v.Radius), nil
	case shape.Rectangle:
		box := k.Box(v.Width, v.Height, thickness)
		return k.Translate(box, -v.Width/2, -v.Height/2, -thickness/2), nil
	case shape.Sphere:
		return k.Sphere(v.Radius), nil
	default:
		return nil, fmt.Errorf("tessellate: unsupported shape %T", s)
	}
}

func checkThickness(thickness float64) error {
	if !(thickness > 0) || thickness > 1e12 {
		return ErrThickness
	}
	return nil
}

// Shape produces a single mesh for s, labelled with its kind.
func Shape(k kernel.Kernel, s shape.Shape, thickness float64) (*kernel.Mesh, error) {
	if err := checkThickness(thickness); err != nil {
		return nil, err
	}
	solid, err := solidFor(k, s, thickness)
	if err != nil {
		return nil, err
	}
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %s: %w", s.Kind(), err)
	}
	mesh.Label = s.Kind().String()
	return mesh, nil
}

// Containment previews inner placed within outer. It returns the outer
// slab with the inner footprint cut out, the inner slab lifted clear above
// it, and whether inner is contained. Pairs without a containment rule
// yield the same error as calc.Contains.
func Containment(k kernel.Kernel, outer, inner shape.Shape, thickness float64) ([]*kernel.Mesh, bool, error) {
	contained, err := calc.Contains(outer, inner)
	if err != nil {
		return nil, false, err
	}
	if err := checkThickness(thickness); err != nil {
		return nil, false, err
	}

	outerSolid, err := solidFor(k, outer, thickness)
	if err != nil {
		return nil, false, err
	}
	// The cutter is twice as thick so it passes through the outer slab.
	cutter, err := solidFor(k, inner, 2*thickness)
	if err != nil {
		return nil, false, err
	}
	innerSolid, err := solidFor(k, inner, thickness)
	if err != nil {
		return nil, false, err
	}

	parts := []struct {
		label string
		solid kernel.Solid
	}{
		{LabelOuter, k.Difference(outerSolid, cutter)},
		{LabelInner, k.Translate(innerSolid, 0, 0, 2*thickness)},
	}

	meshes := make([]*kernel.Mesh, len(parts))
	var g errgroup.Group
	for i, p := range parts {
		g.Go(func() error {
			mesh, err := k.ToMesh(p.solid)
			if err != nil {
				return fmt.Errorf("tessellate: %s: %w", p.label, err)
			}
			mesh.Label = p.label
			meshes[i] = mesh
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}
	return meshes, contained, nil
}
