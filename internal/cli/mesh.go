package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chazu/geomaster/internal/config"
	"github.com/chazu/geomaster/pkg/kernel"
	"github.com/chazu/geomaster/pkg/kernel/sdfx"
	"github.com/chazu/geomaster/pkg/shape"
	"github.com/chazu/geomaster/pkg/tessellate"
	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
)

// colorPalette assigns distinct colors to the meshes of a preview.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is the JSON form of one preview mesh.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Label    string    `json:"label"`
	Color    string    `json:"color"`
}

// Preview is the document written by the mesh command.
type Preview struct {
	// Contained is set for containment previews only.
	Contained *bool      `json:"contained,omitempty"`
	Meshes    []MeshData `json:"meshes"`
}

func newPreview(meshes []*kernel.Mesh) Preview {
	p := Preview{Meshes: make([]MeshData, 0, len(meshes))}
	for i, m := range meshes {
		p.Meshes = append(p.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Label:    m.Label,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return p
}

func newMeshCommand(cfg config.Config) *cobra.Command {
	var (
		innerSpec string
		outPath   string
		format    = formatJSON
		cells     = cfg.MeshCells
		thickness = cfg.PreviewThickness
	)
	cmd := &cobra.Command{
		Use:   "mesh <kind> key=value... [--inner kind:key=v,...] [--out file]",
		Short: "Tessellate a shape, or a containment pair, to a mesh file",
		Example: "  geomaster mesh sphere radius=3 --out sphere.json\n" +
			"  geomaster mesh rectangle width=10 height=6 --inner circle:radius=2",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatCBOR {
				return fmt.Errorf("--format must be %s or %s, got %q", formatJSON, formatCBOR, format)
			}
			if cells <= 0 {
				return fmt.Errorf("--cells must be positive, got %d", cells)
			}
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			s, err := shape.Build(args[0], params)
			if err != nil {
				return withKindHint(err)
			}
			k := sdfx.New(sdfx.WithMeshCells(cells))

			var preview Preview
			if innerSpec == "" {
				m, err := tessellate.Shape(k, s, thickness)
				if err != nil {
					return err
				}
				preview = newPreview([]*kernel.Mesh{m})
			} else {
				inner, err := parseShapeSpec(innerSpec)
				if err != nil {
					return fmt.Errorf("inner: %w", err)
				}
				meshes, contained, err := tessellate.Containment(k, s, inner, thickness)
				if err != nil {
					return err
				}
				preview = newPreview(meshes)
				preview.Contained = &contained
			}

			return writePreview(cmd.OutOrStdout(), outPath, format, preview)
		},
	}
	cmd.Flags().StringVar(&innerSpec, "inner", "", "inner shape as kind:key=value,... for a containment preview")
	cmd.Flags().StringVar(&outPath, "out", "", "write the mesh to this file instead of stdout")
	cmd.Flags().StringVar(&format, "format", format, "output encoding: json or cbor")
	cmd.Flags().IntVar(&cells, "cells", cells, "marching cubes resolution")
	cmd.Flags().Float64Var(&thickness, "thickness", thickness, "slab thickness for planar shapes")
	return cmd
}

// Mesh output encodings.
const (
	formatJSON = "json"
	formatCBOR = "cbor"
)

func encodePreview(p Preview, format string) ([]byte, error) {
	if format == formatCBOR {
		em, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return nil, fmt.Errorf("cbor encoder: %w", err)
		}
		return em.Marshal(p)
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func writePreview(stdout io.Writer, path, format string, p Preview) error {
	b, err := encodePreview(p, format)
	if err != nil {
		return fmt.Errorf("encode mesh: %w", err)
	}
	if path == "" {
		_, err = stdout.Write(b)
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write mesh: %w", err)
	}
	return nil
}
