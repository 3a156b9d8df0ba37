// Package tessellate turns a scene's target tree into a kernel solid and
// then into the triangle mesh that gets sliced.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/scene"
)

// ErrNoTarget is returned for a scene without a target.
var ErrNoTarget = errors.New("tessellate: scene has no target")

// Tessellate builds the scene's target with k and meshes it with the
// given marching-cubes resolution. The result is an unwelded triangle
// soup. The tessellator is read-only and never mutates the scene.
func Tessellate(s *scene.Scene, k kernel.Kernel, cells int) (*geom.Mesh, error) {
	if s.IsEmpty() {
		return nil, ErrNoTarget
	}
	solid, err := Solid(s.Target, k)
	if err != nil {
		return nil, err
	}
	m, err := k.ToMesh(solid, cells)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for %q: %w", s.Name, err)
	}
	return m, nil
}

// Solid builds the kernel solid for the tree rooted at n, children first.
func Solid(n *scene.Node, k kernel.Kernel) (kernel.Solid, error) {
	return walkNode(k, n, "target")
}

// walkNode recursively converts a node and its children.
func walkNode(k kernel.Kernel, n *scene.Node, path string) (kernel.Solid, error) {
	if n == nil {
		return nil, fmt.Errorf("tessellate: %s: missing node", path)
	}
	switch n.Kind {
	case scene.NodeBox, scene.NodeSphere, scene.NodeCylinder:
		return handlePrimitive(k, n, path)

	case scene.NodeUnion, scene.NodeDifference, scene.NodeIntersection:
		return handleBoolean(k, n, path)

	case scene.NodeTranslate, scene.NodeRotate:
		return handleTransform(k, n, path)

	default:
		return nil, fmt.Errorf("tessellate: %s: unknown node kind: %v", path, n.Kind)
	}
}

// handlePrimitive creates geometry for a primitive node.
func handlePrimitive(k kernel.Kernel, n *scene.Node, path string) (kernel.Solid, error) {
	var (
		solid kernel.Solid
		err   error
	)
	switch data := n.Data.(type) {
	case scene.BoxData:
		solid, err = k.Box(data.Size.X, data.Size.Y, data.Size.Z)
	case scene.SphereData:
		solid, err = k.Sphere(data.Radius)
	case scene.CylinderData:
		solid, err = k.Cylinder(data.Height, data.Radius)
	default:
		return nil, fmt.Errorf("tessellate: %s: %s node has unsupported data type %T", path, n.Kind, n.Data)
	}
	if err != nil {
		return nil, fmt.Errorf("tessellate: %s: %w", path, err)
	}
	return solid, nil
}

// handleBoolean folds the children left to right with the node's operation.
func handleBoolean(k kernel.Kernel, n *scene.Node, path string) (kernel.Solid, error) {
	if len(n.Children) == 0 {
		return nil, fmt.Errorf("tessellate: %s: %s has no shapes", path, n.Kind)
	}

	var op func(a, b kernel.Solid) kernel.Solid
	switch n.Kind {
	case scene.NodeUnion:
		op = k.Union
	case scene.NodeDifference:
		op = k.Difference
	default:
		op = k.Intersection
	}

	var acc kernel.Solid
	for i, child := range n.Children {
		s, err := walkNode(k, child, childPath(path, child, i))
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = s
			continue
		}
		acc = op(acc, s)
	}
	return acc, nil
}

// handleTransform applies a translation or rotation to the single child.
func handleTransform(k kernel.Kernel, n *scene.Node, path string) (kernel.Solid, error) {
	td, ok := n.Data.(scene.TransformData)
	if !ok {
		return nil, fmt.Errorf("tessellate: %s: %s node has unexpected data type %T", path, n.Kind, n.Data)
	}
	if len(n.Children) != 1 {
		return nil, fmt.Errorf("tessellate: %s: %s needs exactly 1 shape, got %d", path, n.Kind, len(n.Children))
	}

	child, err := walkNode(k, n.Children[0], childPath(path, n.Children[0], 0))
	if err != nil {
		return nil, err
	}

	v := td.Vector
	if n.Kind == scene.NodeRotate {
		return k.Rotate(child, v.X, v.Y, v.Z), nil
	}
	return k.Translate(child, v.X, v.Y, v.Z), nil
}

func childPath(parent string, child *scene.Node, i int) string {
	if child == nil {
		return fmt.Sprintf("%s[%d]", parent, i)
	}
	return fmt.Sprintf("%s/%s[%d]", parent, child.Kind, i)
}
