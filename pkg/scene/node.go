package scene

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// NodeKind enumerates the types of nodes in a scene tree.
type NodeKind int

const (
	NodeBox          NodeKind = iota // axis-aligned box, min corner at the origin
	NodeSphere                       // sphere centered on the origin
	NodeCylinder                     // cylinder along Z centered on the origin
	NodeUnion                        // union of all children
	NodeDifference                   // first child minus the rest
	NodeIntersection                 // intersection of all children
	NodeTranslate                    // translated child
	NodeRotate                       // rotated child
)

func (k NodeKind) String() string {
	switch k {
	case NodeBox:
		return "box"
	case NodeSphere:
		return "sphere"
	case NodeCylinder:
		return "cylinder"
	case NodeUnion:
		return "union"
	case NodeDifference:
		return "difference"
	case NodeIntersection:
		return "intersection"
	case NodeTranslate:
		return "translate"
	case NodeRotate:
		return "rotate"
	default:
		return "unknown"
	}
}

// IsBoolean reports whether k combines several children.
func (k NodeKind) IsBoolean() bool {
	return k == NodeUnion || k == NodeDifference || k == NodeIntersection
}

// Node is one element of a scene tree.
type Node struct {
	Kind     NodeKind `json:"kind"`
	Line     int      `json:"line,omitempty"` // source line, 0 if unknown
	Children []*Node  `json:"children,omitempty"`
	Data     NodeData `json:"data,omitempty"`
}

func (n *Node) String() string {
	return fmt.Sprintf("%s/%d", n.Kind, len(n.Children))
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// BoxData is the size of a box.
type BoxData struct {
	Size v3.Vec `json:"size"`
}

func (BoxData) nodeData() {}

// SphereData is the radius of a sphere.
type SphereData struct {
	Radius float64 `json:"radius"`
}

func (SphereData) nodeData() {}

// CylinderData is the size of a cylinder.
type CylinderData struct {
	Height float64 `json:"height"`
	Radius float64 `json:"radius"`
}

func (CylinderData) nodeData() {}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// TransformData is the offset of a translate node or the Euler angles
// (degrees, applied X then Y then Z) of a rotate node.
type TransformData struct {
	Vector v3.Vec `json:"vector"`
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// Box returns a box node.
func Box(size v3.Vec) *Node {
	return &Node{Kind: NodeBox, Data: BoxData{Size: size}}
}

// Sphere returns a sphere node.
func Sphere(radius float64) *Node {
	return &Node{Kind: NodeSphere, Data: SphereData{Radius: radius}}
}

// Cylinder returns a cylinder node.
func Cylinder(height, radius float64) *Node {
	return &Node{Kind: NodeCylinder, Data: CylinderData{Height: height, Radius: radius}}
}

// Boolean returns a union, difference or intersection of children.
func Boolean(kind NodeKind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// Translate returns child moved by offset.
func Translate(child *Node, offset v3.Vec) *Node {
	return &Node{Kind: NodeTranslate, Children: []*Node{child}, Data: TransformData{Vector: offset}}
}

// Rotate returns child rotated by Euler angles in degrees.
func Rotate(child *Node, degrees v3.Vec) *Node {
	return &Node{Kind: NodeRotate, Children: []*Node{child}, Data: TransformData{Vector: degrees}}
}

// Walk calls fn for n and every node below it, parents first. It stops
// descending into a subtree when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}
