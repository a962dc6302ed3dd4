package component

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type MeshShape string

const (
	MeshBox      MeshShape = "box"
	MeshPlane    MeshShape = "plane"
	MeshCylinder MeshShape = "cylinder"
	MeshSphere   MeshShape = "sphere"
)

// Mesh is renderable geometry centred on the entity transform.
type Mesh struct {
	Shape  MeshShape
	Size   mgl64.Vec3
	Color  color.RGBA
	Hidden bool
}

var MeshComponent = NewComponent[Mesh]()

// Bounds returns the axis-aligned box enclosing the mesh as drawn at t,
// including its yaw.
func (m *Mesh) Bounds(t *Transform) (mgl64.Vec3, mgl64.Vec3) {
	half := m.Size.Mul(0.5)
	switch m.Shape {
	case MeshPlane:
		half[1] = 0
		half = YawedExtents(half, t.Yaw)
	case MeshCylinder:
		r := math.Max(half.X(), half.Z())
		half = mgl64.Vec3{r, half.Y(), r}
	case MeshSphere:
		r := math.Max(half.X(), math.Max(half.Y(), half.Z()))
		half = mgl64.Vec3{r, r, r}
	default:
		half = YawedExtents(half, t.Yaw)
	}
	return t.Position.Sub(half), t.Position.Add(half)
}

// YawedExtents returns the half extents of the axis-aligned box enclosing a
// box with half extents half turned by yaw about +Y.
func YawedExtents(half mgl64.Vec3, yaw float64) mgl64.Vec3 {
	c, s := math.Abs(math.Cos(yaw)), math.Abs(math.Sin(yaw))
	return mgl64.Vec3{c*half.X() + s*half.Z(), half.Y(), s*half.X() + c*half.Z()}
}

type Layer uint32

const (
	LayerDefault Layer = 1 << iota
	LayerInteractable
)

// Layers restricts which queries see an entity.
type Layers struct {
	Mask Layer
}

func (l *Layers) Has(layer Layer) bool {
	return l != nil && l.Mask&layer != 0
}

var LayersComponent = NewComponent[Layers]()
