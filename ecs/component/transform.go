package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WorldUp is the +Y axis every camera and body is oriented against.
var WorldUp = mgl64.Vec3{0, 1, 0}

// Transform is the world pose of an entity. Yaw rotates about +Y and pitch
// tilts towards +Y; a zero orientation looks down -Z.
type Transform struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

// Forward returns the unit view direction.
func (t *Transform) Forward() mgl64.Vec3 {
	cp := math.Cos(t.Pitch)
	return mgl64.Vec3{-math.Sin(t.Yaw) * cp, math.Sin(t.Pitch), -math.Cos(t.Yaw) * cp}
}

var TransformComponent = NewComponent[Transform]()

// Attachment keeps a child entity at a fixed offset from its parent's
// position. Nudge is added on top and is owned by gameplay systems.
type Attachment struct {
	Offset mgl64.Vec3
	Nudge  mgl64.Vec3
}

var AttachmentComponent = NewComponent[Attachment]()
