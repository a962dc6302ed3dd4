package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

type BodyType int

const (
	BodyFixed BodyType = iota
	BodyDynamic
)

type ColliderShape string

const (
	ColliderCuboid   ColliderShape = "cuboid"
	ColliderHull     ColliderShape = "hull"
	ColliderBall     ColliderShape = "ball"
	ColliderCylinder ColliderShape = "cylinder"
)

// Round reports whether the collider footprint is a circle.
func (s ColliderShape) Round() bool {
	return s == ColliderBall || s == ColliderCylinder
}

// RigidBody stores the collider configuration and the body state. The
// horizontal plane is simulated by Chipmunk (Body/Shape, XZ mapped to XY);
// the vertical axis is integrated by the physics system.
type RigidBody struct {
	Type         BodyType
	Collider     ColliderShape
	Size         mgl64.Vec3 // full extents
	Offset       mgl64.Vec3 // body centre relative to the transform origin
	Mass         float64
	Friction     float64
	Restitution  float64
	GravityScale float64

	Body  *cp.Body
	Shape *cp.Shape

	position mgl64.Vec3
	velocity mgl64.Vec3
	placed   bool
	moved    bool
}

var RigidBodyComponent = NewComponent[RigidBody]()

// Translation returns the body centre.
func (rb *RigidBody) Translation() mgl64.Vec3 {
	return rb.position
}

// SetTranslation moves the body. The simulation picks the new position up
// before its next step.
func (rb *RigidBody) SetTranslation(p mgl64.Vec3) {
	rb.position = p
	rb.placed = true
	rb.moved = true
}

func (rb *RigidBody) LinearVelocity() mgl64.Vec3 {
	return rb.velocity
}

func (rb *RigidBody) SetLinearVelocity(v mgl64.Vec3) {
	rb.velocity = v
}

// Teleport moves the body and zeroes its velocity in one step, so the next
// integration never sees the new position with the old velocity.
func (rb *RigidBody) Teleport(p mgl64.Vec3) {
	rb.position = p
	rb.velocity = mgl64.Vec3{}
	rb.placed = true
	rb.moved = true
}

// Simulated records the outcome of a physics step. Unlike SetTranslation it
// does not hand the position back to the simulation.
func (rb *RigidBody) Simulated(p, v mgl64.Vec3) {
	rb.position = p
	rb.velocity = v
	rb.placed = true
}

// TakeMove returns the position set by SetTranslation or Teleport since the
// last call, if there was one.
func (rb *RigidBody) TakeMove() (mgl64.Vec3, bool) {
	if !rb.moved {
		return rb.position, false
	}
	rb.moved = false
	return rb.position, true
}

// Placed reports whether the body has been given a position yet.
func (rb *RigidBody) Placed() bool {
	return rb.placed
}

func (rb *RigidBody) HalfExtents() mgl64.Vec3 {
	return rb.Size.Mul(0.5)
}

// Bottom is the world height of the body's lowest point.
func (rb *RigidBody) Bottom() float64 {
	return rb.position.Y() - rb.Size.Y()/2
}

// Top is the world height of the body's highest point.
func (rb *RigidBody) Top() float64 {
	return rb.position.Y() + rb.Size.Y()/2
}

// GroundSensor is a thin sensor volume under a dynamic body.
type GroundSensor struct {
	Depth    float64
	Grounded bool
}

var GroundSensorComponent = NewComponent[GroundSensor]()
