package component

import "github.com/go-gl/mathgl/mgl64"

// Avatar is the in-world body of a remote participant.
type Avatar struct {
	ParticipantID string
}

var AvatarComponent = NewComponent[Avatar]()

// Wander walks a simulated participant around a circle.
type Wander struct {
	ParticipantID string
	Center        mgl64.Vec3
	Radius        float64
	Speed         float64 // radians per second
	Angle         float64
}

var WanderComponent = NewComponent[Wander]()
