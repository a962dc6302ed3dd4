package component

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// FlyController moves the transform directly, without physics.
type FlyController struct {
	Speed float64
}

var FlyControllerComponent = NewComponent[FlyController]()

type JumpMode int

const (
	// JumpFree launches every frame the jump key is held, airborne or not.
	JumpFree JumpMode = iota
	// JumpGrounded launches once per press, and only while grounded.
	JumpGrounded
)

func (m JumpMode) String() string {
	switch m {
	case JumpFree:
		return "free"
	case JumpGrounded:
		return "grounded"
	default:
		return fmt.Sprintf("JumpMode(%d)", int(m))
	}
}

func ParseJumpMode(s string) (JumpMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "free", "infinite":
		return JumpFree, nil
	case "grounded", "ground":
		return JumpGrounded, nil
	default:
		return JumpFree, fmt.Errorf("unknown jump mode %q", s)
	}
}

// PlayerController drives a dynamic rigid body from movement intent.
type PlayerController struct {
	MoveSpeed     float64
	JumpSpeed     float64
	JumpMode      JumpMode
	FallThreshold float64
	Spawn         mgl64.Vec3 // feet position
	SpawnYaw      float64

	JumpWasHeld bool
}

var PlayerControllerComponent = NewComponent[PlayerController]()

// SpawnCenter is where rb's centre goes so its feet rest on the spawn.
func (pc *PlayerController) SpawnCenter(rb *RigidBody) mgl64.Vec3 {
	return pc.Spawn.Add(WorldUp.Mul(rb.Size.Y() / 2))
}

// Interactor configures the center-screen interaction ray.
type Interactor struct {
	MaxDistance float64 // 0 means unbounded
}

var InteractorComponent = NewComponent[Interactor]()
