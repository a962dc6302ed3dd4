package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
)

// PlayerControllerSystem turns movement intent into a velocity command on
// the player's dynamic body. Vertical velocity is left to gravity except
// when a jump fires.
type PlayerControllerSystem struct {
	Bindings component.Bindings
}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{Bindings: component.DefaultBindings}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach4(w, component.PlayerControllerComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind(), component.RigidBodyComponent.Kind(), func(e ecs.Entity, pc *component.PlayerController, input *component.InputState, t *component.Transform, rb *component.RigidBody) {
		if rb.Type != component.BodyDynamic {
			return
		}

		forward, strafe, _ := AxisFromKeys(input.Keys, p.Bindings)
		move := HorizontalMove(t, forward, strafe).Mul(pc.MoveSpeed)

		vel := rb.LinearVelocity()
		vel = mgl64.Vec3{move.X(), vel.Y(), move.Z()}

		jumpHeld := input.Keys.Any(p.Bindings.Jump)
		switch pc.JumpMode {
		case component.JumpGrounded:
			sensor, ok := ecs.Get(w, e, component.GroundSensorComponent.Kind())
			if jumpHeld && !pc.JumpWasHeld && ok && sensor.Grounded {
				vel[1] = pc.JumpSpeed
			}
		default:
			if jumpHeld {
				vel[1] = pc.JumpSpeed
			}
		}
		pc.JumpWasHeld = jumpHeld

		rb.SetLinearVelocity(vel)
	})
}
