package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
)

const basisEpsilon = 1e-9

// AxisFromKeys resolves held keys into forward, strafe and vertical intent,
// each -1, 0 or 1. Opposing keys cancel.
func AxisFromKeys(keys component.KeySet, b component.Bindings) (forward, strafe, vertical float64) {
	if keys.Any(b.Forward) {
		forward++
	}
	if keys.Any(b.Backward) {
		forward--
	}
	if keys.Any(b.Right) {
		strafe++
	}
	if keys.Any(b.Left) {
		strafe--
	}
	if keys.Any(b.Up) {
		vertical++
	}
	if keys.Any(b.Down) {
		vertical--
	}
	return forward, strafe, vertical
}

// HorizontalBasis returns the camera forward flattened onto the ground plane
// and the right vector perpendicular to it, both unit length.
func HorizontalBasis(t *component.Transform) (forward, right mgl64.Vec3) {
	f := t.Forward()
	f[1] = 0
	if f.Len() < basisEpsilon {
		// Looking straight up or down; fall back to yaw alone.
		f = (&component.Transform{Yaw: t.Yaw}).Forward()
	}
	forward = f.Normalize()
	right = forward.Cross(component.WorldUp).Normalize()
	return forward, right
}

// HorizontalMove combines forward and strafe intent into a unit direction on
// the ground plane, or the zero vector when there is no intent.
func HorizontalMove(t *component.Transform, forward, strafe float64) mgl64.Vec3 {
	if forward == 0 && strafe == 0 {
		return mgl64.Vec3{}
	}
	fwd, right := HorizontalBasis(t)
	move := fwd.Mul(forward).Add(right.Mul(strafe))
	if move.Len() < basisEpsilon {
		return mgl64.Vec3{}
	}
	return move.Normalize()
}

// IntegrateFly moves t by one frame of free flight. Horizontal speed is the
// same in every direction, diagonals included; vertical motion is added on
// top. It reports whether t changed.
func IntegrateFly(t *component.Transform, keys component.KeySet, b component.Bindings, speed, dt float64) bool {
	forward, strafe, vertical := AxisFromKeys(keys, b)
	if forward == 0 && strafe == 0 && vertical == 0 {
		return false
	}

	step := speed * dt
	delta := HorizontalMove(t, forward, strafe).Mul(step)
	delta = delta.Add(component.WorldUp.Mul(vertical * step))
	t.Position = t.Position.Add(delta)
	return true
}

// FlyMovementSystem moves fly-mode cameras straight from held keys.
type FlyMovementSystem struct {
	Bindings component.Bindings
}

func NewFlyMovementSystem() *FlyMovementSystem {
	return &FlyMovementSystem{Bindings: component.DefaultBindings}
}

func (s *FlyMovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := ecs.Delta(w)
	if dt <= 0 {
		return
	}

	ecs.ForEach3(w, component.FlyControllerComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, fly *component.FlyController, input *component.InputState, t *component.Transform) {
		IntegrateFly(t, input.Keys, s.Bindings, fly.Speed, dt)
	})
}
