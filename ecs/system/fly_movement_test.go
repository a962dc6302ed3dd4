package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
)

const testEpsilon = 1e-9

func keys(ks ...component.Key) component.KeySet {
	set := component.KeySet{}
	for _, k := range ks {
		set.Press(k)
	}
	return set
}

func vecNear(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() < 1e-6
}

func TestAxisFromKeys(t *testing.T) {
	tests := []struct {
		name                      string
		keys                      component.KeySet
		forward, strafe, vertical float64
	}{
		{name: "none", keys: keys()},
		{name: "w", keys: keys(component.KeyW), forward: 1},
		{name: "arrow up", keys: keys(component.KeyArrowUp), forward: 1},
		{name: "opposing cancel", keys: keys(component.KeyW, component.KeyS), forward: 0},
		{name: "w and arrow up count once", keys: keys(component.KeyW, component.KeyArrowUp), forward: 1},
		{name: "strafe left", keys: keys(component.KeyA), strafe: -1},
		{name: "right arrow", keys: keys(component.KeyArrowRight), strafe: 1},
		{name: "up via space", keys: keys(component.KeySpace), vertical: 1},
		{name: "down", keys: keys(component.KeyQ), vertical: -1},
		{name: "diagonal", keys: keys(component.KeyS, component.KeyD, component.KeyE), forward: -1, strafe: 1, vertical: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, s, v := AxisFromKeys(tc.keys, component.DefaultBindings)
			if f != tc.forward || s != tc.strafe || v != tc.vertical {
				t.Fatalf("got (%v,%v,%v), want (%v,%v,%v)", f, s, v, tc.forward, tc.strafe, tc.vertical)
			}
		})
	}
}

func TestIntegrateFlyNoKeysLeavesTransform(t *testing.T) {
	tests := []struct {
		name string
		keys component.KeySet
	}{
		{name: "no keys", keys: keys()},
		{name: "opposing keys cancel", keys: keys(component.KeyW, component.KeyS, component.KeyA, component.KeyD)},
		{name: "opposing vertical cancels", keys: keys(component.KeyE, component.KeyQ)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := &component.Transform{Position: mgl64.Vec3{1, 2, 3}, Yaw: 0.4, Pitch: -0.2}
			before := *tr

			if IntegrateFly(tr, tc.keys, component.DefaultBindings, 5, 1.0/60) {
				t.Fatalf("expected no movement")
			}
			if *tr != before {
				t.Fatalf("transform changed: %+v -> %+v", before, *tr)
			}
		})
	}
}

func TestIntegrateFly(t *testing.T) {
	const speed, dt = 5.0, 0.1
	step := speed * dt

	tests := []struct {
		name  string
		yaw   float64
		pitch float64
		keys  component.KeySet
		want  mgl64.Vec3
	}{
		{name: "forward looks down -z", keys: keys(component.KeyW), want: mgl64.Vec3{0, 0, -step}},
		{name: "pitch does not lift forward", pitch: 0.8, keys: keys(component.KeyW), want: mgl64.Vec3{0, 0, -step}},
		{name: "right is +x", keys: keys(component.KeyD), want: mgl64.Vec3{step, 0, 0}},
		{name: "yawed left", yaw: math.Pi / 2, keys: keys(component.KeyW), want: mgl64.Vec3{-step, 0, 0}},
		{name: "vertical only", keys: keys(component.KeyE), want: mgl64.Vec3{0, step, 0}},
		{name: "vertical is independent of horizontal", keys: keys(component.KeyW, component.KeyQ), want: mgl64.Vec3{0, -step, -step}},
		{name: "looking straight up still moves", pitch: math.Pi / 2, keys: keys(component.KeyW), want: mgl64.Vec3{0, 0, -step}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := &component.Transform{Yaw: tc.yaw, Pitch: tc.pitch}
			if !IntegrateFly(tr, tc.keys, component.DefaultBindings, speed, dt) {
				t.Fatalf("expected movement")
			}
			if !vecNear(tr.Position, tc.want) {
				t.Fatalf("position %v, want %v", tr.Position, tc.want)
			}
		})
	}
}

func TestIntegrateFlyDiagonalIsNotFaster(t *testing.T) {
	const speed, dt = 5.0, 0.1
	for _, yaw := range []float64{0, 0.3, 1.2, -2.5} {
		tr := &component.Transform{Yaw: yaw, Pitch: 0.5}
		IntegrateFly(tr, keys(component.KeyW, component.KeyD), component.DefaultBindings, speed, dt)

		horizontal := mgl64.Vec3{tr.Position.X(), 0, tr.Position.Z()}
		if math.Abs(horizontal.Len()-speed*dt) > testEpsilon {
			t.Fatalf("yaw %v: horizontal distance %v, want %v", yaw, horizontal.Len(), speed*dt)
		}
		if tr.Position.Y() != 0 {
			t.Fatalf("yaw %v: height changed to %v", yaw, tr.Position.Y())
		}
	}
}

func TestFlyMovementSystemUsesControllerSpeed(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	input := component.NewInputState()
	input.Keys.Press(component.KeyW)
	_ = ecs.Add(w, e, component.InputComponent.Kind(), input)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{})
	_ = ecs.Add(w, e, component.FlyControllerComponent.Kind(), &component.FlyController{Speed: 2})

	ecs.NewScheduler(NewFlyMovementSystem()).Update(w, 0.5)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if !vecNear(tr.Position, mgl64.Vec3{0, 0, -1}) {
		t.Fatalf("position %v, want (0,0,-1)", tr.Position)
	}
}

func TestCameraLookClampsPitch(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	input := component.NewInputState()
	input.LookX = 100
	input.LookY = -10000
	_ = ecs.Add(w, e, component.InputComponent.Kind(), input)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{})
	_ = ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{LookSensitivity: 0.01})

	NewCameraLookSystem().Update(w)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if math.Abs(tr.Yaw+1) > testEpsilon {
		t.Fatalf("yaw %v, want -1", tr.Yaw)
	}
	if math.Abs(tr.Pitch-maxPitch) > testEpsilon {
		t.Fatalf("pitch %v, want %v", tr.Pitch, maxPitch)
	}
	if input.LookX != 0 || input.LookY != 0 {
		t.Fatalf("look delta not consumed: %v %v", input.LookX, input.LookY)
	}
}
