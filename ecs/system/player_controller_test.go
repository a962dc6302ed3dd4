package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
	"github.com/milk9111/worldscene/ecs/entity"
	"github.com/milk9111/worldscene/levels"
)

func TestPlayerControllerVelocityCommand(t *testing.T) {
	w := ecs.NewWorld()
	p := addPlayer(t, w, mgl64.Vec3{}, component.JumpFree)
	p.rb.SetLinearVelocity(mgl64.Vec3{9, -3, 9})
	p.input.Keys.Press(component.KeyW)
	p.input.Keys.Press(component.KeyD)

	NewPlayerControllerSystem().Update(w)

	v := p.rb.LinearVelocity()
	if math.Abs(math.Hypot(v.X(), v.Z())-p.pc.MoveSpeed) > 1e-9 {
		t.Fatalf("horizontal speed %v, want %v", math.Hypot(v.X(), v.Z()), p.pc.MoveSpeed)
	}
	if v.X() <= 0 || v.Z() >= 0 {
		t.Fatalf("velocity %v, want forward-right (+x, -z)", v)
	}
	if v.Y() != -3 {
		t.Fatalf("vertical velocity %v, want -3 preserved", v.Y())
	}

	p.input.Keys.Clear()
	NewPlayerControllerSystem().Update(w)
	v = p.rb.LinearVelocity()
	if v.X() != 0 || v.Z() != 0 {
		t.Fatalf("velocity %v, want horizontal stop without keys", v)
	}
}

func TestJumpModes(t *testing.T) {
	type frame struct {
		held     bool
		grounded bool
		wantJump bool
	}
	tests := []struct {
		name   string
		mode   component.JumpMode
		frames []frame
	}{
		{
			name: "free jumps in the air while held",
			mode: component.JumpFree,
			frames: []frame{
				{held: true, wantJump: true},
				{held: true, wantJump: true},
				{held: false, wantJump: false},
			},
		},
		{
			name: "grounded needs ground",
			mode: component.JumpGrounded,
			frames: []frame{
				{held: true, grounded: false, wantJump: false},
			},
		},
		{
			name: "grounded needs a fresh press",
			mode: component.JumpGrounded,
			frames: []frame{
				{held: true, grounded: true, wantJump: true},
				{held: true, grounded: true, wantJump: false},
				{held: false, grounded: true, wantJump: false},
				{held: true, grounded: true, wantJump: true},
			},
		},
		{
			name: "grounded ignores a press held from the air",
			mode: component.JumpGrounded,
			frames: []frame{
				{held: true, grounded: false, wantJump: false},
				{held: true, grounded: true, wantJump: false},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			p := addPlayer(t, w, mgl64.Vec3{}, tc.mode)
			sys := NewPlayerControllerSystem()

			for i, f := range tc.frames {
				p.rb.SetLinearVelocity(mgl64.Vec3{0, -1, 0})
				p.sensor.Grounded = f.grounded
				if f.held {
					p.input.Keys.Press(component.KeySpace)
				} else {
					p.input.Keys.Release(component.KeySpace)
				}

				sys.Update(w)

				jumped := p.rb.LinearVelocity().Y() == p.pc.JumpSpeed
				if jumped != f.wantJump {
					t.Fatalf("frame %d: jumped=%v, want %v", i, jumped, f.wantJump)
				}
			}
		})
	}
}

func TestFallGuard(t *testing.T) {
	tests := []struct {
		name    string
		y       float64
		respawn bool
	}{
		{name: "above threshold", y: -9.5},
		{name: "below threshold", y: -10.5, respawn: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			p := addPlayer(t, w, mgl64.Vec3{}, component.JumpFree)
			start := mgl64.Vec3{3, tc.y, 4}
			p.rb.SetTranslation(start)
			p.rb.SetLinearVelocity(mgl64.Vec3{1, -20, 2})
			p.sensor.Grounded = true

			NewFallGuardSystem().Update(w)

			if !tc.respawn {
				if p.rb.Translation() != start {
					t.Fatalf("moved to %v above the threshold", p.rb.Translation())
				}
				return
			}
			wantCenter := mgl64.Vec3{0.11, 0.9, 7.59}
			if !vecNear(p.rb.Translation(), wantCenter) {
				t.Fatalf("body at %v, want %v", p.rb.Translation(), wantCenter)
			}
			if p.rb.LinearVelocity() != (mgl64.Vec3{}) {
				t.Fatalf("velocity %v, want zero", p.rb.LinearVelocity())
			}
			if !vecNear(p.t.Position, wantCenter.Sub(playerOffset)) {
				t.Fatalf("camera at %v", p.t.Position)
			}
			if p.sensor.Grounded {
				t.Fatalf("sensor still grounded after teleport")
			}
		})
	}
}

func TestFallOffTheWorldRespawnsAndLands(t *testing.T) {
	w := ecs.NewWorld()
	addSolid(t, w, mgl64.Vec3{0, -0.5, 8}, mgl64.Vec3{4, 1, 4})
	p := addPlayer(t, w, mgl64.Vec3{50, 0, 50}, component.JumpFree)

	sched := ecs.NewScheduler(NewPhysicsSystem(), NewFallGuardSystem())
	for i := 0; i < 180; i++ {
		sched.Update(w, frameDT)
	}

	pos := p.rb.Translation()
	if math.Abs(pos.X()-0.11) > 1e-6 || math.Abs(pos.Z()-7.59) > 1e-6 {
		t.Fatalf("body at %v, want back over the spawn", pos)
	}
	if math.Abs(p.rb.Bottom()) > 1e-9 {
		t.Fatalf("bottom %v, want standing on the spawn pad", p.rb.Bottom())
	}
}

func TestWalkingIntoAWallStops(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
	}{
		{name: "stroll", speed: 1},
		{name: "default speed", speed: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			addGround(t, w)
			addSolid(t, w, mgl64.Vec3{10, 1.5, 0}, mgl64.Vec3{0.5, 3, 20})
			p := addPlayer(t, w, mgl64.Vec3{8, 0, 0}, component.JumpFree)
			p.pc.MoveSpeed = tc.speed
			p.t.Yaw = -math.Pi / 2
			p.input.Keys.Press(component.KeyW)

			sched := ecs.NewScheduler(NewPlayerControllerSystem(), NewPhysicsSystem(), NewFallGuardSystem())
			deepest := math.Inf(-1)
			for i := 0; i < 300; i++ {
				sched.Update(w, frameDT)
				deepest = math.Max(deepest, p.rb.Translation().X()+0.3)
			}

			const face = 9.75
			if deepest > face+0.1 {
				t.Fatalf("leading edge reached x=%v, want stopped at the face %v", deepest, face)
			}
			pos := p.rb.Translation()
			if pos.X()+0.3 < face-0.1 {
				t.Fatalf("body at %v, want pressed against the wall", pos)
			}
			if math.Abs(pos.Z()) > 1e-6 || math.Abs(p.rb.Bottom()) > 1e-6 {
				t.Fatalf("body at %v bottom %v, want still on the floor in front of the wall", pos, p.rb.Bottom())
			}
		})
	}
}

func TestPlayerCannotWalkThroughAButton(t *testing.T) {
	w := ecs.NewWorld()
	scene := &levels.Scene{Scale: 1, Entities: []levels.Entity{
		{Prefab: "ground.yaml"},
		{
			Prefab:     "button.yaml",
			Position:   levels.Vec3{0, 1, -2},
			Components: map[string]any{"button": map[string]any{"id": "door"}},
		},
	}}
	handles, err := entity.LoadSceneToWorld(w, scene, entity.SceneOptions{Mode: entity.ModePhysics})
	if err != nil {
		t.Fatalf("load scene: %v", err)
	}
	input, ok := ecs.Get(w, handles.Player, component.InputComponent.Kind())
	if !ok {
		t.Fatalf("player has no input state")
	}
	rb, _ := ecs.Get(w, handles.Player, component.RigidBodyComponent.Kind())
	input.Keys.Press(component.KeyW)

	sched := ecs.NewScheduler(NewPlayerControllerSystem(), NewPhysicsSystem(), NewFallGuardSystem())
	for i := 0; i < 180; i++ {
		sched.Update(w, frameDT)
	}

	// cap spans z in [-2.5, -1.5]
	if front := rb.Translation().Z() - 0.3; front < -1.5-0.1 {
		t.Fatalf("front of the body at z=%v, want stopped by the button cap", front)
	}
}
