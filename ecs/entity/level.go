package entity

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
	"github.com/milk9111/worldscene/levels"
)

var (
	defaultMeshColor  = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	defaultLightColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// ControlMode selects how the local player moves.
type ControlMode string

const (
	// ModeFly moves the camera directly with no collision.
	ModeFly ControlMode = "fly"
	// ModePhysics drives a dynamic body through velocity commands.
	ModePhysics ControlMode = "physics"
)

func ParseControlMode(s string) (ControlMode, error) {
	switch ControlMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFly:
		return ModeFly, nil
	case ModePhysics:
		return ModePhysics, nil
	default:
		return ModeFly, fmt.Errorf("unknown control mode %q", s)
	}
}

type SceneOptions struct {
	Mode ControlMode
	// JumpMode overrides the player prefab when non-nil.
	JumpMode *component.JumpMode
}

// SceneHandles are the entities the game loop needs after a load.
type SceneHandles struct {
	Player   ecs.Entity
	Spawn    mgl64.Vec3
	SpawnYaw float64 // radians
}

// LoadSceneToWorld builds every placed prefab in scene, then the local player.
func LoadSceneToWorld(w *ecs.World, scene *levels.Scene, opts SceneOptions) (*SceneHandles, error) {
	if w == nil || scene == nil {
		return nil, fmt.Errorf("scene: world and scene are required")
	}

	scale := scene.Scale
	if scale == 0 {
		scale = 1
	}
	origin := mgl64.Vec3(scene.Position)

	handles := &SceneHandles{Spawn: origin}
	for i, placed := range scene.Entities {
		e, err := BuildEntityWith(w, placed.Prefab, placed.Components)
		if err != nil {
			return nil, fmt.Errorf("scene: entity %d (%s): %w", i, placed.Name, err)
		}

		pos := origin.Add(mgl64.Vec3(placed.Position).Mul(scale))
		yaw := mgl64.DegToRad(placed.Yaw)
		scaleTree(w, e, scale)
		placeTree(w, e, pos, yaw)

		if sp, ok := ecs.Get(w, e, component.SpawnPointComponent.Kind()); ok {
			handles.Spawn = pos
			handles.SpawnYaw = mgl64.DegToRad(sp.Yaw)
		}
	}

	player, err := NewPlayer(w, handles, opts)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	handles.Player = player

	return handles, nil
}

// placeTree moves e to pos and lays out its attached children.
func placeTree(w *ecs.World, e ecs.Entity, pos mgl64.Vec3, yaw float64) {
	if _, ok := ecs.Get(w, e, component.TransformComponent.Kind()); !ok {
		return
	}
	_ = SetEntityTransform(w, e, pos, yaw)
	if rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind()); ok {
		rb.SetTranslation(pos.Add(rb.Offset))
	}
	for _, c := range ecs.Children(w, e) {
		offset := mgl64.Vec3{}
		if att, ok := ecs.Get(w, c, component.AttachmentComponent.Kind()); ok {
			offset = att.Offset.Add(att.Nudge)
		}
		placeTree(w, c, pos.Add(offset), yaw)
	}
}

// scaleTree applies the scene scale to sizes and offsets of e and its
// children.
func scaleTree(w *ecs.World, e ecs.Entity, scale float64) {
	if scale == 1 {
		return
	}
	if m, ok := ecs.Get(w, e, component.MeshComponent.Kind()); ok {
		m.Size = m.Size.Mul(scale)
	}
	if rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind()); ok {
		rb.Size = rb.Size.Mul(scale)
		rb.Offset = rb.Offset.Mul(scale)
	}
	if o, ok := ecs.Get(w, e, component.OrbitComponent.Kind()); ok {
		o.Radius *= scale
		o.Height *= scale
	}
	if s, ok := ecs.Get(w, e, component.SurfaceComponent.Kind()); ok {
		s.Width *= scale
		s.Height *= scale
	}
	if att, ok := ecs.Get(w, e, component.AttachmentComponent.Kind()); ok {
		att.Offset = att.Offset.Mul(scale)
	}
	if b, ok := ecs.Get(w, e, component.ButtonComponent.Kind()); ok {
		b.PressDepth *= scale
	}
	for _, c := range ecs.Children(w, e) {
		scaleTree(w, c, scale)
	}
}
