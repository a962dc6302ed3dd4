package entity

import (
	"fmt"

	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
)

// NewPlayer builds the local player and strips the controller that does not
// belong to opts.Mode. In physics mode the body is placed on the spawn point.
func NewPlayer(w *ecs.World, spawn *SceneHandles, opts SceneOptions) (ecs.Entity, error) {
	player, err := BuildEntity(w, "player.yaml")
	if err != nil {
		return 0, err
	}

	switch opts.Mode {
	case ModePhysics:
		ecs.Remove(w, player, component.FlyControllerComponent.Kind())
		pc, ok := ecs.Get(w, player, component.PlayerControllerComponent.Kind())
		if !ok {
			return 0, fmt.Errorf("player: physics mode needs a player_controller")
		}
		rb, ok := ecs.Get(w, player, component.RigidBodyComponent.Kind())
		if !ok {
			return 0, fmt.Errorf("player: physics mode needs a rigid_body")
		}
		if opts.JumpMode != nil {
			pc.JumpMode = *opts.JumpMode
		}
		if spawn != nil {
			pc.Spawn = spawn.Spawn
			pc.SpawnYaw = spawn.SpawnYaw
		}
		center := pc.SpawnCenter(rb)
		rb.Teleport(center)
		if err := SetEntityTransform(w, player, center.Sub(rb.Offset), pc.SpawnYaw); err != nil {
			return 0, fmt.Errorf("player: override transform: %w", err)
		}
	default:
		ecs.Remove(w, player, component.PlayerControllerComponent.Kind())
		ecs.Remove(w, player, component.RigidBodyComponent.Kind())
		ecs.Remove(w, player, component.GroundSensorComponent.Kind())
	}

	return player, nil
}
