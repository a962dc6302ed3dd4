package system

import (
	"log"

	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
)

// FallGuardSystem returns players that fell out of the world to their spawn.
// It runs after the PhysicsSystem so the next step starts from the spawn
// with no velocity.
type FallGuardSystem struct{}

func NewFallGuardSystem() *FallGuardSystem { return &FallGuardSystem{} }

func (s *FallGuardSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w, component.PlayerControllerComponent.Kind(), component.RigidBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pc *component.PlayerController, rb *component.RigidBody, t *component.Transform) {
		if rb.Translation().Y() >= pc.FallThreshold {
			return
		}

		spawn := pc.SpawnCenter(rb)
		rb.Teleport(spawn)
		t.Position = spawn.Sub(rb.Offset)
		if sensor, ok := ecs.Get(w, e, component.GroundSensorComponent.Kind()); ok {
			sensor.Grounded = false
		}
		log.Printf("respawn: %s fell below %.1f, back to spawn", e, pc.FallThreshold)
	})
}
