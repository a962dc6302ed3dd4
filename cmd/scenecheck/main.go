// Command scenecheck builds a scene headlessly and reports what it contains.
// With -frames it also steps physics so a broken floor or spawn shows up as a
// player that never lands.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
	"github.com/milk9111/worldscene/ecs/entity"
	"github.com/milk9111/worldscene/ecs/system"
	"github.com/milk9111/worldscene/levels"
)

func main() {
	sceneName := flag.String("scene", "world", "scene name in levels/")
	modeName := flag.String("mode", "physics", "control mode: fly or physics")
	frames := flag.Int("frames", 120, "physics frames to simulate (0 to skip)")
	flag.Parse()

	mode, err := entity.ParseControlMode(*modeName)
	if err != nil {
		log.Fatal(err)
	}

	name := *sceneName
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	scene, err := levels.LoadSceneFromFS(name)
	if err != nil {
		log.Fatal(err)
	}

	w := ecs.NewWorld()
	handles, err := entity.LoadSceneToWorld(w, scene, entity.SceneOptions{Mode: mode})
	if err != nil {
		log.Fatal(err)
	}

	report := summarize(w)
	fmt.Printf("scene %s: %d entities\n", name, len(ecs.Entities(w)))
	keys := make([]string, 0, len(report))
	for k := range report {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-14s %d\n", k, report[k])
	}
	fmt.Printf("spawn %.2f %.2f %.2f yaw %.1f\n", handles.Spawn.X(), handles.Spawn.Y(), handles.Spawn.Z(), handles.SpawnYaw)

	if mode != entity.ModePhysics || *frames <= 0 {
		return
	}

	scheduler := ecs.NewScheduler(
		system.NewPlayerControllerSystem(),
		system.NewPhysicsSystem(),
		system.NewFallGuardSystem(),
	)
	landed := false
	for i := 0; i < *frames; i++ {
		scheduler.Update(w, 1.0/60.0)
		for _, ev := range w.Events().Drain() {
			if ce, ok := ev.Data.(ecs.CollisionEvent); ok && ce.Entity == handles.Player && ce.Kind == ecs.CollisionEventGrounded {
				landed = true
			}
		}
	}

	rb, ok := ecs.Get(w, handles.Player, component.RigidBodyComponent.Kind())
	if !ok {
		log.Fatal("scenecheck: player has no rigid body")
	}
	pos := rb.Translation()
	fmt.Printf("player after %d frames: %.2f %.2f %.2f landed=%t\n", *frames, pos.X(), pos.Y(), pos.Z(), landed)
	if !landed {
		os.Exit(1)
	}
}

func summarize(w *ecs.World) map[string]int {
	out := map[string]int{}
	ecs.ForEach(w, component.MeshComponent.Kind(), func(ecs.Entity, *component.Mesh) { out["meshes"]++ })
	ecs.ForEach(w, component.RigidBodyComponent.Kind(), func(_ ecs.Entity, rb *component.RigidBody) {
		if rb.Type == component.BodyDynamic {
			out["dynamic"]++
			return
		}
		out["colliders"]++
	})
	ecs.ForEach(w, component.ButtonComponent.Kind(), func(ecs.Entity, *component.Button) { out["buttons"]++ })
	ecs.ForEach(w, component.SurfaceComponent.Kind(), func(ecs.Entity, *component.Surface) { out["surfaces"]++ })
	ecs.ForEach(w, component.LightComponent.Kind(), func(ecs.Entity, *component.Light) { out["lights"]++ })
	ecs.ForEach(w, component.LayersComponent.Kind(), func(_ ecs.Entity, l *component.Layers) {
		if l.Has(component.LayerInteractable) {
			out["interactable"]++
		}
	})
	return out
}
