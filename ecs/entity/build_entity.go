package entity

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
	"github.com/milk9111/worldscene/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":        addPlayerTag,
	"input":             addInput,
	"transform":         addTransform,
	"camera":            addCamera,
	"fly":               addFly,
	"player_controller": addPlayerController,
	"interactor":        addInteractor,
	"rigid_body":        addRigidBody,
	"ground_sensor":     addGroundSensor,
	"mesh":              addMesh,
	"layers":            addLayers,
	"interactable":      addInteractable,
	"button":            addButton,
	"attachment":        addAttachment,
	"orbit":             addOrbit,
	"surface":           addSurface,
	"light":             addLight,
	"spawn_point":       addSpawnPoint,
	"skybox":            addSkybox,
	"user_hud":          addUserHUD,
	"member_board":      addMemberBoard,
}

// rigid_body reads the transform, button reads interactable.
var componentBuildOrder = []string{
	"player_tag",
	"input",
	"transform",
	"camera",
	"fly",
	"player_controller",
	"interactor",
	"rigid_body",
	"ground_sensor",
	"mesh",
	"layers",
	"interactable",
	"button",
	"attachment",
	"orbit",
	"surface",
	"light",
	"spawn_point",
	"skybox",
	"user_hud",
	"member_board",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	return BuildEntityWith(w, prefabPath, nil)
}

// BuildEntityWith builds a prefab with overrides merged over its component
// blocks, then builds and parents its children.
func BuildEntityWith(w *ecs.World, prefabPath string, overrides map[string]any) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	components := prefabs.MergeComponents(spec.Components, overrides)
	e, err := buildComponents(w, prefabPath, components)
	if err != nil {
		return 0, err
	}

	if err := buildChildren(w, e, prefabPath, spec); err != nil {
		destroyTree(w, e)
		return 0, err
	}

	return e, nil
}

func buildComponents(w *ecs.World, prefabPath string, components map[string]any) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(components))
	for k, v := range components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		builder, ok := componentRegistry[name]
		if !ok {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			builder, ok := componentRegistry[name]
			if !ok {
				ecs.DestroyEntity(w, e)
				return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
			}
			if err := builder(w, e, remaining[name], ctx); err != nil {
				ecs.DestroyEntity(w, e)
				return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
			}
		}
	}

	return e, nil
}

func buildChildren(w *ecs.World, parent ecs.Entity, prefabPath string, spec entityPrefabSpec) error {
	for i, child := range spec.Children {
		if child.Prefab == "" {
			return fmt.Errorf("build entity: %q: child %d has no prefab", prefabPath, i)
		}
		c, err := BuildEntityWith(w, child.Prefab, child.Components)
		if err != nil {
			return fmt.Errorf("build entity: %q: child %q: %w", prefabPath, child.Prefab, err)
		}
		if !ecs.SetParent(w, c, parent) {
			destroyTree(w, c)
			return fmt.Errorf("build entity: %q: parent child %q", prefabPath, child.Prefab)
		}

		att, ok := ecs.Get(w, c, component.AttachmentComponent.Kind())
		if !ok {
			att = &component.Attachment{}
			if err := ecs.Add(w, c, component.AttachmentComponent.Kind(), att); err != nil {
				return err
			}
		}
		att.Offset = child.Offset.Or(att.Offset)
	}
	return nil
}

// destroyTree destroys e and every descendant.
func destroyTree(w *ecs.World, e ecs.Entity) {
	for _, c := range ecs.Children(w, e) {
		destroyTree(w, c)
	}
	ecs.DestroyEntity(w, e)
}

// SetEntityTransform places e at pos facing yaw (radians).
func SetEntityTransform(w *ecs.World, e ecs.Entity, pos mgl64.Vec3, yaw float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.Position = pos
	t.Yaw = yaw
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), component.NewInputState())
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: spec.Position.Vec3,
		Yaw:      mgl64.DegToRad(spec.Yaw),
		Pitch:    mgl64.DegToRad(spec.Pitch),
	})
}

type cameraSpec = prefabs.CameraComponentSpec

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	if spec.FOV == 0 {
		spec.FOV = 75
	}
	if spec.Near == 0 {
		spec.Near = 0.1
	}
	if spec.Far == 0 {
		spec.Far = 1000
	}
	if spec.LookSensitivity == 0 {
		spec.LookSensitivity = 0.0025
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		FOV:             spec.FOV,
		Near:            spec.Near,
		Far:             spec.Far,
		LookSensitivity: spec.LookSensitivity,
	})
}

type flySpec = prefabs.FlyComponentSpec

func addFly(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[flySpec](raw)
	if err != nil {
		return fmt.Errorf("decode fly spec: %w", err)
	}
	if spec.Speed == 0 {
		spec.Speed = 4
	}
	return ecs.Add(w, e, component.FlyControllerComponent.Kind(), &component.FlyController{Speed: spec.Speed})
}

type playerControllerSpec = prefabs.PlayerControllerComponentSpec

func addPlayerController(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerControllerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player controller spec: %w", err)
	}
	mode, err := component.ParseJumpMode(spec.JumpMode)
	if err != nil {
		return err
	}
	fall := -10.0
	if spec.FallThreshold != nil {
		fall = *spec.FallThreshold
	}
	return ecs.Add(w, e, component.PlayerControllerComponent.Kind(), &component.PlayerController{
		MoveSpeed:     spec.MoveSpeed,
		JumpSpeed:     spec.JumpSpeed,
		JumpMode:      mode,
		FallThreshold: fall,
	})
}

type interactorSpec = prefabs.InteractorComponentSpec

func addInteractor(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[interactorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode interactor spec: %w", err)
	}
	reach := 5.0
	if spec.MaxDistance != nil {
		reach = *spec.MaxDistance
	}
	return ecs.Add(w, e, component.InteractorComponent.Kind(), &component.Interactor{MaxDistance: reach})
}

type rigidBodySpec = prefabs.RigidBodyComponentSpec

func addRigidBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[rigidBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode rigid body spec: %w", err)
	}

	rb := &component.RigidBody{
		Collider:     component.ColliderCuboid,
		Size:         spec.Size.Or(mgl64.Vec3{1, 1, 1}),
		Offset:       spec.Offset.Vec3,
		Mass:         spec.Mass,
		Friction:     spec.Friction,
		Restitution:  spec.Restitution,
		GravityScale: 1,
	}
	switch spec.Type {
	case "", "fixed", "static":
		rb.Type = component.BodyFixed
	case "dynamic":
		rb.Type = component.BodyDynamic
	default:
		return fmt.Errorf("unknown body type %q", spec.Type)
	}
	switch c := component.ColliderShape(spec.Collider); c {
	case "":
	case component.ColliderCuboid, component.ColliderHull, component.ColliderBall, component.ColliderCylinder:
		rb.Collider = c
	default:
		return fmt.Errorf("unknown collider %q", spec.Collider)
	}
	if spec.GravityScale != nil {
		rb.GravityScale = *spec.GravityScale
	}
	if rb.Type == component.BodyDynamic && rb.Mass <= 0 {
		rb.Mass = 1
	}

	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		rb.SetTranslation(t.Position.Add(rb.Offset))
	}
	return ecs.Add(w, e, component.RigidBodyComponent.Kind(), rb)
}

type groundSensorSpec = prefabs.GroundSensorComponentSpec

func addGroundSensor(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[groundSensorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ground sensor spec: %w", err)
	}
	if spec.Depth <= 0 {
		spec.Depth = 0.1
	}
	return ecs.Add(w, e, component.GroundSensorComponent.Kind(), &component.GroundSensor{Depth: spec.Depth})
}

type meshSpec = prefabs.MeshComponentSpec

func addMesh(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[meshSpec](raw)
	if err != nil {
		return fmt.Errorf("decode mesh spec: %w", err)
	}
	shape := component.MeshShape(spec.Shape)
	switch shape {
	case "":
		shape = component.MeshBox
	case component.MeshBox, component.MeshPlane, component.MeshCylinder, component.MeshSphere:
	default:
		return fmt.Errorf("unknown mesh shape %q", spec.Shape)
	}
	return ecs.Add(w, e, component.MeshComponent.Kind(), &component.Mesh{
		Shape:  shape,
		Size:   spec.Size.Or(mgl64.Vec3{1, 1, 1}),
		Color:  spec.Color.Or(defaultMeshColor),
		Hidden: spec.Hidden,
	})
}

type layersSpec = prefabs.LayersComponentSpec

func addLayers(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[layersSpec](raw)
	if err != nil {
		return fmt.Errorf("decode layers spec: %w", err)
	}
	mask := component.LayerDefault
	if spec.Interactable {
		mask |= component.LayerInteractable
	}
	return ecs.Add(w, e, component.LayersComponent.Kind(), &component.Layers{Mask: mask})
}

type interactableSpec = prefabs.InteractableComponentSpec

func addInteractable(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[interactableSpec](raw)
	if err != nil {
		return fmt.Errorf("decode interactable spec: %w", err)
	}
	return ecs.Add(w, e, component.InteractableComponent.Kind(), &component.Interactable{
		ID:              spec.ID,
		InteractionText: spec.InteractionText,
	})
}

type buttonSpec = prefabs.ButtonComponentSpec

// addButton also installs the interaction handler; a click queues a press
// that the button system applies on its next update.
func addButton(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[buttonSpec](raw)
	if err != nil {
		return fmt.Errorf("decode button spec: %w", err)
	}
	if spec.ID == "" {
		if it, ok := ecs.Get(w, e, component.InteractableComponent.Kind()); ok {
			spec.ID = it.ID
		}
	}
	if spec.ID == "" {
		return fmt.Errorf("button has no id")
	}
	if spec.PressDuration <= 0 {
		spec.PressDuration = 0.2
	}

	b := &component.Button{
		ID:             spec.ID,
		Label:          spec.Label,
		UseGlobalState: spec.UseGlobalState,
		Script:         spec.Script,
		PressDepth:     spec.PressDepth,
		PressDuration:  spec.PressDuration,
	}
	if err := ecs.Add(w, e, component.ButtonComponent.Kind(), b); err != nil {
		return err
	}
	return ecs.Add(w, e, component.InteractHandlerComponent.Kind(), &component.InteractHandler{
		ID: spec.ID,
		OnInteract: func(string) {
			b.PendingClicks++
		},
	})
}

type attachmentSpec = prefabs.AttachmentComponentSpec

func addAttachment(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[attachmentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode attachment spec: %w", err)
	}
	return ecs.Add(w, e, component.AttachmentComponent.Kind(), &component.Attachment{Offset: spec.Offset.Vec3})
}

type orbitSpec = prefabs.OrbitComponentSpec

func addOrbit(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[orbitSpec](raw)
	if err != nil {
		return fmt.Errorf("decode orbit spec: %w", err)
	}
	return ecs.Add(w, e, component.OrbitComponent.Kind(), &component.Orbit{
		Radius: spec.Radius,
		Speed:  spec.Speed,
		Height: spec.Height,
	})
}

type surfaceSpec = prefabs.SurfaceComponentSpec

func addSurface(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[surfaceSpec](raw)
	if err != nil {
		return fmt.Errorf("decode surface spec: %w", err)
	}
	kind := component.SurfaceKind(spec.Kind)
	switch kind {
	case component.SurfaceMirror, component.SurfaceVideo, component.SurfaceLiveVideo, component.SurfaceScreenShare:
	default:
		return fmt.Errorf("unknown surface kind %q", spec.Kind)
	}
	return ecs.Add(w, e, component.SurfaceComponent.Kind(), &component.Surface{
		Kind:    kind,
		ID:      spec.ID,
		URL:     spec.URL,
		Width:   spec.Width,
		Height:  spec.Height,
		Playing: spec.Playing,
		Volume:  spec.Volume,
	})
}

type lightSpec = prefabs.LightComponentSpec

func addLight(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[lightSpec](raw)
	if err != nil {
		return fmt.Errorf("decode light spec: %w", err)
	}
	kind := component.LightKind(spec.Kind)
	switch kind {
	case component.LightAmbient, component.LightDirectional:
	default:
		return fmt.Errorf("unknown light kind %q", spec.Kind)
	}
	return ecs.Add(w, e, component.LightComponent.Kind(), &component.Light{
		Kind:       kind,
		Intensity:  spec.Intensity,
		Direction:  spec.Direction.Or(mgl64.Vec3{0, -1, 0}),
		Color:      spec.Color.Or(defaultLightColor),
		CastShadow: spec.CastShadow,
	})
}

type spawnPointSpec = prefabs.SpawnPointComponentSpec

func addSpawnPoint(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[spawnPointSpec](raw)
	if err != nil {
		return fmt.Errorf("decode spawn point spec: %w", err)
	}
	return ecs.Add(w, e, component.SpawnPointComponent.Kind(), &component.SpawnPoint{Yaw: spec.Yaw})
}

type skyboxSpec = prefabs.SkyboxComponentSpec

func addSkybox(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[skyboxSpec](raw)
	if err != nil {
		return fmt.Errorf("decode skybox spec: %w", err)
	}
	return ecs.Add(w, e, component.SkyboxComponent.Kind(), &component.Skybox{Radius: spec.Radius})
}

type userHUDSpec = prefabs.UserHUDComponentSpec

func addUserHUD(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[userHUDSpec](raw)
	if err != nil {
		return fmt.Errorf("decode user hud spec: %w", err)
	}
	if spec.Height == 0 {
		spec.Height = 1.5
	}
	if spec.MaxHP <= 0 {
		spec.MaxHP = 100
	}
	return ecs.Add(w, e, component.UserHUDComponent.Kind(), &component.UserHUD{
		Height:  spec.Height,
		MaxHP:   spec.MaxHP,
		Visible: true,
	})
}

type memberBoardSpec = prefabs.MemberBoardComponentSpec

func addMemberBoard(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[memberBoardSpec](raw)
	if err != nil {
		return fmt.Errorf("decode member board spec: %w", err)
	}
	if spec.Title == "" {
		spec.Title = "Members"
	}
	return ecs.Add(w, e, component.MemberBoardComponent.Kind(), &component.MemberBoard{Title: spec.Title})
}
