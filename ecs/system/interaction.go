package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
)

// RaycastHit is the nearest interactable under the crosshair.
type RaycastHit struct {
	Entity   ecs.Entity
	Distance float64
	Point    mgl64.Vec3
}

// CastInteractable returns the nearest entity on the interactable layer hit
// by the ray. maxDistance <= 0 means unbounded. When two entities are hit at
// exactly the same distance the first one tested wins.
func CastInteractable(w *ecs.World, origin, dir mgl64.Vec3, maxDistance float64) (RaycastHit, bool) {
	var best RaycastHit
	found := false
	if w == nil || dir.Len() == 0 {
		return best, false
	}
	dir = dir.Normalize()

	ecs.ForEach3(w, component.LayersComponent.Kind(), component.TransformComponent.Kind(), component.MeshComponent.Kind(), func(e ecs.Entity, layers *component.Layers, t *component.Transform, mesh *component.Mesh) {
		if !layers.Has(component.LayerInteractable) {
			return
		}
		min, max := mesh.Bounds(t)
		dist, ok := rayAABBHit(origin, dir, min, max)
		if !ok {
			return
		}
		if maxDistance > 0 && dist > maxDistance {
			return
		}
		if found && dist >= best.Distance {
			return
		}
		best = RaycastHit{Entity: e, Distance: dist, Point: origin.Add(dir.Mul(dist))}
		found = true
	})

	return best, found
}

// FindInteractHandler walks from e up its parent chain and returns the first
// interaction handler with a callback. Handlers without one are passed over.
func FindInteractHandler(w *ecs.World, e ecs.Entity) (*component.InteractHandler, ecs.Entity, bool) {
	for cur, ok := e, ecs.IsAlive(w, e); ok; cur, ok = ecs.Parent(w, cur) {
		if h, found := ecs.Get(w, cur, component.InteractHandlerComponent.Kind()); found && h.OnInteract != nil {
			return h, cur, true
		}
	}
	return nil, 0, false
}

// InteractionText returns the prompt of the nearest Interactable on e's
// parent chain.
func InteractionText(w *ecs.World, e ecs.Entity) string {
	for cur, ok := e, ecs.IsAlive(w, e); ok; cur, ok = ecs.Parent(w, cur) {
		if it, found := ecs.Get(w, cur, component.InteractableComponent.Kind()); found {
			return it.InteractionText
		}
	}
	return ""
}

// InteractionRaycastSystem casts the center-screen ray once per frame from
// the interactor's camera. OnHoverChanged fires only when the ray goes from
// hitting nothing to hitting something or back.
type InteractionRaycastSystem struct {
	OnHoverChanged func(hovering bool)

	current RaycastHit
	hasHit  bool
}

func NewInteractionRaycastSystem(onHoverChanged func(bool)) *InteractionRaycastSystem {
	return &InteractionRaycastSystem{OnHoverChanged: onHoverChanged}
}

func (s *InteractionRaycastSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	hit, ok := RaycastHit{}, false
	if e, found := ecs.First(w, component.InteractorComponent.Kind()); found {
		interactor, _ := ecs.Get(w, e, component.InteractorComponent.Kind())
		if t, tok := ecs.Get(w, e, component.TransformComponent.Kind()); tok {
			hit, ok = CastInteractable(w, t.Position, t.Forward(), interactor.MaxDistance)
		}
	}

	changed := ok != s.hasHit
	s.current, s.hasHit = hit, ok
	if changed && s.OnHoverChanged != nil {
		s.OnHoverChanged(ok)
	}
}

// Current returns this frame's hit.
func (s *InteractionRaycastSystem) Current() (RaycastHit, bool) {
	return s.current, s.hasHit
}

func (s *InteractionRaycastSystem) Hovering() bool {
	return s.hasHit
}

// Interact invokes the handler owning the current hit and queues an
// InteractEvent. It reports whether a handler ran.
func (s *InteractionRaycastSystem) Interact(w *ecs.World) bool {
	if !s.hasHit {
		return false
	}
	h, owner, ok := FindInteractHandler(w, s.current.Entity)
	if !ok {
		return false
	}
	h.OnInteract(h.ID)
	w.Events().Push(ecs.Event{Type: ecs.EventTypeInteract, Data: ecs.InteractEvent{Target: s.current.Entity, Owner: owner, HandlerID: h.ID}})
	return true
}

// InteractSystem spends the clicks the input system counted since the last
// frame on the raycaster's current hit.
type InteractSystem struct {
	raycast *InteractionRaycastSystem
}

func NewInteractSystem(raycast *InteractionRaycastSystem) *InteractSystem {
	return &InteractSystem{raycast: raycast}
}

func (s *InteractSystem) Update(w *ecs.World) {
	if w == nil || s.raycast == nil {
		return
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.InputState) {
		clicks := input.Clicks
		input.Clicks = 0
		for i := 0; i < clicks; i++ {
			s.raycast.Interact(w)
		}
	})
}
