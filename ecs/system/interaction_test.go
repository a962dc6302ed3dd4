package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
)

func addTarget(t *testing.T, w *ecs.World, pos mgl64.Vec3, layer component.Layer) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	if err := ecs.Add(w, e, component.MeshComponent.Kind(), &component.Mesh{Shape: component.MeshBox, Size: mgl64.Vec3{1, 1, 1}}); err != nil {
		t.Fatalf("add mesh: %v", err)
	}
	if err := ecs.Add(w, e, component.LayersComponent.Kind(), &component.Layers{Mask: layer}); err != nil {
		t.Fatalf("add layers: %v", err)
	}
	return e
}

func addViewer(t *testing.T, w *ecs.World, pos mgl64.Vec3, yaw, reach float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Yaw: yaw}); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	if err := ecs.Add(w, e, component.InteractorComponent.Kind(), &component.Interactor{MaxDistance: reach}); err != nil {
		t.Fatalf("add interactor: %v", err)
	}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), component.NewInputState()); err != nil {
		t.Fatalf("add input: %v", err)
	}
	return e
}

func TestRayAABBHit(t *testing.T) {
	min, max := mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1}
	tests := []struct {
		name   string
		origin mgl64.Vec3
		dir    mgl64.Vec3
		hit    bool
		dist   float64
	}{
		{name: "straight on", origin: mgl64.Vec3{0, 0, 5}, dir: mgl64.Vec3{0, 0, -1}, hit: true, dist: 4},
		{name: "pointing away", origin: mgl64.Vec3{0, 0, 5}, dir: mgl64.Vec3{0, 0, 1}},
		{name: "parallel outside", origin: mgl64.Vec3{2, 0, 5}, dir: mgl64.Vec3{0, 0, -1}},
		{name: "inside starts at zero", origin: mgl64.Vec3{0, 0, 0}, dir: mgl64.Vec3{1, 0, 0}, hit: true, dist: 0},
		{name: "diagonal", origin: mgl64.Vec3{3, 0, 3}, dir: mgl64.Vec3{-1, 0, -1}.Normalize(), hit: true, dist: 2 * math.Sqrt2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist, ok := rayAABBHit(tc.origin, tc.dir, min, max)
			if ok != tc.hit {
				t.Fatalf("hit %v, want %v", ok, tc.hit)
			}
			if ok && math.Abs(dist-tc.dist) > 1e-9 {
				t.Fatalf("distance %v, want %v", dist, tc.dist)
			}
		})
	}
}

func TestCastInteractable(t *testing.T) {
	origin := mgl64.Vec3{}
	forward := mgl64.Vec3{0, 0, -1}

	t.Run("nearest wins", func(t *testing.T) {
		w := ecs.NewWorld()
		far := addTarget(t, w, mgl64.Vec3{0, 0, -6}, component.LayerInteractable)
		near := addTarget(t, w, mgl64.Vec3{0, 0, -3}, component.LayerInteractable)
		hit, ok := CastInteractable(w, origin, forward, 0)
		if !ok || hit.Entity != near {
			t.Fatalf("hit %v (ok=%v), want %v not %v", hit.Entity, ok, near, far)
		}
		if math.Abs(hit.Distance-2.5) > 1e-9 {
			t.Fatalf("distance %v, want 2.5", hit.Distance)
		}
		if !vecNear(hit.Point, mgl64.Vec3{0, 0, -2.5}) {
			t.Fatalf("point %v", hit.Point)
		}
	})

	t.Run("tie keeps first tested", func(t *testing.T) {
		w := ecs.NewWorld()
		first := addTarget(t, w, mgl64.Vec3{0, 0, -3}, component.LayerInteractable)
		addTarget(t, w, mgl64.Vec3{0, 0, -3}, component.LayerInteractable)
		hit, ok := CastInteractable(w, origin, forward, 0)
		if !ok || hit.Entity != first {
			t.Fatalf("hit %v, want %v", hit.Entity, first)
		}
	})

	t.Run("other layers are ignored", func(t *testing.T) {
		w := ecs.NewWorld()
		addTarget(t, w, mgl64.Vec3{0, 0, -2}, component.LayerDefault)
		want := addTarget(t, w, mgl64.Vec3{0, 0, -4}, component.LayerInteractable)
		hit, ok := CastInteractable(w, origin, forward, 0)
		if !ok || hit.Entity != want {
			t.Fatalf("hit %v, want %v", hit.Entity, want)
		}
	})

	t.Run("reach limit", func(t *testing.T) {
		w := ecs.NewWorld()
		addTarget(t, w, mgl64.Vec3{0, 0, -8}, component.LayerInteractable)
		if _, ok := CastInteractable(w, origin, forward, 5); ok {
			t.Fatalf("expected no hit beyond reach")
		}
		if _, ok := CastInteractable(w, origin, forward, 0); !ok {
			t.Fatalf("expected unbounded reach to hit")
		}
	})

	t.Run("miss", func(t *testing.T) {
		w := ecs.NewWorld()
		addTarget(t, w, mgl64.Vec3{0, 0, 3}, component.LayerInteractable)
		if _, ok := CastInteractable(w, origin, forward, 0); ok {
			t.Fatalf("expected miss behind the camera")
		}
	})
}

func TestHoverNotifiesOnlyOnChange(t *testing.T) {
	w := ecs.NewWorld()
	viewer := addViewer(t, w, mgl64.Vec3{}, 0, 5)
	target := addTarget(t, w, mgl64.Vec3{0, 0, -3}, component.LayerInteractable)

	var got []bool
	rs := NewInteractionRaycastSystem(func(h bool) { got = append(got, h) })

	vt, _ := ecs.Get(w, viewer, component.TransformComponent.Kind())
	frames := []struct {
		yaw  float64
		want []bool
	}{
		{yaw: 0, want: []bool{true}},
		{yaw: 0, want: []bool{true}},
		{yaw: math.Pi, want: []bool{true, false}},
		{yaw: math.Pi, want: []bool{true, false}},
		{yaw: 0, want: []bool{true, false, true}},
	}
	for i, f := range frames {
		vt.Yaw = f.yaw
		rs.Update(w)
		if len(got) != len(f.want) {
			t.Fatalf("frame %d: notifications %v, want %v", i, got, f.want)
		}
		for j := range got {
			if got[j] != f.want[j] {
				t.Fatalf("frame %d: notifications %v, want %v", i, got, f.want)
			}
		}
	}

	hit, ok := rs.Current()
	if !ok || hit.Entity != target || !rs.Hovering() {
		t.Fatalf("current %v (ok=%v), want %v", hit.Entity, ok, target)
	}
}

func TestHoverIgnoresTargetSwitch(t *testing.T) {
	w := ecs.NewWorld()
	viewer := addViewer(t, w, mgl64.Vec3{}, 0, 5)
	front := addTarget(t, w, mgl64.Vec3{0, 0, -3}, component.LayerInteractable)
	back := addTarget(t, w, mgl64.Vec3{0, 0, 3}, component.LayerInteractable)

	calls := 0
	rs := NewInteractionRaycastSystem(func(bool) { calls++ })
	vt, _ := ecs.Get(w, viewer, component.TransformComponent.Kind())

	rs.Update(w)
	vt.Yaw = math.Pi
	rs.Update(w)

	if calls != 1 {
		t.Fatalf("hover fired %d times, want 1", calls)
	}
	hit, ok := rs.Current()
	if !ok || hit.Entity != back || hit.Entity == front {
		t.Fatalf("current %v, want %v", hit.Entity, back)
	}
}

func TestHoverStartsWithoutHit(t *testing.T) {
	w := ecs.NewWorld()
	addViewer(t, w, mgl64.Vec3{}, 0, 5)
	calls := 0
	rs := NewInteractionRaycastSystem(func(bool) { calls++ })
	rs.Update(w)
	rs.Update(w)
	if calls != 0 {
		t.Fatalf("hover fired %d times with nothing in view", calls)
	}
}

func TestInteractWalksAncestors(t *testing.T) {
	tests := []struct {
		name        string
		rootHandler bool
		midHandler  bool
		midInert    bool
		leafHandler bool
		want        string
	}{
		{name: "root handler", rootHandler: true, want: "root"},
		{name: "nearest ancestor wins", rootHandler: true, midHandler: true, want: "mid"},
		{name: "handler on the hit entity wins", rootHandler: true, midHandler: true, leafHandler: true, want: "leaf"},
		{name: "handler without callback is passed over", rootHandler: true, midInert: true, want: "root"},
		{name: "only a handler without callback", midInert: true, want: ""},
		{name: "no handler is a no-op", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			addViewer(t, w, mgl64.Vec3{}, 0, 5)
			root := ecs.CreateEntity(w)
			mid := ecs.CreateEntity(w)
			leaf := addTarget(t, w, mgl64.Vec3{0, 0, -2}, component.LayerInteractable)
			ecs.SetParent(w, mid, root)
			ecs.SetParent(w, leaf, mid)

			var got []string
			record := func(id string) { got = append(got, id) }
			if tc.rootHandler {
				_ = ecs.Add(w, root, component.InteractHandlerComponent.Kind(), &component.InteractHandler{ID: "root", OnInteract: record})
			}
			if tc.midHandler {
				_ = ecs.Add(w, mid, component.InteractHandlerComponent.Kind(), &component.InteractHandler{ID: "mid", OnInteract: record})
			}
			if tc.midInert {
				_ = ecs.Add(w, mid, component.InteractHandlerComponent.Kind(), &component.InteractHandler{ID: "inert"})
			}
			if tc.leafHandler {
				_ = ecs.Add(w, leaf, component.InteractHandlerComponent.Kind(), &component.InteractHandler{ID: "leaf", OnInteract: record})
			}

			rs := NewInteractionRaycastSystem(nil)
			rs.Update(w)
			ran := rs.Interact(w)

			if tc.want == "" {
				if ran || len(got) != 0 {
					t.Fatalf("expected no handler call, got %v", got)
				}
				return
			}
			if !ran || len(got) != 1 || got[0] != tc.want {
				t.Fatalf("handler calls %v, want [%s]", got, tc.want)
			}
		})
	}
}

func TestInteractWithoutHitDoesNothing(t *testing.T) {
	w := ecs.NewWorld()
	addViewer(t, w, mgl64.Vec3{}, 0, 5)
	rs := NewInteractionRaycastSystem(nil)
	rs.Update(w)
	if rs.Interact(w) {
		t.Fatalf("interact reported a handler without a hit")
	}
}

func TestInteractSystemSpendsClicks(t *testing.T) {
	w := ecs.NewWorld()
	viewer := addViewer(t, w, mgl64.Vec3{}, 0, 5)
	target := addTarget(t, w, mgl64.Vec3{0, 0, -2}, component.LayerInteractable)
	calls := 0
	_ = ecs.Add(w, target, component.InteractHandlerComponent.Kind(), &component.InteractHandler{ID: "t", OnInteract: func(string) { calls++ }})

	input, _ := ecs.Get(w, viewer, component.InputComponent.Kind())
	input.Clicks = 2

	rs := NewInteractionRaycastSystem(nil)
	ecs.NewScheduler(rs, NewInteractSystem(rs)).Update(w, 1.0/60)

	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
	if input.Clicks != 0 {
		t.Fatalf("clicks not consumed: %d", input.Clicks)
	}

	events := w.Events().Drain()
	if len(events) != 2 {
		t.Fatalf("queued %d events, want 2", len(events))
	}
	ev, ok := events[0].Data.(ecs.InteractEvent)
	if !ok || ev.Target != target || ev.Owner != target || ev.HandlerID != "t" {
		t.Fatalf("event %+v", events[0].Data)
	}
}

func TestInteractionTextWalksParents(t *testing.T) {
	w := ecs.NewWorld()
	root := ecs.CreateEntity(w)
	_ = ecs.Add(w, root, component.InteractableComponent.Kind(), &component.Interactable{ID: "b", InteractionText: "Press"})
	leaf := ecs.CreateEntity(w)
	ecs.SetParent(w, leaf, root)

	if got := InteractionText(w, leaf); got != "Press" {
		t.Fatalf("text %q, want Press", got)
	}
	if got := InteractionText(w, ecs.CreateEntity(w)); got != "" {
		t.Fatalf("text %q, want empty", got)
	}
}
