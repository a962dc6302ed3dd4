package system

import (
	"image/color"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
	"github.com/milk9111/worldscene/prefabs"
	"github.com/milk9111/worldscene/state"
)

var (
	buttonColorIdle   = color.RGBA{R: 0x4a, G: 0x9e, B: 0xff, A: 0xff}
	buttonColorActive = color.RGBA{R: 0x52, G: 0xc4, B: 0x1a, A: 0xff}
	buttonColorBusy   = color.RGBA{R: 0xfa, G: 0xad, B: 0x14, A: 0xff}
)

// ButtonSystem applies queued clicks to interactable buttons. The click
// count lives in the local store, or in the shared store when the button
// uses global state, under the button id. The count is read back every
// frame so changes made by other participants show up.
type ButtonSystem struct {
	local  state.Store
	shared state.Store

	scripts map[ecs.Entity]*buttonScriptRuntime
	failed  map[ecs.Entity]bool
}

func NewButtonSystem(local, shared state.Store) *ButtonSystem {
	return &ButtonSystem{
		local:   local,
		shared:  shared,
		scripts: map[ecs.Entity]*buttonScriptRuntime{},
		failed:  map[ecs.Entity]bool{},
	}
}

func (s *ButtonSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := ecs.Delta(w)

	for e := range s.scripts {
		if !ecs.IsAlive(w, e) {
			delete(s.scripts, e)
			delete(s.failed, e)
		}
	}

	ecs.ForEach2(w, component.ButtonComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, b *component.Button, t *component.Transform) {
		store := s.storeFor(b)
		if store == nil {
			return
		}

		rt := s.runtime(e, b)
		for ; b.PendingClicks > 0; b.PendingClicks-- {
			count := state.Int(store, b.ID)
			next := count + 1
			if rt != nil {
				n, err := rt.Click(count)
				if err != nil {
					s.scriptFailed(e, b, err)
				} else {
					next = n
				}
			}
			store.Set(b.ID, next)
			b.PressRemaining = b.PressDuration
			log.Printf("%s clicked", b.ID)
		}
		b.Count = state.Int(store, b.ID)

		if b.PressRemaining > 0 {
			b.PressRemaining -= dt
			if b.PressRemaining < 0 {
				b.PressRemaining = 0
			}
		}

		var nudge mgl64.Vec3
		if b.PressRemaining > 0 {
			flat := component.Transform{Yaw: t.Yaw}
			nudge = flat.Forward().Mul(b.PressDepth)
		}
		clr := s.style(e, b, rt)

		for _, c := range ecs.Children(w, e) {
			if att, ok := ecs.Get(w, c, component.AttachmentComponent.Kind()); ok {
				att.Nudge = nudge
			}
			if mesh, ok := ecs.Get(w, c, component.MeshComponent.Kind()); ok {
				mesh.Color = clr
			}
		}
	})
}

func (s *ButtonSystem) storeFor(b *component.Button) state.Store {
	if b.UseGlobalState {
		return s.shared
	}
	return s.local
}

func (s *ButtonSystem) runtime(e ecs.Entity, b *component.Button) *buttonScriptRuntime {
	if b.Script == "" || s.failed[e] {
		return nil
	}
	if rt, ok := s.scripts[e]; ok && rt.scriptPath == b.Script {
		return rt
	}
	rt, err := newButtonScriptRuntime(b.Script)
	if err != nil {
		s.scriptFailed(e, b, err)
		return nil
	}
	s.scripts[e] = rt
	return rt
}

// scriptFailed logs a script error once and falls back to the built-in
// click behaviour for that button.
func (s *ButtonSystem) scriptFailed(e ecs.Entity, b *component.Button, err error) {
	if s.failed[e] {
		return
	}
	s.failed[e] = true
	delete(s.scripts, e)
	log.Printf("button: %s script %s error: %v", b.ID, b.Script, err)
}

func (s *ButtonSystem) style(e ecs.Entity, b *component.Button, rt *buttonScriptRuntime) color.RGBA {
	if rt != nil && !s.failed[e] {
		hex, err := rt.Style(b.Count)
		if err == nil {
			var c color.RGBA
			if c, err = prefabs.ParseHexColor(hex); err == nil {
				return c
			}
		}
		s.scriptFailed(e, b, err)
	}
	return ButtonColor(b.Count)
}

// ButtonColor is the cap colour for a click count.
func ButtonColor(count int) color.RGBA {
	switch {
	case count <= 0:
		return buttonColorIdle
	case count < 5:
		return buttonColorActive
	default:
		return buttonColorBusy
	}
}
