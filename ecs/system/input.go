package system

import (
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
)

// InputSource is the window the input system samples each tick.
type InputSource interface {
	JustPressed() []component.Key
	JustReleased() []component.Key
	Clicked() bool
	CursorDelta() (dx, dy float64)
	Focused() bool
	PointerLocked() bool
	SetPointerLocked(locked bool)
}

type InputSystem struct {
	source InputSource
}

func NewInputSystem(source InputSource) *InputSystem {
	return &InputSystem{source: source}
}

// Update applies the tick's key transitions to every InputState before any
// movement system reads it. Held keys are dropped when the window loses focus
// or pointer lock is released, so no key stays stuck down.
func (i *InputSystem) Update(w *ecs.World) {
	if w == nil || i.source == nil {
		return
	}

	src := i.source
	focused := src.Focused()
	if !focused && src.PointerLocked() {
		src.SetPointerLocked(false)
	}

	pressed := src.JustPressed()
	released := src.JustReleased()
	for _, k := range pressed {
		if k == component.KeyEscape && src.PointerLocked() {
			src.SetPointerLocked(false)
		}
	}

	clicked := src.Clicked()
	dx, dy := src.CursorDelta()
	locked := src.PointerLocked()

	engage := false
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.InputState) {
		if input.Keys == nil {
			input.Keys = component.KeySet{}
		}

		if !focused || (input.PointerLocked && !locked) {
			input.Keys.Clear()
		}
		input.PointerLocked = locked

		if focused {
			for _, k := range pressed {
				input.Keys.Press(k)
			}
		}
		for _, k := range released {
			input.Keys.Release(k)
		}

		if clicked {
			if locked {
				input.Clicks++
			} else {
				engage = true
			}
		}

		if locked {
			input.LookX += dx
			input.LookY += dy
		}
	})

	// The click that engages pointer lock is not an interaction.
	if engage && focused {
		src.SetPointerLocked(true)
	}
}
