package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/worldscene/ecs/component"
	"github.com/milk9111/worldscene/ecs/system"
)

var ebitenKeys = map[ebiten.Key]component.Key{
	ebiten.KeyW:          component.KeyW,
	ebiten.KeyA:          component.KeyA,
	ebiten.KeyS:          component.KeyS,
	ebiten.KeyD:          component.KeyD,
	ebiten.KeyQ:          component.KeyQ,
	ebiten.KeyE:          component.KeyE,
	ebiten.KeySpace:      component.KeySpace,
	ebiten.KeyArrowUp:    component.KeyArrowUp,
	ebiten.KeyArrowDown:  component.KeyArrowDown,
	ebiten.KeyArrowLeft:  component.KeyArrowLeft,
	ebiten.KeyArrowRight: component.KeyArrowRight,
	ebiten.KeyEscape:     component.KeyEscape,
}

var _ system.InputSource = (*EbitenInput)(nil)

// EbitenInput reads the ebiten window.
type EbitenInput struct {
	keys      []ebiten.Key
	lastX     int
	lastY     int
	hasCursor bool
}

func NewEbitenInput() *EbitenInput {
	return &EbitenInput{}
}

func (e *EbitenInput) JustPressed() []component.Key {
	e.keys = inpututil.AppendJustPressedKeys(e.keys[:0])
	return mapKeys(e.keys)
}

func (e *EbitenInput) JustReleased() []component.Key {
	e.keys = inpututil.AppendJustReleasedKeys(e.keys[:0])
	return mapKeys(e.keys)
}

func (e *EbitenInput) Clicked() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func (e *EbitenInput) CursorDelta() (float64, float64) {
	x, y := ebiten.CursorPosition()
	if !e.hasCursor {
		e.lastX, e.lastY, e.hasCursor = x, y, true
		return 0, 0
	}
	dx, dy := x-e.lastX, y-e.lastY
	e.lastX, e.lastY = x, y
	return float64(dx), float64(dy)
}

func (e *EbitenInput) Focused() bool {
	return ebiten.IsFocused()
}

func (e *EbitenInput) PointerLocked() bool {
	return ebiten.CursorMode() == ebiten.CursorModeCaptured
}

func (e *EbitenInput) SetPointerLocked(locked bool) {
	if locked {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
	e.hasCursor = false
}

func mapKeys(keys []ebiten.Key) []component.Key {
	if len(keys) == 0 {
		return nil
	}
	out := make([]component.Key, 0, len(keys))
	for _, k := range keys {
		if mapped, ok := ebitenKeys[k]; ok {
			out = append(out, mapped)
		}
	}
	return out
}
