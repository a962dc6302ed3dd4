package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/common"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
)

var maxPitch = mgl64.DegToRad(89)

// CameraLookSystem turns accumulated pointer motion into yaw and pitch.
type CameraLookSystem struct{}

func NewCameraLookSystem() *CameraLookSystem {
	return &CameraLookSystem{}
}

func (s *CameraLookSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w, component.InputComponent.Kind(), component.TransformComponent.Kind(), component.CameraComponent.Kind(), func(_ ecs.Entity, input *component.InputState, t *component.Transform, cam *component.Camera) {
		if input.LookX == 0 && input.LookY == 0 {
			return
		}
		t.Yaw -= input.LookX * cam.LookSensitivity
		t.Pitch = common.Clamp(t.Pitch-input.LookY*cam.LookSensitivity, -maxPitch, maxPitch)
		input.LookX, input.LookY = 0, 0
	})
}
