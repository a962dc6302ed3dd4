package system

import (
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
)

// AttachmentSystem keeps attached children at their offset from the parent.
// Children follow the parent's yaw; the offset itself is not rotated.
type AttachmentSystem struct{}

func NewAttachmentSystem() *AttachmentSystem { return &AttachmentSystem{} }

func (s *AttachmentSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.AttachmentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, att *component.Attachment, t *component.Transform) {
		parent, ok := ecs.Parent(w, e)
		if !ok {
			return
		}
		pt, ok := ecs.Get(w, parent, component.TransformComponent.Kind())
		if !ok {
			return
		}
		t.Position = pt.Position.Add(att.Offset).Add(att.Nudge)
		t.Yaw = pt.Yaw
	})
}
