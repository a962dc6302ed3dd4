package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
)

// OrbitSystem circles orbiting props around the point they were placed at,
// Height above it, and turns them to face along the path.
type OrbitSystem struct{}

func NewOrbitSystem() *OrbitSystem { return &OrbitSystem{} }

func (s *OrbitSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := ecs.Delta(w)

	ecs.ForEach2(w, component.OrbitComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, o *component.Orbit, t *component.Transform) {
		if !o.Initialized {
			o.Center = t.Position
			o.Initialized = true
		}

		o.Angle = math.Mod(o.Angle+o.Speed*dt, 2*math.Pi)
		t.Position = o.Center.Add(mgl64.Vec3{
			math.Cos(o.Angle) * o.Radius,
			o.Height,
			math.Sin(o.Angle) * o.Radius,
		})
		t.Yaw = -o.Angle
	})
}
