package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
)

// View projects world points onto the screen for one frame.
type View struct {
	Eye     mgl64.Vec3
	Forward mgl64.Vec3
	Width   float64
	Height  float64
	Near    float64

	focal float64
	view  mgl64.Mat4
	proj  mgl64.Mat4
}

// NewView builds the view for a camera at t looking along t.Forward().
func NewView(t *component.Transform, cam *component.Camera, width, height int) View {
	fov, near, far := 75.0, 0.1, 1000.0
	if cam != nil {
		if cam.FOV > 0 {
			fov = cam.FOV
		}
		if cam.Near > 0 {
			near = cam.Near
		}
		if cam.Far > near {
			far = cam.Far
		}
	}
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	forward := t.Forward()
	aspect := float64(width) / float64(height)
	return View{
		Eye:     t.Position,
		Forward: forward,
		Width:   float64(width),
		Height:  float64(height),
		Near:    near,
		focal:   float64(height) / 2 / math.Tan(mgl64.DegToRad(fov)/2),
		view:    mgl64.LookAtV(t.Position, t.Position.Add(forward), component.WorldUp),
		proj:    mgl64.Perspective(mgl64.DegToRad(fov), aspect, near, far),
	}
}

// ViewFromWorld finds the first camera entity and builds its view.
func ViewFromWorld(w *ecs.World, width, height int) (View, bool) {
	e, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return View{}, false
	}
	cam, _ := ecs.Get(w, e, component.CameraComponent.Kind())
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return View{}, false
	}
	return NewView(t, cam, width, height), true
}

// Depth is the distance of p in front of the camera plane.
func (v View) Depth(p mgl64.Vec3) float64 {
	return -v.view.Mul4x1(p.Vec4(1)).Z()
}

// PixelsPerMeter is the on-screen size of one metre at p's depth.
func (v View) PixelsPerMeter(p mgl64.Vec3) float64 {
	d := v.Depth(p)
	if d < v.Near {
		return 0
	}
	return v.focal / d
}

// Project returns the screen position of p. It fails for points closer than
// the near plane.
func (v View) Project(p mgl64.Vec3) (float64, float64, bool) {
	eye := v.view.Mul4x1(p.Vec4(1))
	if -eye.Z() < v.Near {
		return 0, 0, false
	}
	x, y := v.toScreen(eye)
	return x, y, true
}

// Segment projects the segment ab, clipping it against the near plane.
func (v View) Segment(a, b mgl64.Vec3) (x1, y1, x2, y2 float64, ok bool) {
	ea := v.view.Mul4x1(a.Vec4(1))
	eb := v.view.Mul4x1(b.Vec4(1))
	da, db := -ea.Z(), -eb.Z()
	if da < v.Near && db < v.Near {
		return 0, 0, 0, 0, false
	}
	if da < v.Near {
		ea = clipNear(ea, eb, da, db, v.Near)
	} else if db < v.Near {
		eb = clipNear(eb, ea, db, da, v.Near)
	}
	x1, y1 = v.toScreen(ea)
	x2, y2 = v.toScreen(eb)
	return x1, y1, x2, y2, true
}

// clipNear moves the behind point p towards q until it sits on the near plane.
func clipNear(p, q mgl64.Vec4, dp, dq, near float64) mgl64.Vec4 {
	t := (near - dp) / (dq - dp)
	return p.Add(q.Sub(p).Mul(t))
}

func (v View) toScreen(eye mgl64.Vec4) (float64, float64) {
	clip := v.proj.Mul4x1(eye)
	if clip.W() == 0 {
		return v.Width / 2, v.Height / 2
	}
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	return (ndcX + 1) * 0.5 * v.Width, (1 - ndcY) * 0.5 * v.Height
}
