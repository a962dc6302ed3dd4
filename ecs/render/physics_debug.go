package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
	"github.com/milk9111/worldscene/ecs/system"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 0.1
)

// DrawPhysicsDebug outlines every collider footprint at the bottom and the
// top of its body.
func DrawPhysicsDebug(ps *system.PhysicsSystem, view View, screen *ebiten.Image) {
	space := ps.Space()
	if space == nil || screen == nil {
		return
	}

	drawer := &physicsDebugDrawer{screen: screen, view: view, physics: ps}
	cp.DrawSpace(space, drawer)
}

// DrawPlayerStateDebug prints the player's body state in the top-left corner.
func DrawPlayerStateDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}

	text := fmt.Sprintf("Position: %.2f %.2f %.2f\nYaw: %.0f Pitch: %.0f", t.Position.X(), t.Position.Y(), t.Position.Z(), mgl64.RadToDeg(t.Yaw), mgl64.RadToDeg(t.Pitch))
	if rb, ok := ecs.Get(w, player, component.RigidBodyComponent.Kind()); ok {
		v := rb.LinearVelocity()
		text += fmt.Sprintf("\nVelocity: %.2f %.2f %.2f", v.X(), v.Y(), v.Z())
	}
	if sensor, ok := ecs.Get(w, player, component.GroundSensorComponent.Kind()); ok {
		text += fmt.Sprintf("\nGrounded: %v", sensor.Grounded)
	}
	if pc, ok := ecs.Get(w, player, component.PlayerControllerComponent.Kind()); ok {
		text += fmt.Sprintf("\nJump: %s", pc.JumpMode)
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

// physicsDebugDrawer receives Chipmunk's 2D outlines in the XZ plane and
// lifts them to the height of the body that owns the shape. ShapeColor is
// called before each shape is drawn, which is where the heights are taken.
type physicsDebugDrawer struct {
	screen  *ebiten.Image
	view    View
	physics *system.PhysicsSystem

	levels []float64
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
	if len(d.levels) == 2 {
		// Vertical edges join the bottom and top outlines.
		for _, v := range verts[:count] {
			d.drawWorldLine(liftPoint(v, d.levels[0]), liftPoint(v, d.levels[1]), outline)
		}
	}
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	d.levels = d.levels[:0]
	bottom, top, static, ok := d.physics.ShapeExtent(shape)
	if !ok {
		d.levels = append(d.levels, 0)
		return cp.FColor{R: 0.6, G: 0.6, B: 0.6, A: 0.5}
	}
	d.levels = append(d.levels, bottom, top)
	if static {
		return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
	}
	return cp.FColor{R: 1, G: 0.8, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	if len(d.levels) == 0 {
		d.levels = append(d.levels, 0)
	}
	for _, y := range d.levels {
		d.drawWorldLine(liftPoint(a, y), liftPoint(b, y), c)
	}
}

func (d *physicsDebugDrawer) drawWorldLine(a, b mgl64.Vec3, c cp.FColor) {
	x1, y1, x2, y2, ok := d.view.Segment(a, b)
	if !ok {
		return
	}
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, toNRGBA(c), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

// liftPoint maps a Chipmunk point back to the world at height y.
func liftPoint(v cp.Vector, y float64) mgl64.Vec3 {
	return mgl64.Vec3{v.X, y, v.Y}
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
