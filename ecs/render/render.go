package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	circleSegments = 24
	hudBarWidth    = 0.6
	hudBarHeight   = 0.08
	// debugGlyphWidth is the advance of ebitenutil's debug font.
	debugGlyphWidth = 6
	debugLineHeight = 16
)

var (
	backgroundColor = color.RGBA{R: 0x10, G: 0x12, B: 0x18, A: 0xff}
	skyColor        = color.RGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xff}
	hudBackColor    = color.RGBA{A: 0xff}
	hudEmptyColor   = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// Renderer draws the world as wireframes seen from the first camera.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	b := screen.Bounds()
	view, ok := ViewFromWorld(w, b.Dx(), b.Dy())
	if !ok {
		screen.Fill(backgroundColor)
		return
	}

	if _, ok := ecs.First(w, component.SkyboxComponent.Kind()); ok {
		screen.Fill(shade(skyColor, 0.6))
	} else {
		screen.Fill(backgroundColor)
	}

	light := sceneBrightness(w)

	type meshItem struct {
		mesh  *component.Mesh
		t     *component.Transform
		depth float64
	}
	var items []meshItem
	ecs.ForEach2(w, component.MeshComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, m *component.Mesh, t *component.Transform) {
		if m.Hidden {
			return
		}
		items = append(items, meshItem{mesh: m, t: t, depth: view.Depth(t.Position)})
	})
	// Far to near so close outlines are drawn last.
	sort.SliceStable(items, func(i, j int) bool { return items[i].depth > items[j].depth })
	for _, it := range items {
		drawMesh(screen, view, it.mesh, it.t, shade(it.mesh.Color, light))
	}

	ecs.ForEach2(w, component.SpawnPointComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, sp *component.SpawnPoint, t *component.Transform) {
		drawSpawnMarker(screen, view, t.Position, mgl64.DegToRad(sp.Yaw))
	})

	ecs.ForEach2(w, component.SurfaceComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, s *component.Surface, t *component.Transform) {
		drawLabel(screen, view, t.Position, surfaceLabel(s))
	})

	ecs.ForEach2(w, component.ButtonComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, btn *component.Button, t *component.Transform) {
		drawLabel(screen, view, t.Position, btn.Label)
		if btn.Count > 0 {
			drawLabel(screen, view, t.Position.Add(mgl64.Vec3{0, 0.5, 0}), fmt.Sprintf("%d clicks", btn.Count))
		}
	})

	ecs.ForEach2(w, component.MemberBoardComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, board *component.MemberBoard, t *component.Transform) {
		lines := append([]string{board.Title}, board.Lines...)
		for i, line := range lines {
			drawLabel(screen, view, t.Position.Sub(mgl64.Vec3{0, 0.25 * float64(i), 0}), line)
		}
	})

	ecs.ForEach2(w, component.UserHUDComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, hud *component.UserHUD, t *component.Transform) {
		if hud.Visible {
			drawHUDBar(screen, view, t.Position, hud.Ratio())
		}
	})
}

// HPColor is the bar colour for a health ratio.
func HPColor(ratio float64) color.RGBA {
	switch {
	case ratio > 0.5:
		return color.RGBA{G: 0xff, A: 0xff}
	case ratio > 0.25:
		return color.RGBA{R: 0xff, G: 0xff, A: 0xff}
	default:
		return color.RGBA{R: 0xff, A: 0xff}
	}
}

func drawHUDBar(screen *ebiten.Image, view View, pos mgl64.Vec3, ratio float64) {
	x, y, ok := view.Project(pos)
	if !ok {
		return
	}
	ppm := view.PixelsPerMeter(pos)
	bw, bh := hudBarWidth*ppm, hudBarHeight*ppm
	left, top := x-bw/2, y-bh/2
	border := 0.01 * ppm

	vector.FillRect(screen, float32(left-border), float32(top-border), float32(bw+2*border), float32(bh+2*border), hudBackColor, false)
	vector.FillRect(screen, float32(left), float32(top), float32(bw), float32(bh), hudEmptyColor, false)
	vector.FillRect(screen, float32(left), float32(top), float32(bw*ratio), float32(bh), HPColor(ratio), false)
}

func drawLabel(screen *ebiten.Image, view View, pos mgl64.Vec3, text string) {
	if text == "" {
		return
	}
	x, y, ok := view.Project(pos)
	if !ok {
		return
	}
	ebitenutil.DebugPrintAt(screen, text, int(x)-len(text)*debugGlyphWidth/2, int(y)-debugLineHeight/2)
}

func surfaceLabel(s *component.Surface) string {
	switch s.Kind {
	case component.SurfaceMirror:
		return "mirror"
	case component.SurfaceScreenShare:
		return "screen share"
	}
	status := "paused"
	if s.Playing {
		status = "playing"
	}
	return fmt.Sprintf("%s (%s) %s", s.Kind, status, s.URL)
}

func drawSpawnMarker(screen *ebiten.Image, view View, pos mgl64.Vec3, yaw float64) {
	c := colornames.Lime
	drawRing(screen, view, pos.Add(mgl64.Vec3{0, 0.01, 0}), 0.5, c)
	dir := (&component.Transform{Yaw: yaw}).Forward()
	tip := pos.Add(dir.Mul(0.8))
	drawSegment(screen, view, pos, tip, c)
	side := dir.Cross(component.WorldUp).Mul(0.15)
	back := tip.Sub(dir.Mul(0.2))
	drawSegment(screen, view, tip, back.Add(side), c)
	drawSegment(screen, view, tip, back.Sub(side), c)
}

func drawMesh(screen *ebiten.Image, view View, m *component.Mesh, t *component.Transform, c color.RGBA) {
	rot := mgl64.Rotate3DY(t.Yaw)
	half := m.Size.Mul(0.5)
	at := func(x, y, z float64) mgl64.Vec3 {
		return t.Position.Add(rot.Mul3x1(mgl64.Vec3{x, y, z}))
	}

	switch m.Shape {
	case component.MeshPlane:
		for x := -half.X(); x <= half.X()+1e-9; x++ {
			drawSegment(screen, view, at(x, 0, -half.Z()), at(x, 0, half.Z()), c)
		}
		for z := -half.Z(); z <= half.Z()+1e-9; z++ {
			drawSegment(screen, view, at(-half.X(), 0, z), at(half.X(), 0, z), c)
		}
	case component.MeshCylinder:
		r := math.Max(half.X(), half.Z())
		drawRing(screen, view, t.Position.Sub(mgl64.Vec3{0, half.Y(), 0}), r, c)
		drawRing(screen, view, t.Position.Add(mgl64.Vec3{0, half.Y(), 0}), r, c)
		for i := 0; i < 4; i++ {
			a := float64(i) * math.Pi / 2
			x, z := math.Cos(a)*r, math.Sin(a)*r
			drawSegment(screen, view, at(x, -half.Y(), z), at(x, half.Y(), z), c)
		}
	case component.MeshSphere:
		r := math.Max(half.X(), math.Max(half.Y(), half.Z()))
		drawCircle3D(screen, view, t.Position, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}, r, c)
		drawCircle3D(screen, view, t.Position, rot.Mul3x1(mgl64.Vec3{1, 0, 0}), component.WorldUp, r, c)
		drawCircle3D(screen, view, t.Position, rot.Mul3x1(mgl64.Vec3{0, 0, 1}), component.WorldUp, r, c)
	default:
		var corners [8]mgl64.Vec3
		for i := range corners {
			sx, sy, sz := -1.0, -1.0, -1.0
			if i&1 != 0 {
				sx = 1
			}
			if i&2 != 0 {
				sy = 1
			}
			if i&4 != 0 {
				sz = 1
			}
			corners[i] = at(sx*half.X(), sy*half.Y(), sz*half.Z())
		}
		for i := range corners {
			for _, bit := range []int{1, 2, 4} {
				if i&bit == 0 {
					drawSegment(screen, view, corners[i], corners[i|bit], c)
				}
			}
		}
	}
}

func drawRing(screen *ebiten.Image, view View, center mgl64.Vec3, r float64, c color.Color) {
	drawCircle3D(screen, view, center, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}, r, c)
}

// drawCircle3D draws a circle of radius r in the plane spanned by u and v.
func drawCircle3D(screen *ebiten.Image, view View, center, u, v mgl64.Vec3, r float64, c color.Color) {
	prev := center.Add(u.Mul(r))
	for i := 1; i <= circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		next := center.Add(u.Mul(math.Cos(a) * r)).Add(v.Mul(math.Sin(a) * r))
		drawSegment(screen, view, prev, next, c)
		prev = next
	}
}

func drawSegment(screen *ebiten.Image, view View, a, b mgl64.Vec3, c color.Color) {
	x1, y1, x2, y2, ok := view.Segment(a, b)
	if !ok {
		return
	}
	vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, c, true)
}

// sceneBrightness folds the scene lights into one factor for line colours.
func sceneBrightness(w *ecs.World) float64 {
	total := 0.0
	found := false
	ecs.ForEach(w, component.LightComponent.Kind(), func(_ ecs.Entity, l *component.Light) {
		found = true
		switch l.Kind {
		case component.LightDirectional:
			total += l.Intensity * 0.5
		default:
			total += l.Intensity
		}
	})
	if !found {
		return 1
	}
	return math.Max(0.35, math.Min(1, total))
}

func shade(c color.RGBA, f float64) color.RGBA {
	scale := func(v uint8) uint8 {
		return uint8(math.Min(255, float64(v)*f))
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}
