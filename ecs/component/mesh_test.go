package component

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// drawnExtents turns every corner of a box mesh the way the renderer does and
// returns the enclosing box.
func drawnExtents(m *Mesh, t *Transform) (mgl64.Vec3, mgl64.Vec3) {
	rot := mgl64.Rotate3DY(t.Yaw)
	half := m.Size.Mul(0.5)
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				p := t.Position.Add(rot.Mul3x1(mgl64.Vec3{sx * half.X(), sy * half.Y(), sz * half.Z()}))
				for i := 0; i < 3; i++ {
					lo[i] = math.Min(lo[i], p[i])
					hi[i] = math.Max(hi[i], p[i])
				}
			}
		}
	}
	return lo, hi
}

func TestMeshBoundsFollowYaw(t *testing.T) {
	tests := []struct {
		name string
		size mgl64.Vec3
		pos  mgl64.Vec3
		yaw  float64
	}{
		{name: "unturned", size: mgl64.Vec3{4, 2.25, 0.05}, pos: mgl64.Vec3{0, 2, -9.72}},
		{name: "screen on the east wall", size: mgl64.Vec3{4, 2.25, 0.05}, pos: mgl64.Vec3{9.72, 2, 0}, yaw: -math.Pi / 2},
		{name: "screen on the west wall", size: mgl64.Vec3{4, 2.25, 0.05}, pos: mgl64.Vec3{-9.72, 2, 0}, yaw: math.Pi / 2},
		{name: "slanted crate", size: mgl64.Vec3{1, 1, 2}, pos: mgl64.Vec3{1, 0.5, 1}, yaw: 0.3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &Mesh{Shape: MeshBox, Size: tc.size}
			tr := &Transform{Position: tc.pos, Yaw: tc.yaw}
			lo, hi := m.Bounds(tr)
			wantLo, wantHi := drawnExtents(m, tr)
			if !lo.ApproxEqualThreshold(wantLo, 1e-9) || !hi.ApproxEqualThreshold(wantHi, 1e-9) {
				t.Fatalf("bounds [%v, %v], want drawn extents [%v, %v]", lo, hi, wantLo, wantHi)
			}
		})
	}
}

func TestYawedScreenIsThinAlongX(t *testing.T) {
	m := &Mesh{Shape: MeshBox, Size: mgl64.Vec3{4, 2.25, 0.05}}
	lo, hi := m.Bounds(&Transform{Position: mgl64.Vec3{9.72, 2, 0}, Yaw: -math.Pi / 2})
	if d := hi.X() - lo.X(); math.Abs(d-0.05) > 1e-9 {
		t.Fatalf("depth along x %v, want 0.05", d)
	}
	if w := hi.Z() - lo.Z(); math.Abs(w-4) > 1e-9 {
		t.Fatalf("width along z %v, want 4", w)
	}
}
