package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// rayAABBHit intersects the ray origin + t*dir (t >= 0) with an axis-aligned
// box and returns the entry parameter. A ray starting inside the box hits at
// t = 0. dir need not be normalised; t is in units of dir.
func rayAABBHit(origin, dir, min, max mgl64.Vec3) (float64, bool) {
	tmin := 0.0
	tmax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		o, d := origin[axis], dir[axis]
		if d == 0 {
			if o < min[axis] || o > max[axis] {
				return 0, false
			}
			continue
		}
		invD := 1.0 / d
		t1 := (min[axis] - o) * invD
		t2 := (max[axis] - o) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmax < tmin {
			return 0, false
		}
	}

	return tmin, true
}
