package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/worldscene/common"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
)

const (
	collisionTypeBody cp.CollisionType = iota + 1
	collisionTypeSolid
)

const (
	// overlapEpsilon is the vertical overlap below which two shapes are
	// considered stacked rather than side by side.
	overlapEpsilon = 1e-3
	// footprintInset keeps walls that only touch a body's side out of the
	// support query.
	footprintInset = 0.01
	spaceDamping   = 0.8
	// collisionSlop is the overlap cp tolerates before pushing shapes
	// apart, in metres.
	collisionSlop = 0.01
)

// PhysicsSystem simulates rigid bodies. Chipmunk resolves horizontal
// collisions in the XZ plane (world X to cp X, world Z to cp Y); the
// vertical axis, gravity and landing are integrated here.
type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]*bodyInfo
}

type bodyInfo struct {
	entity ecs.Entity
	rb     *component.RigidBody
	body   *cp.Body
	shape  *cp.Shape
	static bool

	// blockers holds the normals, pointing away from the body, of the static
	// shapes it was pressed against during the last step.
	blockers []cp.Vector
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:    newSpace(),
		entities: make(map[ecs.Entity]*bodyInfo),
		shapes:   make(map[*cp.Shape]*bodyInfo),
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})
	space.SetDamping(spaceDamping)
	space.SetCollisionSlop(collisionSlop)
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// ShapeExtent reports the vertical extent of the body that owns shape.
func (ps *PhysicsSystem) ShapeExtent(shape *cp.Shape) (bottom, top float64, static, ok bool) {
	if ps == nil {
		return 0, 0, false, false
	}
	info, ok := ps.shapes[shape]
	if !ok {
		return 0, 0, false, false
	}
	return info.rb.Bottom(), info.rb.Top(), info.static, true
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	dt := ecs.Delta(w)
	if dt <= 0 {
		return
	}

	if ps.space == nil {
		ps.space = newSpace()
		ps.handlersReady = false
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.pushBodies()

	ps.space.Step(dt)

	ps.pullBodies(dt)
	ps.updateGroundSensors(w)
	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	for _, other := range []cp.CollisionType{collisionTypeSolid, collisionTypeBody} {
		handler := ps.space.NewCollisionHandler(collisionTypeBody, other)
		handler.UserData = ps
		handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			sys, ok := userData.(*PhysicsSystem)
			if !ok || sys == nil {
				return true
			}
			shapeA, shapeB := arb.Shapes()
			a, okA := sys.shapes[shapeA]
			b, okB := sys.shapes[shapeB]
			if !okA || !okB {
				return true
			}
			if !blocksHorizontally(a.rb, b.rb) {
				return false
			}
			switch {
			case b.static && !a.static:
				a.blockers = append(a.blockers, arb.Normal())
			case a.static && !b.static:
				b.blockers = append(b.blockers, arb.Normal().Neg())
			}
			return true
		}
	}

	ps.handlersReady = true
}

// blocksHorizontally reports whether two bodies whose footprints touch
// should push each other apart. Bodies stacked vertically do not, and a
// ledge low enough to step onto does not block the body walking into it.
func blocksHorizontally(a, b *component.RigidBody) bool {
	overlap := math.Min(a.Top(), b.Top()) - math.Max(a.Bottom(), b.Bottom())
	if overlap <= overlapEpsilon {
		return false
	}
	if a.Type == component.BodyDynamic && b.Top()-a.Bottom() <= common.MaxStepHeight {
		return false
	}
	if b.Type == component.BodyDynamic && a.Top()-b.Bottom() <= common.MaxStepHeight {
		return false
	}
	return true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.RigidBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, rb *component.RigidBody, t *component.Transform) {
		if !rb.Placed() {
			rb.SetTranslation(t.Position.Add(rb.Offset))
		}

		if info := ps.entities[e]; info != nil {
			info.rb = rb
			rb.Body = info.body
			rb.Shape = info.shape
			return
		}

		info := ps.createBodyInfo(e, rb, t.Yaw)
		if info == nil {
			return
		}
		ps.entities[e] = info
		ps.shapes[info.shape] = info
		rb.Body = info.body
		rb.Shape = info.shape
	})
}

// createBodyInfo adds rb to the space. Static boxes are turned by yaw;
// dynamic bodies always stand axis-aligned.
func (ps *PhysicsSystem) createBodyInfo(e ecs.Entity, rb *component.RigidBody, yaw float64) *bodyInfo {
	half := rb.HalfExtents()
	if half.X() <= 0 || half.Z() <= 0 {
		return nil
	}
	center, _ := rb.TakeMove()
	info := &bodyInfo{entity: e, rb: rb, static: rb.Type == component.BodyFixed}

	if info.static {
		var shape *cp.Shape
		if rb.Collider.Round() {
			shape = cp.NewCircle(ps.space.StaticBody, math.Max(half.X(), half.Z()), toPlane(center))
		} else if yaw == 0 {
			shape = cp.NewBox2(ps.space.StaticBody, footprint(center, half, 0), 0)
		} else {
			shape = yawedBox(ps.space.StaticBody, center, half, yaw)
		}
		shape.SetFriction(rb.Friction)
		shape.SetElasticity(rb.Restitution)
		shape.SetCollisionType(collisionTypeSolid)
		ps.space.AddShape(shape)

		info.body = ps.space.StaticBody
		info.shape = shape
		return info
	}

	mass := rb.Mass
	if mass <= 0 {
		mass = 1
	}

	// Infinite moment: bodies never spin about the vertical axis.
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(toPlane(center))

	var shape *cp.Shape
	if rb.Collider.Round() {
		shape = cp.NewCircle(body, math.Max(half.X(), half.Z()), cp.Vector{})
	} else {
		shape = cp.NewBox(body, rb.Size.X(), rb.Size.Z(), 0)
	}
	shape.SetFriction(rb.Friction)
	shape.SetElasticity(rb.Restitution)
	shape.SetCollisionType(collisionTypeBody)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.shape = shape
	return info
}

// pushBodies hands velocity commands and explicit moves to Chipmunk. The
// horizontal position is otherwise owned by the space, so its contact
// correction carries over between steps. Velocity into a wall the body was
// pressed against last step is removed: cp integrates positions before it
// resolves contacts, so a commanded velocity would otherwise sink the body
// a little deeper every step.
func (ps *PhysicsSystem) pushBodies() {
	for _, info := range ps.entities {
		if info.static {
			continue
		}
		if pos, ok := info.rb.TakeMove(); ok {
			info.body.SetPosition(toPlane(pos))
			info.blockers = info.blockers[:0]
		}
		vel := info.rb.LinearVelocity()
		v := slide(toPlane(vel), info.blockers)
		info.body.SetVelocity(v.X, v.Y)
		info.blockers = info.blockers[:0]
	}
}

// slide removes the part of v that points into any of the blocking normals.
func slide(v cp.Vector, normals []cp.Vector) cp.Vector {
	for pass := 0; pass < 2; pass++ {
		for _, n := range normals {
			n = n.Normalize()
			if d := v.Dot(n); d > 0 {
				v = v.Sub(n.Mult(d))
			}
		}
	}
	return v
}

// pullBodies reads the horizontal result back and integrates the vertical
// axis: gravity, then landing on the highest support under the body.
func (ps *PhysicsSystem) pullBodies(dt float64) {
	for _, info := range ps.entities {
		if info.static {
			continue
		}
		rb := info.rb
		prev := rb.Translation()
		vel := rb.LinearVelocity()
		p := info.body.Position()
		v := info.body.Velocity()

		vy := vel.Y() - common.Gravity*rb.GravityScale*dt
		y := prev.Y() + vy*dt

		half := rb.HalfExtents()
		center := mgl64.Vec3{p.X, prev.Y(), p.Y}
		if support, ok := ps.supportBelow(info, center, half, prev.Y()-half.Y()+common.MaxStepHeight); ok {
			if y-half.Y() <= support {
				y = support + half.Y()
				if vy < 0 {
					vy = 0
				}
			}
		}

		rb.Simulated(mgl64.Vec3{p.X, y, p.Y}, mgl64.Vec3{v.X, vy, v.Y})
	}
}

// supportBelow returns the highest top, no higher than limit, among shapes
// under the footprint of a body centred at center.
func (ps *PhysicsSystem) supportBelow(self *bodyInfo, center, half mgl64.Vec3, limit float64) (float64, bool) {
	best := math.Inf(-1)
	found := false
	ps.space.BBQuery(footprint(center, half, footprintInset), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		other, ok := ps.shapes[shape]
		if !ok || other == self {
			return
		}
		top := other.rb.Top()
		if top > limit || top <= best {
			return
		}
		best = top
		found = true
	}, nil)
	return best, found
}

func (ps *PhysicsSystem) updateGroundSensors(w *ecs.World) {
	ecs.ForEach2(w, component.GroundSensorComponent.Kind(), component.RigidBodyComponent.Kind(), func(e ecs.Entity, sensor *component.GroundSensor, rb *component.RigidBody) {
		info := ps.entities[e]
		if info == nil || info.static {
			return
		}
		bottom := rb.Bottom()
		grounded := false
		if support, ok := ps.supportBelow(info, rb.Translation(), rb.HalfExtents(), bottom+overlapEpsilon); ok {
			grounded = bottom-support <= sensor.Depth && rb.LinearVelocity().Y() <= 0
		}
		if grounded == sensor.Grounded {
			return
		}
		sensor.Grounded = grounded
		kind := ecs.CollisionEventLeftGround
		if grounded {
			kind = ecs.CollisionEventGrounded
		}
		w.Events().Push(ecs.Event{Type: ecs.EventTypeCollision, Data: ecs.CollisionEvent{Entity: e, Kind: kind}})
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.RigidBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, rb *component.RigidBody, t *component.Transform) {
		if rb.Type == component.BodyFixed {
			return
		}
		t.Position = rb.Translation().Sub(rb.Offset)
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind()); ok && rb != nil {
			continue
		}

		if info.shape != nil && ps.space != nil {
			ps.space.RemoveShape(info.shape)
			delete(ps.shapes, info.shape)
		}
		if info.body != nil && !info.static && ps.space != nil {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}

// yawedBox is a static box footprint turned by yaw about +Y. World yaw maps
// to a cp angle of -yaw because world Z is cp Y.
func yawedBox(body *cp.Body, center, half mgl64.Vec3, yaw float64) *cp.Shape {
	verts := []cp.Vector{
		{X: -half.X(), Y: -half.Z()},
		{X: half.X(), Y: -half.Z()},
		{X: half.X(), Y: half.Z()},
		{X: -half.X(), Y: half.Z()},
	}
	return cp.NewPolyShape(body, len(verts), verts, cp.NewTransformRigid(toPlane(center), -yaw), 0)
}

func toPlane(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Z()}
}

func footprint(center, half mgl64.Vec3, inset float64) cp.BB {
	return cp.BB{
		L: center.X() - half.X() + inset,
		B: center.Z() - half.Z() + inset,
		R: center.X() + half.X() - inset,
		T: center.Z() + half.Z() - inset,
	}
}
