package system

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
	"github.com/milk9111/worldscene/ecs/entity"
	"github.com/milk9111/worldscene/roster"
)

func countOf[T any](w *ecs.World, kind component.ComponentKind[T]) int {
	n := 0
	ecs.ForEach(w, kind, func(ecs.Entity, *T) { n++ })
	return n
}

func hudFor(w *ecs.World, id string) (*component.UserHUD, *component.Transform, bool) {
	var (
		hud   *component.UserHUD
		tr    *component.Transform
		found bool
	)
	ecs.ForEach2(w, component.UserHUDComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, h *component.UserHUD, t *component.Transform) {
		if h.ParticipantID == id {
			hud, tr, found = h, t, true
		}
	})
	return hud, tr, found
}

func TestRosterSyncMirrorsParticipants(t *testing.T) {
	w := ecs.NewWorld()
	p := addPlayer(t, w, mgl64.Vec3{1, 0, 2}, component.JumpFree)
	board, err := entity.BuildEntity(w, "member_board.yaml")
	if err != nil {
		t.Fatalf("build board: %v", err)
	}

	r := roster.New(roster.User{ID: "me", DisplayName: "Me"})
	sys := NewRosterSyncSystem(r)
	sys.Update(w)

	if got := r.LocalMovement().Position; !vecNear(got, p.rb.Translation()) {
		t.Fatalf("local pose %v, want body centre %v", got, p.rb.Translation())
	}
	hud, hudT, ok := hudFor(w, "me")
	if !ok || hud.HP != roster.LocalHP || !hud.Local {
		t.Fatalf("local hud %+v (found=%v)", hud, ok)
	}
	if !vecNear(hudT.Position, p.rb.Translation().Add(mgl64.Vec3{0, 1.5, 0})) {
		t.Fatalf("local hud at %v", hudT.Position)
	}
	if n := countOf(w, component.AvatarComponent.Kind()); n != 0 {
		t.Fatalf("%d avatars for a lone user", n)
	}

	if err := r.Join(roster.User{ID: "bob", DisplayName: "Bob"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	bobPose := roster.Pose{Position: mgl64.Vec3{4, 0.9, -1}, Yaw: 1}
	r.UpdatePose("bob", bobPose)
	sys.Update(w)

	var avatarT *component.Transform
	ecs.ForEach2(w, component.AvatarComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, a *component.Avatar, t *component.Transform) {
		if a.ParticipantID == "bob" {
			avatarT = t
		}
	})
	if avatarT == nil || !vecNear(avatarT.Position, bobPose.Position) || avatarT.Yaw != 1 {
		t.Fatalf("bob's avatar %+v", avatarT)
	}
	hud, hudT, ok = hudFor(w, "bob")
	if !ok || hud.HP != roster.HPFromID("bob") || hud.Local {
		t.Fatalf("bob's hud %+v (found=%v)", hud, ok)
	}
	if !vecNear(hudT.Position, mgl64.Vec3{4, 2.4, -1}) {
		t.Fatalf("bob's hud at %v", hudT.Position)
	}

	mb, _ := ecs.Get(w, board, component.MemberBoardComponent.Kind())
	if len(mb.Lines) != 2 || mb.Lines[0] != "Me (you)" || mb.Lines[1] != "Bob" {
		t.Fatalf("member board %v", mb.Lines)
	}

	r.Leave("bob")
	sys.Update(w)
	if n := countOf(w, component.AvatarComponent.Kind()); n != 0 {
		t.Fatalf("%d avatars after bob left", n)
	}
	if _, _, ok := hudFor(w, "bob"); ok {
		t.Fatalf("bob's hud outlived him")
	}
	if len(mb.Lines) != 1 {
		t.Fatalf("member board %v after leave", mb.Lines)
	}
}

func TestRosterSyncHidesHUDWithoutPose(t *testing.T) {
	w := ecs.NewWorld()
	r := roster.New(roster.User{ID: "me", DisplayName: "Me"})
	_ = r.Join(roster.User{ID: "ghost", DisplayName: "Ghost"})

	NewRosterSyncSystem(r).Update(w)

	hud, _, ok := hudFor(w, "ghost")
	if !ok || hud.Visible {
		t.Fatalf("ghost hud %+v (found=%v), want hidden", hud, ok)
	}
}

func TestLocalPoseInFlyMode(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: mgl64.Vec3{0, 5, 0}, Yaw: 0.5})

	pose, ok := localPose(w)
	if !ok {
		t.Fatalf("no pose")
	}
	if !vecNear(pose.Position, mgl64.Vec3{0, 4.3, 0}) || pose.Yaw != 0.5 {
		t.Fatalf("pose %+v", pose)
	}
}

func TestBotsWanderInCircles(t *testing.T) {
	w := ecs.NewWorld()
	r := roster.New(roster.NewUser("me"))
	bots := NewBotSystem(r, 2, rand.New(rand.NewPCG(7, 11)))
	sched := ecs.NewScheduler(bots)

	sched.Update(w, frameDT)
	sched.Update(w, frameDT)

	remote := r.Remote()
	if len(remote) != 2 {
		t.Fatalf("%d bots joined, want 2", len(remote))
	}
	ecs.ForEach(w, component.WanderComponent.Kind(), func(_ ecs.Entity, wd *component.Wander) {
		pose, ok := r.Movement(wd.ParticipantID)
		if !ok {
			t.Fatalf("bot %s reported no pose", wd.ParticipantID)
		}
		if pose.Position.Y() != botCenterHeight {
			t.Fatalf("bot height %v", pose.Position.Y())
		}
		if d := pose.Position.Sub(wd.Center).Len(); math.Abs(d-wd.Radius) > 1e-9 {
			t.Fatalf("bot %v from its centre, radius %v", d, wd.Radius)
		}
	})

	ecs.Clear(w)
	bots.Rejoin()
	sched.Update(w, frameDT)
	if n := len(r.Remote()); n != 2 {
		t.Fatalf("%d bots after rejoin, want 2", n)
	}
	if n := countOf(w, component.WanderComponent.Kind()); n != 2 {
		t.Fatalf("%d wander entities after rejoin, want 2", n)
	}
}

func TestOrbitCirclesPlacement(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	tr := &component.Transform{Position: mgl64.Vec3{1, 0, 1}}
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), tr)
	_ = ecs.Add(w, e, component.OrbitComponent.Kind(), &component.Orbit{Radius: 4, Speed: 1, Height: 2})

	sched := ecs.NewScheduler(NewOrbitSystem())
	for i := 0; i < 90; i++ {
		sched.Update(w, frameDT)
		if d := tr.Position.Sub(mgl64.Vec3{1, 2, 1}).Len(); math.Abs(d-4) > 1e-9 {
			t.Fatalf("frame %d: %v from the centre, want 4", i, d)
		}
	}
	o, _ := ecs.Get(w, e, component.OrbitComponent.Kind())
	if math.Abs(o.Angle-1.5) > 1e-9 {
		t.Fatalf("angle %v after 1.5s, want 1.5", o.Angle)
	}
}
