package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
	"github.com/milk9111/worldscene/ecs/entity"
	"github.com/milk9111/worldscene/roster"
)

// EyeHeightAboveCenter is the eye position relative to the body centre when
// the player has no rigid body to report it.
var EyeHeightAboveCenter = mgl64.Vec3{0, 0.7, 0}

// RosterSyncSystem publishes the local pose to the roster and mirrors every
// participant into the world: an avatar for each remote user, a HUD bar for
// everyone and the member board text.
type RosterSyncSystem struct {
	roster *roster.Roster

	avatars map[string]ecs.Entity
	huds    map[string]ecs.Entity
}

func NewRosterSyncSystem(r *roster.Roster) *RosterSyncSystem {
	return &RosterSyncSystem{
		roster:  r,
		avatars: map[string]ecs.Entity{},
		huds:    map[string]ecs.Entity{},
	}
}

func (s *RosterSyncSystem) Update(w *ecs.World) {
	if s == nil || s.roster == nil || w == nil {
		return
	}

	local := s.roster.Local()
	if pose, ok := localPose(w); ok {
		s.roster.UpdatePose(local.ID, pose)
	}

	present := map[string]bool{local.ID: true}
	for _, u := range s.roster.Remote() {
		present[u.ID] = true
	}

	s.prune(w, present)

	for id := range present {
		isLocal := id == local.ID
		if !isLocal {
			if _, ok := s.avatars[id]; !ok {
				e, err := entity.NewAvatar(w, id)
				if err != nil {
					log.Printf("roster: avatar for %s: %v", id, err)
				} else {
					s.avatars[id] = e
				}
			}
		}
		if _, ok := s.huds[id]; !ok {
			e, err := entity.NewUserHUD(w, id, isLocal)
			if err != nil {
				log.Printf("roster: hud for %s: %v", id, err)
			} else {
				s.huds[id] = e
			}
		}
	}

	for id, e := range s.avatars {
		pose, ok := s.roster.Movement(id)
		t, tok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok || !tok {
			continue
		}
		t.Position = pose.Position
		t.Yaw = pose.Yaw
	}

	for id, e := range s.huds {
		var pose roster.Pose
		var ok bool
		if id == local.ID {
			pose, ok = s.roster.LocalMovement(), true
		} else {
			pose, ok = s.roster.Movement(id)
		}
		hud, hok := ecs.Get(w, e, component.UserHUDComponent.Kind())
		t, tok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !hok || !tok {
			continue
		}
		hud.Visible = ok
		if ok {
			t.Position = pose.Position.Add(mgl64.Vec3{0, hud.Height, 0})
		}
	}

	members := s.roster.Members()
	ecs.ForEach(w, component.MemberBoardComponent.Kind(), func(_ ecs.Entity, board *component.MemberBoard) {
		board.Lines = append(board.Lines[:0], members...)
	})
}

// prune removes the entities of participants who left, and forgets entities
// that were destroyed elsewhere (a scene reload clears the world).
func (s *RosterSyncSystem) prune(w *ecs.World, present map[string]bool) {
	for _, m := range []map[string]ecs.Entity{s.avatars, s.huds} {
		for id, e := range m {
			if !ecs.IsAlive(w, e) {
				delete(m, id)
				continue
			}
			if !present[id] {
				ecs.DestroyEntity(w, e)
				delete(m, id)
			}
		}
	}
}

// Reset forgets every mirrored entity without destroying it.
func (s *RosterSyncSystem) Reset() {
	clear(s.avatars)
	clear(s.huds)
}

func localPose(w *ecs.World) (roster.Pose, bool) {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return roster.Pose{}, false
	}
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return roster.Pose{}, false
	}
	center := t.Position.Sub(EyeHeightAboveCenter)
	if rb, ok := ecs.Get(w, player, component.RigidBodyComponent.Kind()); ok {
		center = rb.Translation()
	}
	return roster.Pose{Position: center, Yaw: t.Yaw, Pitch: t.Pitch}, true
}
