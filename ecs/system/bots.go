package system

import (
	"fmt"
	"log"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
	"github.com/milk9111/worldscene/roster"
)

// botCenterHeight puts a wandering bot's body centre on the ground.
const botCenterHeight = 0.9

// BotSystem stands in for remote participants when there is no network. It
// joins Count users to the roster on its first update and walks each one in
// a circle, reporting poses the way a remote client would.
type BotSystem struct {
	Count int

	roster *roster.Roster
	rng    *rand.Rand
	joined bool
}

func NewBotSystem(r *roster.Roster, count int, rng *rand.Rand) *BotSystem {
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	return &BotSystem{Count: count, roster: r, rng: rng}
}

func (s *BotSystem) Update(w *ecs.World) {
	if s == nil || s.roster == nil || w == nil {
		return
	}
	if !s.joined {
		s.join(w)
		s.joined = true
	}

	dt := ecs.Delta(w)
	ecs.ForEach(w, component.WanderComponent.Kind(), func(_ ecs.Entity, wd *component.Wander) {
		wd.Angle = math.Mod(wd.Angle+wd.Speed*dt, 2*math.Pi)
		pos := wd.Center.Add(mgl64.Vec3{math.Cos(wd.Angle) * wd.Radius, 0, math.Sin(wd.Angle) * wd.Radius})
		// Facing along the circle.
		yaw := -wd.Angle
		s.roster.UpdatePose(wd.ParticipantID, roster.Pose{Position: pos, Yaw: yaw})
	})
}

// Rejoin re-creates the wander entities after the world was cleared. The
// bots stay in the roster.
func (s *BotSystem) Rejoin() {
	s.joined = false
}

func (s *BotSystem) join(w *ecs.World) {
	ids := make(map[string]bool)
	ecs.ForEach(w, component.WanderComponent.Kind(), func(_ ecs.Entity, wd *component.Wander) {
		ids[wd.ParticipantID] = true
	})

	remote := s.roster.Remote()
	for i := 0; i < s.Count; i++ {
		var u roster.User
		if i < len(remote) {
			u = remote[i]
		} else {
			u = roster.NewUser(fmt.Sprintf("bot-%d", i+1))
			if err := s.roster.Join(u); err != nil {
				log.Printf("bots: join %s: %v", u.DisplayName, err)
				continue
			}
		}
		if ids[u.ID] {
			continue
		}

		wd := &component.Wander{
			ParticipantID: u.ID,
			Center:        mgl64.Vec3{s.rng.Float64()*12 - 6, botCenterHeight, s.rng.Float64()*8 - 4},
			Radius:        1 + s.rng.Float64()*2,
			Speed:         0.3 + s.rng.Float64()*0.5,
			Angle:         s.rng.Float64() * 2 * math.Pi,
		}
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.WanderComponent.Kind(), wd); err != nil {
			log.Printf("bots: %v", err)
			ecs.DestroyEntity(w, e)
		}
	}
}
