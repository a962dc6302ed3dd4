package entity

import (
	"fmt"

	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
	"github.com/milk9111/worldscene/roster"
)

// NewUserHUD builds the floating health bar for a participant.
func NewUserHUD(w *ecs.World, participantID string, local bool) (ecs.Entity, error) {
	e, err := BuildEntity(w, "user_hud.yaml")
	if err != nil {
		return 0, err
	}
	hud, ok := ecs.Get(w, e, component.UserHUDComponent.Kind())
	if !ok {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("user hud: prefab has no user_hud component")
	}
	hud.ParticipantID = participantID
	hud.Local = local
	if local {
		hud.HP = roster.LocalHP
	} else {
		hud.HP = roster.HPFromID(participantID)
	}
	return e, nil
}

// NewAvatar builds the body drawn for a remote participant.
func NewAvatar(w *ecs.World, participantID string) (ecs.Entity, error) {
	e, err := BuildEntity(w, "avatar.yaml")
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.AvatarComponent.Kind(), &component.Avatar{ParticipantID: participantID}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("avatar: %w", err)
	}
	return e, nil
}
