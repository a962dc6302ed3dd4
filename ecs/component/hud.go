package component

// UserHUD floats a health bar above a participant.
type UserHUD struct {
	ParticipantID string
	Local         bool
	HP            int
	MaxHP         int
	Height        float64
	Visible       bool
}

var UserHUDComponent = NewComponent[UserHUD]()

// Ratio returns HP/MaxHP clamped to [0,1].
func (h *UserHUD) Ratio() float64 {
	if h.MaxHP <= 0 {
		return 0
	}
	r := float64(h.HP) / float64(h.MaxHP)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// MemberBoard lists everyone connected to the instance.
type MemberBoard struct {
	Title string
	Lines []string
}

var MemberBoardComponent = NewComponent[MemberBoard]()
