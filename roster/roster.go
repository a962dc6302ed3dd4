// Package roster tracks the participants connected to a world instance and
// the last known pose of each.
package roster

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// User is a participant identity.
type User struct {
	ID          string
	DisplayName string
	AvatarURL   string
}

// Pose is a participant's body centre and view orientation.
type Pose struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

// NewUser creates a user with a fresh random id.
func NewUser(name string) User {
	id := uuid.NewString()
	if strings.TrimSpace(name) == "" {
		name = "guest-" + id[:8]
	}
	return User{ID: id, DisplayName: name}
}

// Roster is safe for concurrent use.
type Roster struct {
	mu     sync.RWMutex
	local  User
	order  []string
	remote map[string]User
	poses  map[string]Pose
}

func New(local User) *Roster {
	return &Roster{
		local:  local,
		remote: make(map[string]User),
		poses:  make(map[string]Pose),
	}
}

func (r *Roster) Local() User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.local
}

// Remote returns every other participant in join order.
func (r *Roster) Remote() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.remote[id])
	}
	return out
}

// Join adds or updates a remote participant.
func (r *Roster) Join(u User) error {
	if u.ID == "" {
		return fmt.Errorf("roster: join: empty user id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == r.local.ID {
		return fmt.Errorf("roster: join %s: id belongs to the local user", u.ID)
	}
	if _, ok := r.remote[u.ID]; !ok {
		r.order = append(r.order, u.ID)
	}
	r.remote[u.ID] = u
	return nil
}

// Leave removes a remote participant and its pose.
func (r *Roster) Leave(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.remote[id]; !ok {
		return false
	}
	delete(r.remote, id)
	delete(r.poses, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// UpdatePose records the pose of any participant, local included.
func (r *Roster) UpdatePose(id string, p Pose) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id != r.local.ID {
		if _, ok := r.remote[id]; !ok {
			return
		}
	}
	r.poses[id] = p
}

// Movement returns the last pose reported for id.
func (r *Roster) Movement(id string) (Pose, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.poses[id]
	return p, ok
}

func (r *Roster) LocalMovement() Pose {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.poses[r.local.ID]
}

// Members lists display names for the member board, local user first.
func (r *Roster) Members() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lines := []string{r.local.DisplayName + " (you)"}
	for _, id := range r.order {
		lines = append(lines, r.remote[id].DisplayName)
	}
	return lines
}

// IDs returns every participant id, sorted, local included.
func (r *Roster) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.remote)+1)
	ids = append(ids, r.local.ID)
	for id := range r.remote {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

const (
	LocalHP = 100
	MaxHP   = 100
)

// HPFromID derives a stable display HP in [30,100] from a participant id.
// An empty id yields 50.
func HPFromID(id string) int {
	if id == "" {
		return 50
	}
	var hash int32
	for _, c := range utf16.Encode([]rune(id)) {
		hash = (hash << 5) - hash + int32(c)
	}
	return 30 + int(math.Abs(float64(hash%71)))
}
