package roster

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRosterMembership(t *testing.T) {
	r := New(User{ID: "me", DisplayName: "Ada"})

	if err := r.Join(User{ID: "b", DisplayName: "Bob"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := r.Join(User{ID: "c", DisplayName: "Cy"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := r.Join(User{ID: "me"}); err == nil {
		t.Fatalf("expected error joining with the local id")
	}
	if err := r.Join(User{}); err == nil {
		t.Fatalf("expected error joining with an empty id")
	}

	got := r.Members()
	want := []string{"Ada (you)", "Bob", "Cy"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if !r.Leave("b") {
		t.Fatalf("expected leave to succeed")
	}
	if r.Leave("b") {
		t.Fatalf("expected second leave to fail")
	}
	if remote := r.Remote(); len(remote) != 1 || remote[0].ID != "c" {
		t.Fatalf("unexpected remote users %v", remote)
	}
}

func TestRosterPoses(t *testing.T) {
	r := New(User{ID: "me", DisplayName: "Ada"})
	_ = r.Join(User{ID: "b", DisplayName: "Bob"})

	r.UpdatePose("me", Pose{Position: mgl64.Vec3{1, 0, 2}})
	r.UpdatePose("b", Pose{Position: mgl64.Vec3{3, 0, 4}, Yaw: 1})
	r.UpdatePose("stranger", Pose{Position: mgl64.Vec3{9, 9, 9}})

	if p := r.LocalMovement(); p.Position != (mgl64.Vec3{1, 0, 2}) {
		t.Fatalf("unexpected local pose %v", p)
	}
	if p, ok := r.Movement("b"); !ok || p.Yaw != 1 {
		t.Fatalf("unexpected remote pose %v %v", p, ok)
	}
	if _, ok := r.Movement("stranger"); ok {
		t.Fatalf("poses for unknown users should be dropped")
	}

	r.Leave("b")
	if _, ok := r.Movement("b"); ok {
		t.Fatalf("pose should be dropped on leave")
	}
}

func TestHPFromID(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"", 50},
		{"a", 30 + 97%71},
		{"ab", 30 + (97*31+98)%71},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			if got := HPFromID(tc.id); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}

	for _, id := range []string{"7f6e2c1a-0000-4000-8000-000000000000", "zzzzzzzzzzzzzzzzzzzzzzzzzzzz", "ünïcödé"} {
		hp := HPFromID(id)
		if hp < 30 || hp > 100 {
			t.Fatalf("hp %d for %q out of range", hp, id)
		}
		if HPFromID(id) != hp {
			t.Fatalf("hp should be stable")
		}
	}
}

func TestNewUser(t *testing.T) {
	u := NewUser("")
	if u.ID == "" || u.DisplayName == "" {
		t.Fatalf("expected generated id and name, got %+v", u)
	}
	if NewUser("x").ID == u.ID {
		t.Fatalf("ids should differ")
	}
}
