package state

import (
	"maps"
	"sync"
)

// Instance holds the values synchronised across every participant of one
// running world instance. It is safe for concurrent use.
type Instance struct {
	mu     sync.Mutex
	values map[string]any
	subs   subscribers
	joined map[string]*Shared
}

func NewInstance() *Instance {
	return &Instance{
		values: make(map[string]any),
		joined: make(map[string]*Shared),
	}
}

// Join returns participant's view of the instance. Joining twice returns the
// same view.
func (i *Instance) Join(participant string) *Shared {
	i.mu.Lock()
	defer i.mu.Unlock()
	if s, ok := i.joined[participant]; ok {
		return s
	}
	s := &Shared{instance: i, participant: participant}
	i.joined[participant] = s
	return s
}

// Leave drops participant's view and its subscriptions.
func (i *Instance) Leave(participant string) {
	i.mu.Lock()
	s, ok := i.joined[participant]
	delete(i.joined, participant)
	i.mu.Unlock()
	if ok {
		s.cancelAll()
	}
}

// Participants returns the number of joined participants.
func (i *Instance) Participants() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.joined)
}

// Snapshot copies the current values.
func (i *Instance) Snapshot() map[string]any {
	i.mu.Lock()
	defer i.mu.Unlock()
	return maps.Clone(i.values)
}

func (i *Instance) get(key string) (any, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	v, ok := i.values[key]
	return v, ok
}

func (i *Instance) set(key string, value any) {
	if key == "" {
		return
	}
	i.mu.Lock()
	i.values[key] = value
	fns := i.subs.list()
	i.mu.Unlock()

	for _, fn := range fns {
		fn(key, value)
	}
}

func (i *Instance) subscribe(fn func(string, any)) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.subs.add(fn)
}

func (i *Instance) unsubscribe(id int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.subs.remove(id)
}

// Shared is one participant's Store view of an Instance.
type Shared struct {
	instance    *Instance
	participant string

	mu   sync.Mutex
	subs []int
}

func (s *Shared) Participant() string {
	return s.participant
}

func (s *Shared) Get(key string) (any, bool) {
	return s.instance.get(key)
}

func (s *Shared) Set(key string, value any) {
	s.instance.set(key, value)
}

func (s *Shared) Subscribe(fn func(key string, value any)) func() {
	if fn == nil {
		return func() {}
	}
	id := s.instance.subscribe(fn)
	s.mu.Lock()
	s.subs = append(s.subs, id)
	s.mu.Unlock()
	return func() { s.instance.unsubscribe(id) }
}

func (s *Shared) cancelAll() {
	s.mu.Lock()
	ids := s.subs
	s.subs = nil
	s.mu.Unlock()
	for _, id := range ids {
		s.instance.unsubscribe(id)
	}
}
