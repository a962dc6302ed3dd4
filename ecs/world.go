package ecs

import "github.com/milk9111/worldscene/ecs/component"

// World owns entities, their components and the per-frame clock.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	parents  map[entityID]Entity
	events   EventQueue

	delta float64
	frame uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores:  make(map[component.ComponentID]*SparseSet),
		parents: make(map[entityID]Entity),
	}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e and releases its slot. Children
// of e are detached, not destroyed.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e.id())
	}
	delete(w.parents, e.id())
	for child, parent := range w.parents {
		if parent == e {
			delete(w.parents, child)
		}
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.entities.count)
	for i := range w.entities.gen {
		if e, ok := w.entities.current(entityID(i + 1)); ok {
			out = append(out, e)
		}
	}
	return out
}

// Clear destroys every entity, keeping allocated storage.
func Clear(w *World) {
	for _, e := range Entities(w) {
		DestroyEntity(w, e)
	}
	w.events.flush()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Delta is the elapsed time of the running frame, in seconds.
func Delta(w *World) float64 {
	if w == nil {
		return 0
	}
	return w.delta
}

// Frame is the number of frames advanced so far.
func Frame(w *World) uint64 {
	if w == nil {
		return 0
	}
	return w.frame
}

// SetDelta starts a new frame with elapsed time dt.
func SetDelta(w *World, dt float64) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.delta = dt
	w.frame++
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s := w.stores[id]
	if s == nil && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// entityFor resolves a dense slot id back into its live handle.
func (w *World) entityFor(id entityID) (Entity, bool) {
	return w.entities.current(id)
}
