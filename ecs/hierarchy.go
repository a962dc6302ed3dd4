package ecs

// SetParent links child under parent. Passing a zero parent detaches child.
// Links that would form a cycle are rejected.
func SetParent(w *World, child, parent Entity) bool {
	if w == nil || !w.entities.isAlive(child) {
		return false
	}
	if !parent.Valid() {
		delete(w.parents, child.id())
		return true
	}
	if !w.entities.isAlive(parent) || parent == child {
		return false
	}
	for p, ok := parent, true; ok; p, ok = Parent(w, p) {
		if p == child {
			return false
		}
	}
	w.parents[child.id()] = parent
	return true
}

// Parent returns the live parent of e, if any.
func Parent(w *World, e Entity) (Entity, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return 0, false
	}
	p, ok := w.parents[e.id()]
	if !ok || !w.entities.isAlive(p) {
		return 0, false
	}
	return p, true
}

// Children returns the live children of e in slot order.
func Children(w *World, e Entity) []Entity {
	if w == nil || !w.entities.isAlive(e) {
		return nil
	}
	var out []Entity
	for _, c := range Entities(w) {
		if p, ok := w.parents[c.id()]; ok && p == e {
			out = append(out, c)
		}
	}
	return out
}
