package ecs

import "github.com/milk9111/worldscene/ecs/component"

// snapshot copies the dense ids so callbacks may add or remove components
// while iterating.
func snapshot(s *SparseSet) []entityID {
	if s == nil || len(s.denseEntities) == 0 {
		return nil
	}
	return append([]entityID(nil), s.denseEntities...)
}

// ForEach calls fn for every entity carrying a.
func ForEach[A any](w *World, a component.ComponentKind[A], fn func(Entity, *A)) {
	if w == nil || fn == nil {
		return
	}
	sa := w.store(a.ID(), false)
	for _, id := range snapshot(sa) {
		e, ok := w.entityFor(id)
		if !ok {
			continue
		}
		va, ok := sa.Get(id).(*A)
		if !ok {
			continue
		}
		fn(e, va)
	}
}

// ForEach2 calls fn for every entity carrying both a and b.
func ForEach2[A, B any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	sa, sb := w.store(a.ID(), false), w.store(b.ID(), false)
	if sa == nil || sb == nil {
		return
	}
	for _, id := range snapshot(sa) {
		e, ok := w.entityFor(id)
		if !ok {
			continue
		}
		va, okA := sa.Get(id).(*A)
		vb, okB := sb.Get(id).(*B)
		if !okA || !okB {
			continue
		}
		fn(e, va, vb)
	}
}

// ForEach3 calls fn for every entity carrying a, b and c.
func ForEach3[A, B, C any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	sa, sb, sc := w.store(a.ID(), false), w.store(b.ID(), false), w.store(c.ID(), false)
	if sa == nil || sb == nil || sc == nil {
		return
	}
	for _, id := range snapshot(sa) {
		e, ok := w.entityFor(id)
		if !ok {
			continue
		}
		va, okA := sa.Get(id).(*A)
		vb, okB := sb.Get(id).(*B)
		vc, okC := sc.Get(id).(*C)
		if !okA || !okB || !okC {
			continue
		}
		fn(e, va, vb, vc)
	}
}

// ForEach4 calls fn for every entity carrying a, b, c and d.
func ForEach4[A, B, C, D any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], d component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	if w == nil || fn == nil {
		return
	}
	sa, sb, sc, sd := w.store(a.ID(), false), w.store(b.ID(), false), w.store(c.ID(), false), w.store(d.ID(), false)
	if sa == nil || sb == nil || sc == nil || sd == nil {
		return
	}
	for _, id := range snapshot(sa) {
		e, ok := w.entityFor(id)
		if !ok {
			continue
		}
		va, okA := sa.Get(id).(*A)
		vb, okB := sb.Get(id).(*B)
		vc, okC := sc.Get(id).(*C)
		vd, okD := sd.Get(id).(*D)
		if !okA || !okB || !okC || !okD {
			continue
		}
		fn(e, va, vb, vc, vd)
	}
}
