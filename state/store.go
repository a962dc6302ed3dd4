// Package state provides the keyed value stores interactive props keep their
// state in. A Local store is private to one participant; a Shared store is a
// participant's view of an Instance and sees every other participant's writes.
package state

import "sort"

// Store is a string-keyed get/set pair with change notification.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Subscribe(fn func(key string, value any)) (cancel func())
}

// Int reads key as an integer, returning 0 when absent or not numeric.
func Int(s Store, key string) int {
	if s == nil {
		return 0
	}
	v, ok := s.Get(key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

type subscribers struct {
	next int
	fns  map[int]func(string, any)
}

func (s *subscribers) add(fn func(string, any)) int {
	if s.fns == nil {
		s.fns = make(map[int]func(string, any))
	}
	s.next++
	s.fns[s.next] = fn
	return s.next
}

func (s *subscribers) remove(id int) {
	delete(s.fns, id)
}

// list returns the callbacks in subscription order.
func (s *subscribers) list() []func(string, any) {
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(string, any), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.fns[id])
	}
	return out
}

// Local is a participant-private store. It is not safe for concurrent use;
// it lives on the frame goroutine.
type Local struct {
	values map[string]any
	subs   subscribers
}

func NewLocal() *Local {
	return &Local{values: make(map[string]any)}
}

func (l *Local) Get(key string) (any, bool) {
	v, ok := l.values[key]
	return v, ok
}

func (l *Local) Set(key string, value any) {
	if key == "" {
		return
	}
	l.values[key] = value
	for _, fn := range l.subs.list() {
		fn(key, value)
	}
}

func (l *Local) Subscribe(fn func(key string, value any)) func() {
	if fn == nil {
		return func() {}
	}
	id := l.subs.add(fn)
	return func() { l.subs.remove(id) }
}
