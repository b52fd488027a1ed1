package ecs

import (
	"fmt"
	"reflect"
)

// System is updated once per World.Update with the tick's dt. Implementations
// embed Membership, which the World keeps in sync with entity signatures.
type System interface {
	Update(w *World, dt float64)
	membership() *Membership
}

// Membership is the list of entities whose signature contains a system's
// signature. Order carries no meaning; exits swap-remove.
type Membership struct {
	entities []Entity
}

func (m *Membership) membership() *Membership {
	return m
}

// Entities returns the matched entities. Do not mutate it, and do not add or
// remove components while ranging over it.
func (m *Membership) Entities() []Entity {
	return m.entities
}

func (m *Membership) Len() int {
	return len(m.entities)
}

func (m *Membership) Contains(e Entity) bool {
	return m.indexOf(e) >= 0
}

func (m *Membership) indexOf(e Entity) int {
	for i, member := range m.entities {
		if member == e {
			return i
		}
	}
	return -1
}

func (m *Membership) add(e Entity) {
	if m.indexOf(e) >= 0 {
		return
	}
	m.entities = append(m.entities, e)
}

func (m *Membership) remove(e Entity) {
	i := m.indexOf(e)
	if i < 0 {
		return
	}
	last := len(m.entities) - 1
	m.entities[i] = m.entities[last]
	m.entities = m.entities[:last]
}

type systemEntry struct {
	system    System
	signature Signature
}

// scheduler holds one instance per system type in registration order.
type scheduler struct {
	entries []*systemEntry
	byType  map[reflect.Type]*systemEntry
}

func newScheduler() *scheduler {
	return &scheduler{byType: make(map[reflect.Type]*systemEntry)}
}

func (s *scheduler) add(sys System, sig Signature) (*systemEntry, error) {
	typ := reflect.TypeOf(sys)
	if _, ok := s.byType[typ]; ok {
		return nil, fmt.Errorf("%w: %s", ErrSystemRegistered, typ)
	}
	entry := &systemEntry{system: sys, signature: sig}
	s.entries = append(s.entries, entry)
	s.byType[typ] = entry
	return entry, nil
}

func (s *scheduler) lookup(typ reflect.Type) (*systemEntry, bool) {
	entry, ok := s.byType[typ]
	return entry, ok
}

func (s *scheduler) entitySignatureChanged(e Entity, sig Signature) {
	for _, entry := range s.entries {
		entry.match(e, sig)
	}
}

func (s *scheduler) entityDestroyed(e Entity) {
	for _, entry := range s.entries {
		entry.system.membership().remove(e)
	}
}

func (s *scheduler) update(w *World, dt float64) {
	for _, entry := range s.entries {
		entry.system.Update(w, dt)
	}
}

func (s *scheduler) systems() []System {
	out := make([]System, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry.system)
	}
	return out
}

func (e *systemEntry) match(ent Entity, sig Signature) {
	m := e.system.membership()
	if sig.Contains(e.signature) {
		m.add(ent)
		return
	}
	m.remove(ent)
}
