package ecs

import (
	"errors"
	"testing"
)

type position struct{ X, Y, Z float64 }
type velocity struct{ X, Y, Z float64 }
type health int

type moverSystem struct {
	Membership
	updates int
	lastDT  float64
}

func (s *moverSystem) Update(w *World, dt float64) {
	s.updates++
	s.lastDT = dt
	for _, e := range s.Entities() {
		p := MustGet[position](w, e)
		v := MustGet[velocity](w, e)
		p.X += v.X * dt
	}
}

type healthSystem struct {
	Membership
	order *[]string
}

func (s *healthSystem) Update(w *World, dt float64) {
	if s.order != nil {
		*s.order = append(*s.order, "health")
	}
}

type orderSystem struct {
	Membership
	order *[]string
}

func (s *orderSystem) Update(w *World, dt float64) {
	*s.order = append(*s.order, "order")
}

func newTestWorld(t *testing.T, capacity int) *World {
	t.Helper()
	return NewWorld(Config{MaxEntities: capacity})
}

func mustCreate(t *testing.T, w *World) Entity {
	t.Helper()
	e, err := w.CreateEntity()
	if err != nil {
		t.Fatalf("create entity: %v", err)
	}
	return e
}

// checkConsistency asserts store presence matches signature bits for every
// living entity and registered type, and that membership matches signatures.
func checkConsistency(t *testing.T, w *World) {
	t.Helper()
	w.forEachLiving(func(e Entity, sig Signature) {
		for id, store := range w.components.stores {
			if store.Has(e) != sig.Has(ComponentID(id)) {
				t.Fatalf("entity %s: store %s has=%v signature bit=%v", e, w.ComponentName(ComponentID(id)), store.Has(e), sig.Has(ComponentID(id)))
			}
		}
		for _, entry := range w.systems.entries {
			want := sig.Contains(entry.signature)
			if got := entry.system.membership().Contains(e); got != want {
				t.Fatalf("entity %s: membership=%v want %v for %T", e, got, want, entry.system)
			}
		}
	})
	for _, entry := range w.systems.entries {
		for _, e := range entry.system.membership().Entities() {
			if !w.IsAlive(e) {
				t.Fatalf("dead entity %s still member of %T", e, entry.system)
			}
		}
	}
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t, 16)
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, mustCreate(t, w))
			}
			if w.EntityCount() != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, w.EntityCount())
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("second DestroyEntity should report false")
				}
				if w.EntityCount() != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, w.EntityCount())
				}
			}
		})
	}
}

func TestCapacityExceeded(t *testing.T) {
	w := newTestWorld(t, 3)
	for i := 0; i < 3; i++ {
		mustCreate(t, w)
	}
	if _, err := w.CreateEntity(); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestRecyclingIsFIFO(t *testing.T) {
	const capacity = 8
	w := newTestWorld(t, capacity)

	first := make([]Entity, 0, 3)
	for i := 0; i < 3; i++ {
		first = append(first, mustCreate(t, w))
	}
	victim := first[1]
	w.DestroyEntity(victim)

	seen := make(map[Entity]int)
	for _, e := range []Entity{first[0], first[2]} {
		seen[e]++
	}
	for i := 0; i < capacity-2; i++ {
		e := mustCreate(t, w)
		seen[e]++
		if e == victim && i != capacity-3 {
			t.Fatalf("recycled id %s handed out at position %d before fresh ids ran out", e, i)
		}
	}
	for e, n := range seen {
		if n != 1 {
			t.Fatalf("id %s handed out %d times while live", e, n)
		}
	}
	if seen[victim] != 1 {
		t.Fatalf("victim id %s should be reused exactly once", victim)
	}
	if _, err := w.CreateEntity(); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected pool to be empty, got %v", err)
	}
}

func TestComponentsAndSignatures(t *testing.T) {
	w := newTestWorld(t, 16)
	mover := &moverSystem{}
	posID := MustComponentType[position](w)
	velID := MustComponentType[velocity](w)
	if err := w.RegisterSystem(mover, NewSignature(posID, velID)); err != nil {
		t.Fatalf("register: %v", err)
	}

	e1 := mustCreate(t, w)
	e2 := mustCreate(t, w)

	tests := []struct {
		name  string
		run   func() error
		check func(t *testing.T)
	}{
		{
			name: "add_position_only",
			run:  func() error { return Add(w, e1, position{X: 1}) },
			check: func(t *testing.T) {
				if mover.Contains(e1) {
					t.Fatalf("e1 should not match without velocity")
				}
			},
		},
		{
			name: "add_velocity_matches",
			run:  func() error { return Add(w, e1, velocity{X: 2}) },
			check: func(t *testing.T) {
				if !mover.Contains(e1) {
					t.Fatalf("e1 should match mover")
				}
			},
		},
		{
			name: "upsert_overwrites_in_place",
			run:  func() error { return Add(w, e1, position{X: 5}) },
			check: func(t *testing.T) {
				if Count[position](w) != 1 {
					t.Fatalf("upsert created a duplicate slot")
				}
				if p := MustGet[position](w, e1); p.X != 5 {
					t.Fatalf("expected overwritten X=5, got %v", p.X)
				}
				if mover.Len() != 1 {
					t.Fatalf("membership duplicated on upsert: %d", mover.Len())
				}
			},
		},
		{
			name: "second_entity_matches",
			run: func() error {
				if err := Add(w, e2, velocity{X: 1}); err != nil {
					return err
				}
				return Add(w, e2, position{})
			},
			check: func(t *testing.T) {
				if !mover.Contains(e2) {
					t.Fatalf("e2 should match mover")
				}
			},
		},
		{
			name: "remove_evicts",
			run: func() error {
				if !Remove[velocity](w, e1) {
					t.Fatalf("remove reported false")
				}
				return nil
			},
			check: func(t *testing.T) {
				if mover.Contains(e1) {
					t.Fatalf("e1 should be evicted")
				}
				if w.Signature(e1).Has(velID) {
					t.Fatalf("velocity bit still set")
				}
				if Remove[velocity](w, e1) {
					t.Fatalf("removing an absent component should report false")
				}
			},
		},
		{
			name: "destroy_purges",
			run: func() error {
				w.DestroyEntity(e2)
				return nil
			},
			check: func(t *testing.T) {
				if mover.Contains(e2) || Has[position](w, e2) || Has[velocity](w, e2) {
					t.Fatalf("destroyed entity left state behind")
				}
				if !w.Signature(e2).IsEmpty() {
					t.Fatalf("destroyed entity signature not cleared")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(); err != nil {
				t.Fatalf("run failed: %v", err)
			}
			tc.check(t)
			checkConsistency(t, w)
		})
	}
}

func TestAddToDeadEntity(t *testing.T) {
	w := newTestWorld(t, 4)
	e := mustCreate(t, w)
	w.DestroyEntity(e)
	if err := Add(w, e, health(3)); !errors.Is(err, ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
	if Has[health](w, e) {
		t.Fatalf("dead entity should not hold components")
	}
}

func TestChurnKeepsInvariants(t *testing.T) {
	w := newTestWorld(t, 64)
	mover := &moverSystem{}
	hs := &healthSystem{}
	if err := w.RegisterSystem(mover, NewSignature(MustComponentType[position](w), MustComponentType[velocity](w))); err != nil {
		t.Fatal(err)
	}
	if err := w.RegisterSystem(hs, NewSignature(MustComponentType[health](w))); err != nil {
		t.Fatal(err)
	}

	var live []Entity
	for i := 0; i < 200; i++ {
		switch i % 5 {
		case 0, 1:
			e, err := w.CreateEntity()
			if err != nil {
				continue
			}
			live = append(live, e)
			if err := Add(w, e, position{X: float64(i)}); err != nil {
				t.Fatal(err)
			}
			if i%2 == 0 {
				if err := Add(w, e, velocity{X: 1}); err != nil {
					t.Fatal(err)
				}
			}
		case 2:
			if len(live) > 0 {
				e := live[i%len(live)]
				if err := Add(w, e, health(i)); err != nil {
					t.Fatal(err)
				}
			}
		case 3:
			if len(live) > 0 {
				Remove[position](w, live[(i*7)%len(live)])
			}
		case 4:
			if len(live) > 0 {
				idx := (i * 3) % len(live)
				w.DestroyEntity(live[idx])
				live = append(live[:idx], live[idx+1:]...)
			}
		}
		checkConsistency(t, w)
	}
}

func TestSparseSetSwapRemove(t *testing.T) {
	s := NewSparseSet[int]()
	for i := 0; i < 5; i++ {
		s.Set(Entity(i), i*10)
	}
	if !s.Remove(1) {
		t.Fatalf("remove should succeed")
	}
	if s.Len() != 4 {
		t.Fatalf("expected 4 values, got %d", s.Len())
	}
	if s.Entities()[1] != 4 {
		t.Fatalf("last entity should move into the freed slot, got %v", s.Entities())
	}
	if v, ok := s.Get(4); !ok || *v != 40 {
		t.Fatalf("moved value lost: %v %v", v, ok)
	}
	for slot, e := range s.Entities() {
		if s.entityToSlot[e] != slot {
			t.Fatalf("index maps disagree for %s", e)
		}
	}
	if s.Remove(1) {
		t.Fatalf("second remove should be a no-op")
	}
}

func TestSystemRegistry(t *testing.T) {
	t.Run("duplicate_type_rejected", func(t *testing.T) {
		w := newTestWorld(t, 4)
		if err := w.RegisterSystem(&moverSystem{}, NewSignature()); err != nil {
			t.Fatal(err)
		}
		if err := w.RegisterSystem(&moverSystem{}, NewSignature()); !errors.Is(err, ErrSystemRegistered) {
			t.Fatalf("expected ErrSystemRegistered, got %v", err)
		}
	})

	t.Run("registration_order", func(t *testing.T) {
		w := newTestWorld(t, 4)
		var order []string
		if err := w.RegisterSystem(&orderSystem{order: &order}, NewSignature()); err != nil {
			t.Fatal(err)
		}
		if err := w.RegisterSystem(&healthSystem{order: &order}, NewSignature()); err != nil {
			t.Fatal(err)
		}
		w.Update(0.5)
		if len(order) != 2 || order[0] != "order" || order[1] != "health" {
			t.Fatalf("unexpected update order %v", order)
		}
	})

	t.Run("late_registration_matches_existing", func(t *testing.T) {
		w := newTestWorld(t, 4)
		e := mustCreate(t, w)
		if err := Add(w, e, health(1)); err != nil {
			t.Fatal(err)
		}
		hs := &healthSystem{}
		if err := w.RegisterSystem(hs, NewSignature(MustComponentType[health](w))); err != nil {
			t.Fatal(err)
		}
		if !hs.Contains(e) {
			t.Fatalf("existing entity should be matched on registration")
		}
		got, ok := GetSystem[*healthSystem](w)
		if !ok || got != hs {
			t.Fatalf("GetSystem returned %v %v", got, ok)
		}
	})

	t.Run("set_signature_rebuilds", func(t *testing.T) {
		w := newTestWorld(t, 4)
		mover := &moverSystem{}
		posID := MustComponentType[position](w)
		if err := w.RegisterSystem(mover, NewSignature(posID)); err != nil {
			t.Fatal(err)
		}
		e := mustCreate(t, w)
		if err := Add(w, e, position{}); err != nil {
			t.Fatal(err)
		}
		if !mover.Contains(e) {
			t.Fatalf("expected member")
		}
		velID := MustComponentType[velocity](w)
		if err := SetSystemSignature[*moverSystem](w, NewSignature(posID, velID)); err != nil {
			t.Fatal(err)
		}
		if mover.Contains(e) {
			t.Fatalf("tightened signature should evict")
		}
		checkConsistency(t, w)
	})

	t.Run("set_signature_unknown_system", func(t *testing.T) {
		w := newTestWorld(t, 4)
		if err := SetSystemSignature[*moverSystem](w, NewSignature()); !errors.Is(err, ErrSystemNotRegistered) {
			t.Fatalf("expected ErrSystemNotRegistered, got %v", err)
		}
	})
}

func TestUpdateRunsSystems(t *testing.T) {
	w := newTestWorld(t, 4)
	mover := &moverSystem{}
	if err := w.RegisterSystem(mover, NewSignature(MustComponentType[position](w), MustComponentType[velocity](w))); err != nil {
		t.Fatal(err)
	}
	e := mustCreate(t, w)
	if err := Add(w, e, position{}); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e, velocity{X: 2}); err != nil {
		t.Fatal(err)
	}
	w.Update(0.5)
	if mover.updates != 1 || mover.lastDT != 0.5 {
		t.Fatalf("unexpected update bookkeeping %d %v", mover.updates, mover.lastDT)
	}
	if p := MustGet[position](w, e); p.X != 1 {
		t.Fatalf("expected X=1 after update, got %v", p.X)
	}
	if w.Tick() != 1 {
		t.Fatalf("expected tick 1, got %d", w.Tick())
	}
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	w := newTestWorld(t, 2)
	e := mustCreate(t, w)
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrComponentMissing) {
			t.Fatalf("expected ErrComponentMissing panic, got %v", r)
		}
	}()
	MustGet[position](w, e)
}

func TestQuery(t *testing.T) {
	w := newTestWorld(t, 8)
	posID := MustComponentType[position](w)
	velID := MustComponentType[velocity](w)
	e1 := mustCreate(t, w)
	e2 := mustCreate(t, w)
	e3 := mustCreate(t, w)
	for _, e := range []Entity{e1, e2, e3} {
		if err := Add(w, e, position{}); err != nil {
			t.Fatal(err)
		}
	}
	if err := Add(w, e2, velocity{}); err != nil {
		t.Fatal(err)
	}
	got := Query(w, posID, velID)
	if len(got) != 1 || got[0] != e2 {
		t.Fatalf("expected only e2, got %v", got)
	}
	if n := len(Query(w, posID)); n != 3 {
		t.Fatalf("expected 3 entities with position, got %d", n)
	}

	ps, _ := Store[position](w)
	vs, _ := Store[velocity](w)
	both := IntersectEntities(ps, vs)
	if len(both) != 1 || both[0] != e2 {
		t.Fatalf("IntersectEntities expected e2, got %v", both)
	}
}

func TestEventsLiveOneTick(t *testing.T) {
	w := newTestWorld(t, 2)
	w.Events().Push(Event{Kind: EventContact})
	if w.Events().Len() != 1 {
		t.Fatalf("expected queued event")
	}
	w.Update(0)
	if w.Events().Len() != 0 {
		t.Fatalf("events should be cleared at tick start")
	}
	w.Events().Push(Event{Kind: EventTrigger, Data: 7})
	evts := w.Events().Drain()
	if len(evts) != 1 || evts[0].Data != 7 {
		t.Fatalf("unexpected drain %v", evts)
	}
}

func TestSignature(t *testing.T) {
	s := NewSignature(1, 3)
	if !s.Has(1) || !s.Has(3) || s.Has(2) {
		t.Fatalf("unexpected bits %s", s)
	}
	t2 := s.With(5)
	if s.Has(5) {
		t.Fatalf("With must not mutate the receiver")
	}
	if !t2.Contains(s) || s.Contains(t2) {
		t.Fatalf("superset test wrong")
	}
	if !t2.Without(5).Equal(s) {
		t.Fatalf("Without should undo With")
	}
	if !s.Contains(NewSignature()) {
		t.Fatalf("every signature contains the empty signature")
	}
	ids := t2.IDs()
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 5 {
		t.Fatalf("unexpected ids %v", ids)
	}
	var zero Signature
	if zero.Count() != 0 || !zero.Equal(NewSignature()) {
		t.Fatalf("zero signature should be empty")
	}
}
