package system

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
)

// Collision is one contact of the current tick. Normal points from A toward B.
type Collision struct {
	A, B        ecs.Entity
	Point       mgl64.Vec3
	Normal      mgl64.Vec3
	Penetration float64
	Trigger     bool
}

func (c Collision) String() string {
	return fmt.Sprintf("collision %s->%s n=%v depth=%.4f trigger=%v", c.A, c.B, c.Normal, c.Penetration, c.Trigger)
}

// Involves reports whether e is either participant.
func (c Collision) Involves(e ecs.Entity) bool {
	return c.A == e || c.B == e
}

// BroadPhase selects how candidate pairs are found. Both modes yield the same
// manifest.
type BroadPhase int

const (
	BroadPhaseSweep BroadPhase = iota
	BroadPhaseBruteForce
)

// CollisionSystem rebuilds the collision manifest once per tick from every
// entity with a Transform and a Collider.
type CollisionSystem struct {
	ecs.Membership

	mode     BroadPhase
	manifest []Collision
	proxies  []proxy
	tested   int
}

func NewCollisionSystem(mode BroadPhase) *CollisionSystem {
	return &CollisionSystem{mode: mode}
}

// Register adds the system to w, matching Transform + Collider.
func (cs *CollisionSystem) Register(w *ecs.World) error {
	sig, err := signatureOf(w, componentIDOf[component.Transform], componentIDOf[component.Collider])
	if err != nil {
		return err
	}
	return w.RegisterSystem(cs, sig)
}

func (cs *CollisionSystem) Update(w *ecs.World, dt float64) {
	if cs == nil || w == nil {
		return
	}
	cs.Detect(w)
}

// Detect replaces the manifest with this tick's contacts.
func (cs *CollisionSystem) Detect(w *ecs.World) []Collision {
	cs.proxies = cs.proxies[:0]
	for i, e := range cs.Entities() {
		t := ecs.MustGet[component.Transform](w, e)
		c := ecs.MustGet[component.Collider](w, e)
		p := newProxy(i, e, *t, *c)
		if layer, ok := ecs.Get[component.CollisionLayer](w, e); ok {
			p.layer = *layer
			p.hasLayer = true
		}
		cs.proxies = append(cs.proxies, p)
	}

	var pairs []candidatePair
	if cs.mode == BroadPhaseBruteForce {
		pairs = bruteForcePairs(cs.proxies)
	} else {
		pairs = sweepPairs(cs.proxies)
	}

	manifest := make([]Collision, 0, len(cs.manifest))
	cs.tested = 0
	for _, pair := range pairs {
		a, b := &cs.proxies[pair.i], &cs.proxies[pair.j]
		if !a.accepts(b) {
			continue
		}
		cs.tested++
		first, second, c, ok := narrowPhase(a, b)
		if !ok {
			continue
		}
		manifest = append(manifest, Collision{
			A:           first.entity,
			B:           second.entity,
			Point:       c.point,
			Normal:      c.normal,
			Penetration: c.penetration,
			Trigger:     a.collider.Trigger || b.collider.Trigger,
		})
	}
	cs.manifest = manifest
	return manifest
}

// Manifest returns this tick's contacts. The slice is replaced, not reused, on
// the next Detect.
func (cs *CollisionSystem) Manifest() []Collision {
	if cs == nil {
		return nil
	}
	return cs.manifest
}

// PairsTested returns how many pairs reached the narrow phase last tick.
func (cs *CollisionSystem) PairsTested() int {
	return cs.tested
}
