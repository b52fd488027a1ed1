package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/simcore/common"
	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
)

// RaycastHit is the nearest sphere hit by a ray. Entity is ecs.NoEntity when
// nothing was hit.
type RaycastHit struct {
	Hit      bool
	Entity   ecs.Entity
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// Raycast returns the nearest sphere collider along the ray. Boxes and planes
// are not tested. A non-positive maxDist means no limit. A ray starting inside
// a sphere hits its far side.
func (pw *World) Raycast(origin, dir mgl64.Vec3, maxDist float64) RaycastHit {
	best := RaycastHit{Entity: ecs.NoEntity}
	l := dir.Len()
	if l < common.Epsilon {
		return best
	}
	d := dir.Mul(1 / l)
	if maxDist <= 0 {
		maxDist = math.Inf(1)
	}

	for _, e := range pw.detection.Entities() {
		c := ecs.MustGet[component.Collider](pw.w, e)
		if c.Shape != component.ShapeSphere {
			continue
		}
		t := ecs.MustGet[component.Transform](pw.w, e)
		r := c.Radius * t.MaxScale()
		dist, ok := raySphere(origin, d, t.Position, r)
		if !ok || dist > maxDist {
			continue
		}
		if best.Hit && dist >= best.Distance {
			continue
		}
		p := origin.Add(d.Mul(dist))
		n := p.Sub(t.Position)
		if n.Len() > common.Epsilon {
			n = n.Normalize()
		}
		best = RaycastHit{Hit: true, Entity: e, Point: p, Normal: n, Distance: dist}
	}
	return best
}

// raySphere returns the distance along the unit direction d to the first
// intersection in front of origin.
func raySphere(origin, d, center mgl64.Vec3, r float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(d)
	c := oc.Dot(oc) - r*r
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	s := math.Sqrt(disc)
	t := -b - s
	if t < 0 {
		t = -b + s
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// OverlapBounds returns colliders whose world bounds overlap b, as of the end
// of the last tick. Planes are unbounded and always included.
func (pw *World) OverlapBounds(b component.Bounds) []ecs.Entity {
	bounds, err := ecs.Store[component.Bounds](pw.w)
	if err != nil {
		return nil
	}
	colliders, err := ecs.Store[component.Collider](pw.w)
	if err != nil {
		return nil
	}
	var out []ecs.Entity
	for _, e := range ecs.IntersectEntities(colliders, bounds) {
		c, _ := colliders.Get(e)
		eb, _ := bounds.Get(e)
		if c.Shape == component.ShapePlane || eb.Overlaps(b) {
			out = append(out, e)
		}
	}
	return out
}

// Stats is a snapshot for diagnostics and HUDs.
type Stats struct {
	Entities         int
	RigidBodies      int
	Colliders        int
	ActiveCollisions int
	Triggers         int
	PairsTested      int
	Resolved         int
	KineticEnergy    float64
	Steps            uint64
	Tick             uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("tick=%d steps=%d entities=%d bodies=%d colliders=%d pairs=%d contacts=%d resolved=%d triggers=%d ke=%.4f",
		s.Tick, s.Steps, s.Entities, s.RigidBodies, s.Colliders, s.PairsTested, s.ActiveCollisions, s.Resolved, s.Triggers, s.KineticEnergy)
}

func (pw *World) Stats() Stats {
	s := Stats{
		Entities:    pw.w.EntityCount(),
		RigidBodies: ecs.Count[component.RigidBody](pw.w),
		Colliders:   ecs.Count[component.Collider](pw.w),
		PairsTested: pw.detection.PairsTested(),
		Resolved:    pw.response.Resolved(),
		Steps:       pw.integration.Steps(),
		Tick:        pw.w.Tick(),
	}
	for _, c := range pw.detection.Manifest() {
		if c.Trigger {
			s.Triggers++
		} else {
			s.ActiveCollisions++
		}
	}
	for _, e := range pw.integration.Entities() {
		s.KineticEnergy += ecs.MustGet[component.RigidBody](pw.w, e).KineticEnergy()
	}
	return s
}
