package system

import (
	"github.com/milk9111/simcore/common"
	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
)

// SpringSystem applies damped Hooke forces between an entity and its Spring
// target. It does nothing in Update; the PhysicsSystem calls ApplyForces at the
// start of each fixed step.
type SpringSystem struct {
	ecs.Membership
}

func NewSpringSystem() *SpringSystem {
	return &SpringSystem{}
}

// Register adds the system to w, matching Transform + RigidBody + Spring.
func (ss *SpringSystem) Register(w *ecs.World) error {
	sig, err := signatureOf(w,
		componentIDOf[component.Transform],
		componentIDOf[component.RigidBody],
		componentIDOf[component.Spring],
	)
	if err != nil {
		return err
	}
	return w.RegisterSystem(ss, sig)
}

func (ss *SpringSystem) Update(w *ecs.World, dt float64) {}

func (ss *SpringSystem) ApplyForces(w *ecs.World, h float64) {
	for _, e := range ss.Entities() {
		sp := ecs.MustGet[component.Spring](w, e)
		if sp.Target == e || !w.IsAlive(sp.Target) {
			continue
		}
		target, ok := ecs.Get[component.Transform](w, sp.Target)
		if !ok {
			continue
		}
		t := ecs.MustGet[component.Transform](w, e)
		rb := ecs.MustGet[component.RigidBody](w, e)

		d := target.Position.Sub(t.Position)
		dist := d.Len()
		if dist < common.Epsilon {
			continue
		}
		dir := d.Mul(1 / dist)

		relVel := rb.Velocity.Mul(-1)
		targetBody, hasBody := ecs.Get[component.RigidBody](w, sp.Target)
		if hasBody {
			relVel = targetBody.Velocity.Sub(rb.Velocity)
		}
		magnitude := sp.Stiffness*(dist-sp.RestLength) + sp.Damping*relVel.Dot(dir)
		force := dir.Mul(magnitude)

		if rb.Dynamic() {
			rb.Force = rb.Force.Add(force)
		}
		if hasBody && targetBody.Dynamic() {
			targetBody.Force = targetBody.Force.Sub(force)
		}
	}
}
