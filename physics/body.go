package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
)

func (pw *World) body(e ecs.Entity) (*component.RigidBody, error) {
	rb, ok := ecs.Get[component.RigidBody](pw.w, e)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoRigidBody, e)
	}
	return rb, nil
}

func (pw *World) collider(e ecs.Entity) (*component.Collider, error) {
	c, ok := ecs.Get[component.Collider](pw.w, e)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCollider, e)
	}
	return c, nil
}

// AddForce accumulates f for the next fixed step. Static and kinematic bodies
// ignore forces.
func (pw *World) AddForce(e ecs.Entity, f mgl64.Vec3) error {
	rb, err := pw.body(e)
	if err != nil {
		return err
	}
	if !rb.Dynamic() {
		return nil
	}
	rb.Force = rb.Force.Add(f)
	return nil
}

// AddImpulse changes velocity immediately by j/mass.
func (pw *World) AddImpulse(e ecs.Entity, j mgl64.Vec3) error {
	rb, err := pw.body(e)
	if err != nil {
		return err
	}
	if !rb.Dynamic() {
		return fmt.Errorf("%w: %s", ErrNotDynamic, e)
	}
	rb.Velocity = rb.Velocity.Add(j.Mul(rb.InvMass))
	return nil
}

func (pw *World) SetVelocity(e ecs.Entity, v mgl64.Vec3) error {
	rb, err := pw.body(e)
	if err != nil {
		return err
	}
	if rb.Static {
		return fmt.Errorf("%w: %s", ErrStaticBody, e)
	}
	rb.Velocity = v
	return nil
}

// SetMass sets mass; a non-positive mass makes the body immovable by impulses.
func (pw *World) SetMass(e ecs.Entity, mass float64) error {
	rb, err := pw.body(e)
	if err != nil {
		return err
	}
	rb.SetMass(mass)
	return nil
}

func (pw *World) SetStatic(e ecs.Entity, static bool) error {
	rb, err := pw.body(e)
	if err != nil {
		return err
	}
	rb.SetStatic(static)
	return nil
}

// SetKinematic marks e as driven by the host: not integrated, infinite mass
// in collision response.
func (pw *World) SetKinematic(e ecs.Entity, kinematic bool) error {
	rb, err := pw.body(e)
	if err != nil {
		return err
	}
	rb.Kinematic = kinematic
	if kinematic {
		rb.Force = mgl64.Vec3{}
	}
	return nil
}

func (pw *World) SetUseGravity(e ecs.Entity, use bool) error {
	rb, err := pw.body(e)
	if err != nil {
		return err
	}
	rb.UseGravity = use
	return nil
}

func (pw *World) SetDrag(e ecs.Entity, drag float64) error {
	rb, err := pw.body(e)
	if err != nil {
		return err
	}
	rb.Drag = drag
	return nil
}

func (pw *World) SetMaterial(e ecs.Entity, m component.Material) error {
	rb, err := pw.body(e)
	if err != nil {
		return err
	}
	rb.SetMaterial(m)
	return nil
}

// SetTrigger turns e's collider into a volume that reports contacts without
// resolving them.
func (pw *World) SetTrigger(e ecs.Entity, trigger bool) error {
	c, err := pw.collider(e)
	if err != nil {
		return err
	}
	c.Trigger = trigger
	return nil
}

func (pw *World) SetCollisionLayer(e ecs.Entity, layer component.CollisionLayer) error {
	if _, err := pw.collider(e); err != nil {
		return err
	}
	return ecs.Add(pw.w, e, layer)
}

// AttachSpring connects e to target with a damped spring. e must have a rigid
// body; target only needs a transform. Attaching again replaces the spring.
func (pw *World) AttachSpring(e, target ecs.Entity, restLength, stiffness, damping float64) error {
	if _, err := pw.body(e); err != nil {
		return err
	}
	if e == target {
		return fmt.Errorf("physics: spring from %s to itself", e)
	}
	if !pw.w.IsAlive(target) {
		return fmt.Errorf("physics: attach spring to %s: %w", target, ecs.ErrEntityNotAlive)
	}
	return ecs.Add(pw.w, e, component.Spring{
		Target:     target,
		RestLength: restLength,
		Stiffness:  stiffness,
		Damping:    damping,
	})
}

// DetachSpring removes e's spring, if any.
func (pw *World) DetachSpring(e ecs.Entity) bool {
	return ecs.Remove[component.Spring](pw.w, e)
}
