// Package physics is the gameplay-facing surface of the simulation: entity
// factories, force and impulse application, triggers, raycasts and stats over
// an ecs.World running the rigid-body pipeline.
package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
	"github.com/milk9111/simcore/ecs/system"
)

type Config struct {
	Integration system.IntegrationConfig
	Response    system.ResponseConfig
	BroadPhase  system.BroadPhase
}

func DefaultConfig() Config {
	return Config{
		Integration: system.DefaultIntegrationConfig(),
		Response:    system.DefaultResponseConfig(),
		BroadPhase:  system.BroadPhaseSweep,
	}
}

// World owns the physics systems registered on an ecs.World.
type World struct {
	w *ecs.World

	integration *system.PhysicsSystem
	springs     *system.SpringSystem
	detection   *system.CollisionSystem
	response    *system.ResponseSystem
	bounds      *system.BoundsSystem
}

// New registers integration, springs, detection, response and bounds on w, in
// that order. The order is the tick's pipeline order.
func New(w *ecs.World, cfg Config) (*World, error) {
	if w == nil {
		return nil, fmt.Errorf("physics: nil world")
	}
	pw := &World{
		w:           w,
		integration: system.NewPhysicsSystem(cfg.Integration),
		springs:     system.NewSpringSystem(),
		detection:   system.NewCollisionSystem(cfg.BroadPhase),
		bounds:      system.NewBoundsSystem(),
	}
	pw.response = system.NewResponseSystem(cfg.Response, pw.detection)
	pw.integration.AddForceGenerator(pw.springs)

	steps := []struct {
		name string
		reg  func(*ecs.World) error
	}{
		{"integration", pw.integration.Register},
		{"springs", pw.springs.Register},
		{"detection", pw.detection.Register},
		{"response", pw.response.Register},
		{"bounds", pw.bounds.Register},
	}
	for _, s := range steps {
		if err := s.reg(w); err != nil {
			return nil, fmt.Errorf("physics: register %s: %w", s.name, err)
		}
	}
	return pw, nil
}

// ECS returns the underlying world.
func (pw *World) ECS() *ecs.World {
	if pw == nil {
		return nil
	}
	return pw.w
}

// Update runs one tick of every registered system.
func (pw *World) Update(dt float64) {
	if pw == nil {
		return
	}
	pw.w.Update(dt)
}

// DestroyEntity removes e and all its components. Springs targeting e are
// detached first so a recycled id never inherits them.
func (pw *World) DestroyEntity(e ecs.Entity) bool {
	if pw == nil || !pw.w.IsAlive(e) {
		return false
	}
	if springs, err := ecs.Store[component.Spring](pw.w); err == nil {
		var owners []ecs.Entity
		for _, owner := range springs.Entities() {
			if sp, ok := springs.Get(owner); ok && sp.Target == e {
				owners = append(owners, owner)
			}
		}
		for _, owner := range owners {
			ecs.Remove[component.Spring](pw.w, owner)
		}
	}
	return pw.w.DestroyEntity(e)
}

func (pw *World) SetGravity(g mgl64.Vec3) {
	pw.integration.SetGravity(g)
}

func (pw *World) Gravity() mgl64.Vec3 {
	return pw.integration.Gravity()
}

// Alpha is the fraction of a fixed step carried to the next tick.
func (pw *World) Alpha() float64 {
	return pw.integration.Alpha()
}

// AddTriggerCallback registers fn for every trigger contact of every tick.
func (pw *World) AddTriggerCallback(fn func(system.Collision)) {
	if fn == nil {
		return
	}
	pw.response.AddTriggerCallback(fn)
}

// Collisions returns the current tick's contacts. Treat it as read-only.
func (pw *World) Collisions() []system.Collision {
	return pw.detection.Manifest()
}

// Transform returns a copy of e's transform.
func (pw *World) Transform(e ecs.Entity) (component.Transform, bool) {
	t, ok := ecs.Get[component.Transform](pw.w, e)
	if !ok {
		return component.Transform{}, false
	}
	return *t, true
}

// Bounds returns a copy of e's world bounds as of the end of the last tick.
func (pw *World) Bounds(e ecs.Entity) (component.Bounds, bool) {
	b, ok := ecs.Get[component.Bounds](pw.w, e)
	if !ok {
		return component.Bounds{}, false
	}
	return *b, true
}

// Body returns a copy of e's rigid body.
func (pw *World) Body(e ecs.Entity) (component.RigidBody, bool) {
	rb, ok := ecs.Get[component.RigidBody](pw.w, e)
	if !ok {
		return component.RigidBody{}, false
	}
	return *rb, true
}
