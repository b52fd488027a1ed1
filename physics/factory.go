package physics

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
)

// CreateSphereEntity spawns a dynamic sphere.
func (pw *World) CreateSphereEntity(pos mgl64.Vec3, radius, mass float64) (ecs.Entity, error) {
	return pw.spawn("sphere", component.NewTransform(pos), component.Sphere(radius), component.NewRigidBody(mass))
}

// CreateBoxEntity spawns a dynamic axis-aligned box.
func (pw *World) CreateBoxEntity(pos mgl64.Vec3, halfExtents mgl64.Vec3, mass float64) (ecs.Entity, error) {
	return pw.spawn("box", component.NewTransform(pos), component.Box(halfExtents), component.NewRigidBody(mass))
}

// CreateGroundPlane spawns a static plane of points p with normal·p == height.
func (pw *World) CreateGroundPlane(normal mgl64.Vec3, height float64) (ecs.Entity, error) {
	return pw.spawn("plane", component.NewTransform(mgl64.Vec3{}), component.Plane(normal, height), component.NewStaticBody())
}

func (pw *World) spawn(kind string, t component.Transform, c component.Collider, rb component.RigidBody) (ecs.Entity, error) {
	e, err := pw.w.CreateEntity()
	if err != nil {
		log.Printf("physics: create %s: %v", kind, err)
		return ecs.NoEntity, fmt.Errorf("physics: create %s: %w", kind, err)
	}
	add := []func() error{
		func() error { return ecs.Add(pw.w, e, t) },
		func() error { return ecs.Add(pw.w, e, rb) },
		func() error { return ecs.Add(pw.w, e, c) },
		func() error { return ecs.Add(pw.w, e, component.ColliderBounds(t, c)) },
	}
	for _, fn := range add {
		if err := fn(); err != nil {
			pw.w.DestroyEntity(e)
			return ecs.NoEntity, fmt.Errorf("physics: create %s: %w", kind, err)
		}
	}
	return e, nil
}
