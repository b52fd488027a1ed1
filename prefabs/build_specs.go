package prefabs

import (
	"fmt"
	"hash/fnv"
	"log"

	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
	"github.com/milk9111/simcore/physics"
)

// Scene is a built scene: its physics world and named entities.
type Scene struct {
	Name     string
	World    *physics.World
	Entities map[string]ecs.Entity
}

// Entity returns the entity spawned under name.
func (s *Scene) Entity(name string) (ecs.Entity, bool) {
	if s == nil {
		return ecs.NoEntity, false
	}
	e, ok := s.Entities[name]
	return e, ok
}

// BuildScene creates a fresh world configured by spec.Physics and spawns every
// body. Springs are attached after all bodies exist.
func BuildScene(spec SceneSpec) (*Scene, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	ecfg, cfg, err := spec.Physics.Config()
	if err != nil {
		return nil, err
	}
	pw, err := physics.New(ecs.NewWorld(ecfg), cfg)
	if err != nil {
		return nil, fmt.Errorf("prefabs: build %s: %w", spec.Name, err)
	}

	scene := &Scene{Name: spec.Name, World: pw, Entities: make(map[string]ecs.Entity)}
	spawned := make([][]ecs.Entity, len(spec.Bodies))
	for i, body := range spec.Bodies {
		ids, err := SpawnBody(pw, body)
		if err != nil {
			return nil, fmt.Errorf("prefabs: build %s: body %d: %w", spec.Name, i, err)
		}
		spawned[i] = ids
		for k, name := range body.instances() {
			if name != "" {
				scene.Entities[name] = ids[k]
			}
		}
	}

	for i, body := range spec.Bodies {
		if body.Spring == nil {
			continue
		}
		target := scene.Entities[body.Spring.Target]
		for _, e := range spawned[i] {
			if e == target {
				continue
			}
			if err := pw.AttachSpring(e, target, body.Spring.RestLength, body.Spring.Stiffness, body.Spring.Damping); err != nil {
				return nil, fmt.Errorf("prefabs: build %s: body %d: %w", spec.Name, i, err)
			}
		}
	}

	log.Printf("prefabs: built scene %s with %d entities", spec.Name, pw.ECS().EntityCount())
	return scene, nil
}

// SpawnBody creates every instance of b in pw.
func SpawnBody(pw *physics.World, b BodySpec) ([]ecs.Entity, error) {
	kind, err := parseShape(b.Shape)
	if err != nil {
		return nil, err
	}
	n := len(b.instances())
	out := make([]ecs.Entity, 0, n)
	for i := 0; i < n; i++ {
		pos := b.Position.Vec3().Add(b.Spacing.Vec3().Mul(float64(i)))

		var e ecs.Entity
		switch kind {
		case component.ShapeSphere:
			e, err = pw.CreateSphereEntity(pos, b.Radius, b.Mass)
		case component.ShapeBox:
			e, err = pw.CreateBoxEntity(pos, b.HalfExtents.Vec3(), b.Mass)
		case component.ShapePlane:
			e, err = pw.CreateGroundPlane(b.Normal.Vec3(), b.Height)
		}
		if err != nil {
			return out, err
		}
		out = append(out, e)
		if err := applyBody(pw, e, kind, b); err != nil {
			return out, err
		}
	}
	return out, nil
}

func applyBody(pw *physics.World, e ecs.Entity, kind component.ShapeKind, b BodySpec) error {
	w := pw.ECS()
	if b.Scale != nil {
		if t, ok := ecs.Get[component.Transform](w, e); ok {
			t.Scale = b.Scale.Vec3()
			c, hasCollider := ecs.Get[component.Collider](w, e)
			bounds, hasBounds := ecs.Get[component.Bounds](w, e)
			if hasCollider && hasBounds {
				*bounds = component.ColliderBounds(*t, *c)
			}
		}
	}
	if b.Material != nil {
		if err := pw.SetMaterial(e, *b.Material); err != nil {
			return err
		}
	}
	if b.Trigger {
		if err := pw.SetTrigger(e, true); err != nil {
			return err
		}
	}
	if b.Layer != nil {
		if err := pw.SetCollisionLayer(e, *b.Layer); err != nil {
			return err
		}
	}
	if b.Sprite != "" {
		if err := ecs.Add(w, e, component.Model{Mesh: MeshHandle(b.Sprite), Name: b.Sprite}); err != nil {
			return err
		}
	}
	if kind == component.ShapePlane {
		return nil
	}

	if b.UseGravity != nil {
		if err := pw.SetUseGravity(e, *b.UseGravity); err != nil {
			return err
		}
	}
	if b.Drag != nil {
		if err := pw.SetDrag(e, *b.Drag); err != nil {
			return err
		}
	}
	if b.Velocity != nil && !b.Static {
		if err := pw.SetVelocity(e, b.Velocity.Vec3()); err != nil {
			return err
		}
	}
	if b.Kinematic {
		if err := pw.SetKinematic(e, true); err != nil {
			return err
		}
	}
	if b.Static {
		return pw.SetStatic(e, true)
	}
	return nil
}

// MeshHandle derives a stable handle from an asset path.
func MeshHandle(path string) component.MeshHandle {
	h := fnv.New64a()
	h.Write([]byte(path))
	return component.MeshHandle(h.Sum64())
}
