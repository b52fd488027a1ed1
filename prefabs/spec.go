package prefabs

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
	"github.com/milk9111/simcore/ecs/system"
	"github.com/milk9111/simcore/physics"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScene = errors.New("prefabs: invalid scene")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadScene loads and validates a scene by name; ".yaml" is implied.
func LoadScene(name string) (SceneSpec, error) {
	if filepath.Ext(name) == "" {
		name += ".yaml"
	}
	spec, err := LoadSpec[SceneSpec](name)
	if err != nil {
		return SceneSpec{}, err
	}
	if spec.Name == "" {
		spec.Name = SceneName(name)
	}
	if err := spec.Validate(); err != nil {
		return SceneSpec{}, err
	}
	return spec, nil
}

// SceneName is the scene a file path names: its base without extension.
func SceneName(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type SceneSpec struct {
	Name    string      `yaml:"name"`
	Physics PhysicsSpec `yaml:"physics"`
	Bodies  []BodySpec  `yaml:"bodies"`
}

// PhysicsSpec overrides physics defaults. Unset fields keep the default.
type PhysicsSpec struct {
	Gravity     *Vec3Spec `yaml:"gravity"`
	FixedStep   float64   `yaml:"fixed_step"`
	MaxSubSteps *int      `yaml:"max_sub_steps"`
	Slop        *float64  `yaml:"slop"`
	Correction  *float64  `yaml:"correction"`
	MaxEntities int       `yaml:"max_entities"`
	BroadPhase  string    `yaml:"broad_phase"`
}

type BodySpec struct {
	Name  string `yaml:"name"`
	Shape string `yaml:"shape"`

	Position Vec3Spec  `yaml:"position"`
	Scale    *Vec3Spec `yaml:"scale"`

	// Count spawns the body Count times, each offset by Spacing from the last.
	Count   int      `yaml:"count"`
	Spacing Vec3Spec `yaml:"spacing"`

	Radius      float64  `yaml:"radius"`
	HalfExtents Vec3Spec `yaml:"half_extents"`
	Normal      Vec3Spec `yaml:"normal"`
	Height      float64  `yaml:"height"`

	Mass       float64   `yaml:"mass"`
	Static     bool      `yaml:"static"`
	Kinematic  bool      `yaml:"kinematic"`
	Trigger    bool      `yaml:"trigger"`
	UseGravity *bool     `yaml:"use_gravity"`
	Drag       *float64  `yaml:"drag"`
	Velocity   *Vec3Spec `yaml:"velocity"`

	Material *component.Material       `yaml:"material"`
	Layer    *component.CollisionLayer `yaml:"layer"`
	Spring   *SpringSpec               `yaml:"spring"`
	Sprite   string                    `yaml:"sprite"`
}

type SpringSpec struct {
	Target     string  `yaml:"target"`
	RestLength float64 `yaml:"rest_length"`
	Stiffness  float64 `yaml:"stiffness"`
	Damping    float64 `yaml:"damping"`
}

// Vec3Spec decodes from either [x, y, z] or {x: .., y: .., z: ..}.
type Vec3Spec struct {
	X, Y, Z float64
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func (v *Vec3Spec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xs []float64
		if err := value.Decode(&xs); err != nil {
			return err
		}
		if len(xs) != 3 {
			return fmt.Errorf("vector must have 3 components, got %d", len(xs))
		}
		v.X, v.Y, v.Z = xs[0], xs[1], xs[2]
		return nil
	case yaml.MappingNode:
		var m struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
			Z float64 `yaml:"z"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		v.X, v.Y, v.Z = m.X, m.Y, m.Z
		return nil
	}
	return fmt.Errorf("vector must be a sequence or a mapping")
}

func parseShape(s string) (component.ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sphere":
		return component.ShapeSphere, nil
	case "box":
		return component.ShapeBox, nil
	case "plane":
		return component.ShapePlane, nil
	}
	return 0, fmt.Errorf("unknown shape %q", s)
}

// instances returns the entity names a body spawns.
func (b BodySpec) instances() []string {
	n := b.Count
	if n <= 0 {
		n = 1
	}
	names := make([]string, n)
	for i := range names {
		switch {
		case b.Name == "":
		case n == 1:
			names[i] = b.Name
		default:
			names[i] = fmt.Sprintf("%s_%d", b.Name, i)
		}
	}
	return names
}

func (s SceneSpec) Validate() error {
	invalid := func(i int, format string, args ...any) error {
		return fmt.Errorf("%w: %s: body %d: %s", ErrInvalidScene, s.Name, i, fmt.Sprintf(format, args...))
	}

	names := make(map[string]bool)
	for i, b := range s.Bodies {
		kind, err := parseShape(b.Shape)
		if err != nil {
			return invalid(i, "%v", err)
		}
		switch kind {
		case component.ShapeSphere:
			if b.Radius <= 0 {
				return invalid(i, "sphere radius must be positive")
			}
		case component.ShapeBox:
			h := b.HalfExtents
			if h.X <= 0 || h.Y <= 0 || h.Z <= 0 {
				return invalid(i, "box half extents must be positive")
			}
		}
		if b.Mass < 0 {
			return invalid(i, "negative mass")
		}
		if b.Static && b.Kinematic {
			return invalid(i, "body cannot be both static and kinematic")
		}
		for _, n := range b.instances() {
			if n == "" {
				continue
			}
			if names[n] {
				return invalid(i, "duplicate name %q", n)
			}
			names[n] = true
		}
	}
	for i, b := range s.Bodies {
		if b.Spring == nil {
			continue
		}
		if !names[b.Spring.Target] {
			return invalid(i, "spring target %q not found", b.Spring.Target)
		}
		if b.Spring.Stiffness < 0 || b.Spring.Damping < 0 {
			return invalid(i, "spring stiffness and damping must not be negative")
		}
	}
	if _, _, err := s.Physics.Config(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidScene, s.Name, err)
	}
	return nil
}

// Config applies the overrides to the ecs and physics defaults.
func (p PhysicsSpec) Config() (ecs.Config, physics.Config, error) {
	ecfg := ecs.DefaultConfig()
	cfg := physics.DefaultConfig()

	if p.MaxEntities < 0 {
		return ecfg, cfg, fmt.Errorf("max_entities must not be negative")
	}
	if p.MaxEntities > 0 {
		ecfg.MaxEntities = p.MaxEntities
	}
	if p.Gravity != nil {
		cfg.Integration.Gravity = p.Gravity.Vec3()
	}
	if p.FixedStep < 0 {
		return ecfg, cfg, fmt.Errorf("fixed_step must not be negative")
	}
	if p.FixedStep > 0 {
		cfg.Integration.FixedStep = p.FixedStep
	}
	if p.MaxSubSteps != nil {
		if *p.MaxSubSteps < 0 {
			return ecfg, cfg, fmt.Errorf("max_sub_steps must not be negative")
		}
		cfg.Integration.MaxSubSteps = *p.MaxSubSteps
	}
	if p.Slop != nil {
		if *p.Slop < 0 {
			return ecfg, cfg, fmt.Errorf("slop must not be negative")
		}
		cfg.Response.Slop = *p.Slop
	}
	if p.Correction != nil {
		if *p.Correction < 0 || *p.Correction > 1 {
			return ecfg, cfg, fmt.Errorf("correction must be within [0, 1]")
		}
		cfg.Response.Percent = *p.Correction
	}
	switch strings.ToLower(p.BroadPhase) {
	case "", "sweep":
		cfg.BroadPhase = system.BroadPhaseSweep
	case "brute_force":
		cfg.BroadPhase = system.BroadPhaseBruteForce
	default:
		return ecfg, cfg, fmt.Errorf("unknown broad_phase %q", p.BroadPhase)
	}
	return ecfg, cfg, nil
}
