package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultDrag            = 0.99
	DefaultRestitution     = 0.5
	DefaultStaticFriction  = 0.6
	DefaultDynamicFriction = 0.4
)

// RigidBody is the dynamic state of a body. InvMass of 0 means the body is not
// moved by impulses. Drag is the fraction of velocity kept per second.
type RigidBody struct {
	Velocity mgl64.Vec3
	Force    mgl64.Vec3

	Mass    float64
	InvMass float64
	Drag    float64

	Restitution     float64
	StaticFriction  float64
	DynamicFriction float64

	UseGravity bool
	Static     bool
	Kinematic  bool
}

// Material is the surface response of a body.
type Material struct {
	Restitution     float64 `yaml:"restitution"`
	StaticFriction  float64 `yaml:"static_friction"`
	DynamicFriction float64 `yaml:"dynamic_friction"`
}

func DefaultMaterial() Material {
	return Material{
		Restitution:     DefaultRestitution,
		StaticFriction:  DefaultStaticFriction,
		DynamicFriction: DefaultDynamicFriction,
	}
}

// NewRigidBody returns a dynamic, gravity-affected body with default material.
func NewRigidBody(mass float64) RigidBody {
	rb := RigidBody{
		Drag:       DefaultDrag,
		UseGravity: true,
	}
	rb.SetMaterial(DefaultMaterial())
	rb.SetMass(mass)
	return rb
}

// NewStaticBody returns an immovable body.
func NewStaticBody() RigidBody {
	rb := NewRigidBody(0)
	rb.SetStatic(true)
	return rb
}

// SetMass stores mass and derives InvMass. Non-positive mass gives InvMass 0.
func (rb *RigidBody) SetMass(mass float64) {
	rb.Mass = mass
	rb.updateInvMass()
}

// SetStatic toggles infinite-mass semantics. Entering static zeroes motion.
func (rb *RigidBody) SetStatic(static bool) {
	rb.Static = static
	if static {
		rb.Velocity = mgl64.Vec3{}
		rb.Force = mgl64.Vec3{}
	}
	rb.updateInvMass()
}

func (rb *RigidBody) SetMaterial(m Material) {
	rb.Restitution = m.Restitution
	rb.StaticFriction = m.StaticFriction
	rb.DynamicFriction = m.DynamicFriction
}

func (rb RigidBody) Material() Material {
	return Material{
		Restitution:     rb.Restitution,
		StaticFriction:  rb.StaticFriction,
		DynamicFriction: rb.DynamicFriction,
	}
}

func (rb *RigidBody) updateInvMass() {
	if rb.Static || rb.Mass <= 0 || math.IsInf(rb.Mass, 1) {
		rb.InvMass = 0
		return
	}
	rb.InvMass = 1 / rb.Mass
}

// EffectiveInvMass is the inverse mass seen by collision response. Kinematic
// bodies are driven by the host and behave as infinite mass.
func (rb RigidBody) EffectiveInvMass() float64 {
	if rb.Static || rb.Kinematic {
		return 0
	}
	return rb.InvMass
}

// Dynamic reports whether the integrator moves this body.
func (rb RigidBody) Dynamic() bool {
	return !rb.Static && !rb.Kinematic
}

func (rb RigidBody) KineticEnergy() float64 {
	if rb.Static || rb.Mass <= 0 {
		return 0
	}
	return 0.5 * rb.Mass * rb.Velocity.Dot(rb.Velocity)
}
