package system

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/simcore/common"
	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
)

const DefaultFixedStep = 1.0 / 60.0

// DefaultGravity is Earth gravity along -Y.
var DefaultGravity = mgl64.Vec3{0, -9.81, 0}

// ForceGenerator adds forces to bodies at the start of every fixed step.
type ForceGenerator interface {
	ApplyForces(w *ecs.World, h float64)
}

type IntegrationConfig struct {
	FixedStep float64
	Gravity   mgl64.Vec3
	// MaxSubSteps caps the steps run by one Update; 0 means no cap. Time past
	// the cap is dropped.
	MaxSubSteps int
}

func DefaultIntegrationConfig() IntegrationConfig {
	return IntegrationConfig{
		FixedStep: DefaultFixedStep,
		Gravity:   DefaultGravity,
	}
}

// PhysicsSystem integrates forces, velocities and positions of rigid bodies on a
// fixed timestep, decoupled from the frame dt by an accumulator.
type PhysicsSystem struct {
	ecs.Membership

	cfg         IntegrationConfig
	accumulator float64
	steps       uint64
	generators  []ForceGenerator
}

func NewPhysicsSystem(cfg IntegrationConfig) *PhysicsSystem {
	if cfg.FixedStep <= 0 {
		cfg.FixedStep = DefaultFixedStep
	}
	return &PhysicsSystem{cfg: cfg}
}

// Register adds the system to w, matching Transform + RigidBody.
func (ps *PhysicsSystem) Register(w *ecs.World) error {
	sig, err := signatureOf(w, componentIDOf[component.Transform], componentIDOf[component.RigidBody])
	if err != nil {
		return err
	}
	return w.RegisterSystem(ps, sig)
}

// AddForceGenerator appends g; generators run in insertion order each step.
func (ps *PhysicsSystem) AddForceGenerator(g ForceGenerator) {
	if ps == nil || g == nil {
		return
	}
	ps.generators = append(ps.generators, g)
}

func (ps *PhysicsSystem) Update(w *ecs.World, dt float64) {
	if ps == nil || w == nil || !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	h := ps.cfg.FixedStep
	ps.accumulator += dt
	n := 0
	// Repeated subtraction leaves the accumulator a rounding error short of h.
	for ps.accumulator >= h-common.Epsilon {
		if ps.cfg.MaxSubSteps > 0 && n >= ps.cfg.MaxSubSteps {
			dropped := float64(int((ps.accumulator+common.Epsilon)/h)) * h
			ps.accumulator = math.Max(ps.accumulator-dropped, 0)
			log.Printf("PhysicsSystem: dropped %.4fs of simulation time after %d steps", dropped, n)
			break
		}
		ps.Step(w, h)
		ps.accumulator = math.Max(ps.accumulator-h, 0)
		n++
	}
}

// Step advances every dynamic body by h.
func (ps *PhysicsSystem) Step(w *ecs.World, h float64) {
	for _, g := range ps.generators {
		g.ApplyForces(w, h)
	}
	for _, e := range ps.Entities() {
		rb := ecs.MustGet[component.RigidBody](w, e)
		if !rb.Dynamic() {
			rb.Force = mgl64.Vec3{}
			continue
		}
		t := ecs.MustGet[component.Transform](w, e)

		if rb.UseGravity {
			rb.Force = rb.Force.Add(ps.cfg.Gravity.Mul(rb.Mass))
		}
		accel := rb.Force.Mul(rb.InvMass)
		rb.Velocity = rb.Velocity.Add(accel.Mul(h))
		rb.Velocity = rb.Velocity.Mul(math.Pow(rb.Drag, h))
		t.Position = t.Position.Add(rb.Velocity.Mul(h))
		rb.Force = mgl64.Vec3{}
	}
	ps.steps++
}

func (ps *PhysicsSystem) Gravity() mgl64.Vec3 {
	return ps.cfg.Gravity
}

func (ps *PhysicsSystem) SetGravity(g mgl64.Vec3) {
	ps.cfg.Gravity = g
}

func (ps *PhysicsSystem) FixedStep() float64 {
	return ps.cfg.FixedStep
}

// Alpha is the fraction of a step left in the accumulator, for render interpolation.
func (ps *PhysicsSystem) Alpha() float64 {
	return ps.accumulator / ps.cfg.FixedStep
}

// Steps returns the number of fixed steps taken so far.
func (ps *PhysicsSystem) Steps() uint64 {
	return ps.steps
}
