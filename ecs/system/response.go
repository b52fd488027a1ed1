package system

import (
	"math"

	"github.com/milk9111/simcore/common"
	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
)

const (
	DefaultSlop    = 0.01
	DefaultPercent = 0.4
)

// TriggerFunc is called once per tick for every trigger contact.
type TriggerFunc func(Collision)

type ResponseConfig struct {
	// Slop is the penetration left uncorrected.
	Slop float64
	// Percent is the share of the remaining penetration corrected per tick.
	Percent float64
}

func DefaultResponseConfig() ResponseConfig {
	return ResponseConfig{Slop: DefaultSlop, Percent: DefaultPercent}
}

// ResponseSystem resolves the detection system's manifest: positional
// correction, normal impulse and friction for solid contacts, callbacks for
// triggers. A bad pair is skipped, never fatal to the tick.
type ResponseSystem struct {
	ecs.Membership

	cfg       ResponseConfig
	detection *CollisionSystem
	triggers  []TriggerFunc
	resolved  int
}

func NewResponseSystem(cfg ResponseConfig, detection *CollisionSystem) *ResponseSystem {
	return &ResponseSystem{cfg: cfg, detection: detection}
}

// Register adds the system to w, matching Transform + RigidBody.
func (rs *ResponseSystem) Register(w *ecs.World) error {
	sig, err := signatureOf(w, componentIDOf[component.Transform], componentIDOf[component.RigidBody])
	if err != nil {
		return err
	}
	return w.RegisterSystem(rs, sig)
}

// AddTriggerCallback registers fn. Callbacks run during Update and must not add
// or remove components or entities.
func (rs *ResponseSystem) AddTriggerCallback(fn TriggerFunc) {
	if rs == nil || fn == nil {
		return
	}
	rs.triggers = append(rs.triggers, fn)
}

func (rs *ResponseSystem) Update(w *ecs.World, dt float64) {
	if rs == nil || w == nil || rs.detection == nil {
		return
	}
	rs.Resolve(w, rs.detection.Manifest())
}

// Resolve applies every record of manifest in order.
func (rs *ResponseSystem) Resolve(w *ecs.World, manifest []Collision) {
	rs.resolved = 0
	for _, c := range manifest {
		if c.Trigger {
			for _, fn := range rs.triggers {
				fn(c)
			}
			w.Events().Push(ecs.Event{Kind: ecs.EventTrigger, Data: c})
			continue
		}
		if rs.resolveContact(w, c) {
			rs.resolved++
			w.Events().Push(ecs.Event{Kind: ecs.EventContact, Data: c})
		}
	}
}

// Resolved returns how many solid contacts were resolved last tick.
func (rs *ResponseSystem) Resolved() int {
	return rs.resolved
}

func (rs *ResponseSystem) resolveContact(w *ecs.World, c Collision) bool {
	rbA, okA := ecs.Get[component.RigidBody](w, c.A)
	rbB, okB := ecs.Get[component.RigidBody](w, c.B)
	if !okA || !okB {
		return false
	}
	tA, okA := ecs.Get[component.Transform](w, c.A)
	tB, okB := ecs.Get[component.Transform](w, c.B)
	if !okA || !okB {
		return false
	}
	invA, invB := rbA.EffectiveInvMass(), rbB.EffectiveInvMass()
	invSum := invA + invB
	if invSum <= 0 {
		return false
	}
	n := c.Normal

	// positional correction, biased to avoid jitter
	correction := math.Max(c.Penetration-rs.cfg.Slop, 0) / invSum * rs.cfg.Percent
	if correction > 0 {
		tA.Position = tA.Position.Sub(n.Mul(correction * invA))
		tB.Position = tB.Position.Add(n.Mul(correction * invB))
	}

	rv := rbB.Velocity.Sub(rbA.Velocity)
	velAlongNormal := rv.Dot(n)
	if velAlongNormal > 0 {
		return true
	}

	e := math.Min(rbA.Restitution, rbB.Restitution)
	j := -(1 + e) * velAlongNormal / invSum
	impulse := n.Mul(j)
	rbA.Velocity = rbA.Velocity.Sub(impulse.Mul(invA))
	rbB.Velocity = rbB.Velocity.Add(impulse.Mul(invB))

	// Coulomb friction on the tangential part of the new relative velocity
	rv = rbB.Velocity.Sub(rbA.Velocity)
	tangent := rv.Sub(n.Mul(rv.Dot(n)))
	tLen := tangent.Len()
	if tLen < common.Epsilon {
		return true
	}
	tangent = tangent.Mul(1 / tLen)
	jt := -rv.Dot(tangent) / invSum

	friction := tangent.Mul(jt)
	if math.Abs(jt) >= j*rbA.StaticFriction {
		friction = tangent.Mul(-j * rbA.DynamicFriction)
	}
	rbA.Velocity = rbA.Velocity.Sub(friction.Mul(invA))
	rbB.Velocity = rbB.Velocity.Add(friction.Mul(invB))
	return true
}
