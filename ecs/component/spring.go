package component

import "github.com/milk9111/simcore/ecs"

// Spring pulls its entity toward Target. The target is a plain handle and is
// skipped while it is dead or has no Transform.
type Spring struct {
	Target     ecs.Entity
	RestLength float64
	Stiffness  float64
	Damping    float64
}
