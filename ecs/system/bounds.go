package system

import (
	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
)

// BoundsSystem refreshes world-space Bounds from Transform and Collider after
// the physics pipeline has moved everything.
type BoundsSystem struct {
	ecs.Membership
}

func NewBoundsSystem() *BoundsSystem {
	return &BoundsSystem{}
}

// Register adds the system to w, matching Transform + Collider + Bounds.
func (bs *BoundsSystem) Register(w *ecs.World) error {
	sig, err := signatureOf(w,
		componentIDOf[component.Transform],
		componentIDOf[component.Collider],
		componentIDOf[component.Bounds],
	)
	if err != nil {
		return err
	}
	return w.RegisterSystem(bs, sig)
}

func (bs *BoundsSystem) Update(w *ecs.World, dt float64) {
	if bs == nil || w == nil {
		return
	}
	for _, e := range bs.Entities() {
		t := ecs.MustGet[component.Transform](w, e)
		c := ecs.MustGet[component.Collider](w, e)
		b := ecs.MustGet[component.Bounds](w, e)
		*b = component.ColliderBounds(*t, *c)
	}
}
