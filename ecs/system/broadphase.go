package system

import (
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
)

// proxy is a snapshot of one collider taken at the start of detection.
type proxy struct {
	index     int
	entity    ecs.Entity
	transform component.Transform
	collider  component.Collider
	layer     component.CollisionLayer
	hasLayer  bool

	// bb is the x/y projection of the world bounds; z is checked separately.
	bb         cp.BB
	minZ, maxZ float64
}

func newProxy(index int, e ecs.Entity, t component.Transform, c component.Collider) proxy {
	b := component.ColliderBounds(t, c)
	return proxy{
		index:     index,
		entity:    e,
		transform: t,
		collider:  c,
		bb:        cp.BB{L: b.Min.X(), B: b.Min.Y(), R: b.Max.X(), T: b.Max.Y()},
		minZ:      b.Min.Z(),
		maxZ:      b.Max.Z(),
	}
}

func (p *proxy) isPlane() bool {
	return p.collider.Shape == component.ShapePlane
}

// mayTouch is the inclusive bounds test. It never rejects a pair the narrow
// phase would report. Planes are unbounded and always pass.
func (p *proxy) mayTouch(o *proxy) bool {
	if p.isPlane() || o.isPlane() {
		return true
	}
	return p.bb.Intersects(o.bb) && p.minZ <= o.maxZ && o.minZ <= p.maxZ
}

func (p *proxy) accepts(o *proxy) bool {
	if !p.hasLayer || !o.hasLayer {
		return true
	}
	return p.layer.Interacts(o.layer)
}

type candidatePair struct {
	i, j int
}

// bruteForcePairs is the reference O(n²) scan in member order.
func bruteForcePairs(proxies []proxy) []candidatePair {
	var pairs []candidatePair
	for i := 0; i < len(proxies); i++ {
		for j := i + 1; j < len(proxies); j++ {
			if proxies[i].mayTouch(&proxies[j]) {
				pairs = append(pairs, candidatePair{i, j})
			}
		}
	}
	return pairs
}

// sweepPairs finds the same pairs as bruteForcePairs with a sort and sweep
// along x. The result is sorted back into (i, j) order so the manifest order
// does not depend on the broad phase used.
func sweepPairs(proxies []proxy) []candidatePair {
	var planes, bounded []int
	for i := range proxies {
		if proxies[i].isPlane() {
			planes = append(planes, i)
		} else {
			bounded = append(bounded, i)
		}
	}
	sort.Slice(bounded, func(a, b int) bool {
		return proxies[bounded[a]].bb.L < proxies[bounded[b]].bb.L
	})

	var pairs []candidatePair
	add := func(i, j int) {
		if i > j {
			i, j = j, i
		}
		pairs = append(pairs, candidatePair{i, j})
	}
	for a := 0; a < len(bounded); a++ {
		pa := &proxies[bounded[a]]
		for b := a + 1; b < len(bounded); b++ {
			pb := &proxies[bounded[b]]
			if pb.bb.L > pa.bb.R {
				break
			}
			if pa.mayTouch(pb) {
				add(bounded[a], bounded[b])
			}
		}
	}
	for _, p := range planes {
		for i := range proxies {
			if i == p {
				continue
			}
			// plane-plane pairs are visited from both planes; keep one
			if proxies[i].isPlane() && i < p {
				continue
			}
			add(p, i)
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].i != pairs[b].i {
			return pairs[a].i < pairs[b].i
		}
		return pairs[a].j < pairs[b].j
	})
	return pairs
}
