package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/simcore/common"
	"github.com/milk9111/simcore/ecs/component"
)

// contact is a narrow-phase result. normal points from operand A toward B.
type contact struct {
	normal      mgl64.Vec3
	point       mgl64.Vec3
	penetration float64
}

func sphereSphere(ca mgl64.Vec3, ra float64, cb mgl64.Vec3, rb float64) (contact, bool) {
	d := cb.Sub(ca)
	dist := d.Len()
	sum := ra + rb
	if dist >= sum || dist <= 0 {
		return contact{}, false
	}
	n := d.Mul(1 / dist)
	return contact{
		normal:      n,
		point:       ca.Add(n.Mul(ra)),
		penetration: sum - dist,
	}, true
}

// boxBox tests two AABBs given centers and half extents. The contact is on the
// axis of least overlap; its point is the center of the overlap region.
func boxBox(ca, ha, cb, hb mgl64.Vec3) (contact, bool) {
	axis := -1
	minOverlap := math.Inf(1)
	var point mgl64.Vec3
	for i := 0; i < 3; i++ {
		overlap := ha[i] + hb[i] - math.Abs(cb[i]-ca[i])
		if overlap <= 0 {
			return contact{}, false
		}
		if overlap < minOverlap {
			minOverlap = overlap
			axis = i
		}
		lo := math.Max(ca[i]-ha[i], cb[i]-hb[i])
		hi := math.Min(ca[i]+ha[i], cb[i]+hb[i])
		point[i] = (lo + hi) / 2
	}
	var n mgl64.Vec3
	if cb[axis] < ca[axis] {
		n[axis] = -1
	} else {
		n[axis] = 1
	}
	return contact{normal: n, point: point, penetration: minOverlap}, true
}

// sphereBox tests a sphere (A) against an AABB (B). When the sphere center is
// inside the box the normal falls back to the box's up axis rather than the
// true minimum translation; the sphere is pushed out along up.
func sphereBox(c mgl64.Vec3, r float64, bc, bh, up mgl64.Vec3) (contact, bool) {
	var closest mgl64.Vec3
	for i := 0; i < 3; i++ {
		closest[i] = common.Clamp(c[i], bc[i]-bh[i], bc[i]+bh[i])
	}
	diff := c.Sub(closest)
	dist := diff.Len()
	if dist >= r {
		return contact{}, false
	}
	if dist == 0 {
		return contact{normal: up.Mul(-1), point: closest, penetration: r}, true
	}
	return contact{
		normal:      diff.Mul(-1 / dist),
		point:       closest,
		penetration: r - dist,
	}, true
}

// shapePlane tests any non-plane shape (A) against a plane (B). The threshold is
// the sphere radius or the box's projected half extent along the plane normal.
func shapePlane(a, plane *proxy) (contact, bool) {
	n := plane.collider.Normal
	if n.Len() == 0 {
		n = mgl64.Vec3{0, 1, 0}
	}
	n = n.Normalize()

	pos := a.transform.Position
	signed := n.Dot(pos.Sub(plane.transform.Position)) - plane.collider.Offset

	var threshold float64
	switch a.collider.Shape {
	case component.ShapeSphere:
		threshold = a.collider.Radius * a.transform.MaxScale()
	case component.ShapeBox:
		h := component.ScaledHalfExtents(a.transform, a.collider)
		threshold = math.Abs(n[0])*h[0] + math.Abs(n[1])*h[1] + math.Abs(n[2])*h[2]
	default:
		return contact{}, false
	}
	if signed >= threshold {
		return contact{}, false
	}
	return contact{
		normal:      n.Mul(-1),
		point:       pos.Sub(n.Mul(signed)),
		penetration: threshold - signed,
	}, true
}

// narrowPhase dispatches on shape kinds in the order sphere-sphere, box-box,
// sphere-box, any-plane. It returns the operands in record order: planes are
// always B. Plane-plane and unknown shapes produce no contact.
func narrowPhase(a, b *proxy) (first, second *proxy, c contact, ok bool) {
	sa, sb := a.collider.Shape, b.collider.Shape
	switch {
	case sa == component.ShapeSphere && sb == component.ShapeSphere:
		c, ok = sphereSphere(
			a.transform.Position, a.collider.Radius*a.transform.MaxScale(),
			b.transform.Position, b.collider.Radius*b.transform.MaxScale(),
		)
		return a, b, c, ok
	case sa == component.ShapeBox && sb == component.ShapeBox:
		c, ok = boxBox(
			a.transform.Position, component.ScaledHalfExtents(a.transform, a.collider),
			b.transform.Position, component.ScaledHalfExtents(b.transform, b.collider),
		)
		return a, b, c, ok
	case sa == component.ShapeSphere && sb == component.ShapeBox:
		c, ok = sphereBox(
			a.transform.Position, a.collider.Radius*a.transform.MaxScale(),
			b.transform.Position, component.ScaledHalfExtents(b.transform, b.collider), b.transform.Up(),
		)
		return a, b, c, ok
	case sa == component.ShapeBox && sb == component.ShapeSphere:
		c, ok = sphereBox(
			b.transform.Position, b.collider.Radius*b.transform.MaxScale(),
			a.transform.Position, component.ScaledHalfExtents(a.transform, a.collider), a.transform.Up(),
		)
		c.normal = c.normal.Mul(-1)
		return a, b, c, ok
	case sb == component.ShapePlane && sa != component.ShapePlane:
		c, ok = shapePlane(a, b)
		return a, b, c, ok
	case sa == component.ShapePlane && sb != component.ShapePlane:
		c, ok = shapePlane(b, a)
		return b, a, c, ok
	}
	return a, b, contact{}, false
}
