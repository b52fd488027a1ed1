package component

import "github.com/go-gl/mathgl/mgl64"

// PlaneExtent is the half size used for the finite bounds of an infinite plane.
const PlaneExtent = 1e4

// Bounds is a world-space axis-aligned bounding box, refreshed every tick for
// culling and picking by render collaborators.
type Bounds struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

func (b Bounds) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Bounds) Extents() mgl64.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Overlaps is inclusive on every axis.
func (b Bounds) Overlaps(o Bounds) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] < o.Min[i] || o.Max[i] < b.Min[i] {
			return false
		}
	}
	return true
}

// ColliderBounds computes the world AABB of c placed by t.
func ColliderBounds(t Transform, c Collider) Bounds {
	p := t.Position
	switch c.Shape {
	case ShapeSphere:
		r := c.Radius * t.MaxScale()
		ext := mgl64.Vec3{r, r, r}
		return Bounds{Min: p.Sub(ext), Max: p.Add(ext)}
	case ShapeBox:
		h := ScaledHalfExtents(t, c)
		return Bounds{Min: p.Sub(h), Max: p.Add(h)}
	default:
		ext := mgl64.Vec3{PlaneExtent, PlaneExtent, PlaneExtent}
		// a thin slab around axis-aligned planes, a cube otherwise
		for i := 0; i < 3; i++ {
			if c.Normal[i] == 1 || c.Normal[i] == -1 {
				ext[i] = 0
				p[i] += c.Normal[i] * c.Offset
			}
		}
		return Bounds{Min: p.Sub(ext), Max: p.Add(ext)}
	}
}

// ScaledHalfExtents returns box half extents multiplied by the absolute scale.
func ScaledHalfExtents(t Transform, c Collider) mgl64.Vec3 {
	h := c.HalfExtents
	for i := 0; i < 3; i++ {
		s := t.Scale[i]
		if s < 0 {
			s = -s
		}
		if s == 0 {
			s = 1
		}
		h[i] *= s
	}
	return h
}
