package component

import "github.com/go-gl/mathgl/mgl64"

type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapePlane
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapePlane:
		return "plane"
	default:
		return "unknown"
	}
}

// Collider describes the collision shape of an entity, centered on its
// Transform. Boxes are axis aligned and scaled by Transform.Scale. A plane is
// the set of points p with Normal·(p - Transform.Position) == Offset.
type Collider struct {
	Shape       ShapeKind
	Radius      float64
	HalfExtents mgl64.Vec3
	Normal      mgl64.Vec3
	Offset      float64
	Trigger     bool
}

func Sphere(radius float64) Collider {
	return Collider{Shape: ShapeSphere, Radius: radius}
}

func Box(halfExtents mgl64.Vec3) Collider {
	return Collider{Shape: ShapeBox, HalfExtents: halfExtents}
}

// Plane normalizes n; a zero normal falls back to +Y.
func Plane(n mgl64.Vec3, offset float64) Collider {
	if n.Len() == 0 {
		n = mgl64.Vec3{0, 1, 0}
	}
	return Collider{Shape: ShapePlane, Normal: n.Normalize(), Offset: offset}
}

// CollisionLayer allows entities to declare a collision category and mask
// so detection can skip pairs between groups that never interact.
type CollisionLayer struct {
	// Category is a bitmask of this entity's collision category. If zero,
	// it is treated as category 1.
	Category uint32 `yaml:"category,omitempty"`
	// Mask is a bitmask of categories this entity collides with. If zero, it
	// is treated as all bits set.
	Mask uint32 `yaml:"mask,omitempty"`
}

func (l CollisionLayer) category() uint32 {
	if l.Category == 0 {
		return 1
	}
	return l.Category
}

func (l CollisionLayer) mask() uint32 {
	if l.Mask == 0 {
		return ^uint32(0)
	}
	return l.Mask
}

// Interacts reports whether each layer accepts the other's category.
func (l CollisionLayer) Interacts(other CollisionLayer) bool {
	return l.mask()&other.category() != 0 && other.mask()&l.category() != 0
}
