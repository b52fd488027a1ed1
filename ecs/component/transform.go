package component

import "github.com/go-gl/mathgl/mgl64"

type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform returns a transform at pos with identity rotation and unit scale.
func NewTransform(pos mgl64.Vec3) Transform {
	return Transform{
		Position: pos,
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// Matrix returns the model matrix translate * rotate * scale.
func (t Transform) Matrix() mgl64.Mat4 {
	rot := t.Rotation
	if rot.Len() == 0 {
		rot = mgl64.QuatIdent()
	}
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Up returns the local +Y axis in world space.
func (t Transform) Up() mgl64.Vec3 {
	if t.Rotation.Len() == 0 {
		return mgl64.Vec3{0, 1, 0}
	}
	return t.Rotation.Normalize().Rotate(mgl64.Vec3{0, 1, 0})
}

// MaxScale returns the largest absolute scale component, 1 for a zero scale.
func (t Transform) MaxScale() float64 {
	m := 0.0
	for _, s := range t.Scale {
		if s < 0 {
			s = -s
		}
		if s > m {
			m = s
		}
	}
	if m == 0 {
		return 1
	}
	return m
}
