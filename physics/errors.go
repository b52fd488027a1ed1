package physics

import "errors"

var (
	ErrNoRigidBody = errors.New("physics: entity has no rigid body")
	ErrNoCollider  = errors.New("physics: entity has no collider")
	ErrNotDynamic  = errors.New("physics: body is static or kinematic")
	ErrStaticBody  = errors.New("physics: body is static")
)
