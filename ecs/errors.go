package ecs

import "errors"

var (
	ErrCapacityExceeded      = errors.New("ecs: entity capacity exceeded")
	ErrEntityNotAlive        = errors.New("ecs: entity not alive")
	ErrTooManyComponentTypes = errors.New("ecs: too many component types")
	ErrComponentMissing      = errors.New("ecs: component missing")
	ErrSystemRegistered      = errors.New("ecs: system already registered")
	ErrSystemNotRegistered   = errors.New("ecs: system not registered")
)
