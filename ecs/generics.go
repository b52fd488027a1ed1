package ecs

import (
	"fmt"
	"reflect"
)

// ComponentType returns the id for T in w, registering T on first use.
func ComponentType[T any](w *World) (ComponentID, error) {
	id, _, err := registerComponent[T](w.components)
	return id, err
}

// MustComponentType is ComponentType for setup code; it panics when the
// signature width is exhausted.
func MustComponentType[T any](w *World) ComponentID {
	id, err := ComponentType[T](w)
	if err != nil {
		panic(err)
	}
	return id
}

// Add upserts value on e. The store is written first, then the signature, then
// system membership is recomputed against the new signature.
func Add[T any](w *World, e Entity, value T) error {
	if !w.entities.alive(e) {
		return fmt.Errorf("%w: %s", ErrEntityNotAlive, e)
	}
	id, set, err := registerComponent[T](w.components)
	if err != nil {
		return err
	}
	set.Set(e, value)
	sig := w.entities.signature(e)
	if sig.Has(id) {
		return nil
	}
	w.setSignature(e, sig.With(id))
	return nil
}

// Remove deletes T from e. It reports false if e did not have T.
func Remove[T any](w *World, e Entity) bool {
	if !w.entities.alive(e) {
		return false
	}
	id, set, ok := lookupComponent[T](w.components)
	if !ok || !set.Remove(e) {
		return false
	}
	w.setSignature(e, w.entities.signature(e).Without(id))
	return true
}

// Get returns a pointer to e's T. The pointer is invalidated by the next Add or
// Remove of T on any entity.
func Get[T any](w *World, e Entity) (*T, bool) {
	_, set, ok := lookupComponent[T](w.components)
	if !ok {
		return nil, false
	}
	return set.Get(e)
}

// MustGet is Get for entities whose membership guarantees T. A miss means
// signatures and stores are out of sync, and it panics.
func MustGet[T any](w *World, e Entity) *T {
	v, ok := Get[T](w, e)
	if !ok {
		panic(fmt.Errorf("%w: %s on entity %s", ErrComponentMissing, reflect.TypeFor[T](), e))
	}
	return v
}

func Has[T any](w *World, e Entity) bool {
	_, set, ok := lookupComponent[T](w.components)
	return ok && set.Has(e)
}

// Count returns how many entities currently hold T.
func Count[T any](w *World) int {
	_, set, ok := lookupComponent[T](w.components)
	if !ok {
		return 0
	}
	return set.Len()
}

// Store returns the dense storage for T, registering T on first use.
func Store[T any](w *World) (*SparseSet[T], error) {
	_, set, err := registerComponent[T](w.components)
	return set, err
}

// GetSystem returns the registered instance of system type S.
func GetSystem[S System](w *World) (S, bool) {
	var zero S
	entry, ok := w.systems.lookup(reflect.TypeFor[S]())
	if !ok {
		return zero, false
	}
	sys, ok := entry.system.(S)
	return sys, ok
}

// SetSystemSignature replaces the signature of system type S and rebuilds its
// membership from every living entity.
func SetSystemSignature[S System](w *World, sig Signature) error {
	entry, ok := w.systems.lookup(reflect.TypeFor[S]())
	if !ok {
		return fmt.Errorf("%w: %s", ErrSystemNotRegistered, reflect.TypeFor[S]())
	}
	entry.signature = sig
	entry.system.membership().entities = nil
	w.forEachLiving(entry.match)
	return nil
}
