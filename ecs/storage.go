package ecs

import (
	"fmt"
	"reflect"
)

// componentRegistry assigns ComponentIDs on first use of a type and owns one
// SparseSet per type. Ids are local to the owning World.
type componentRegistry struct {
	ids    map[reflect.Type]ComponentID
	names  []string
	stores []componentStore
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{ids: make(map[reflect.Type]ComponentID)}
}

func registerComponent[T any](r *componentRegistry) (ComponentID, *SparseSet[T], error) {
	typ := reflect.TypeFor[T]()
	if id, ok := r.ids[typ]; ok {
		return id, r.stores[id].(*SparseSet[T]), nil
	}
	if len(r.stores) >= MaxComponentTypes {
		return 0, nil, fmt.Errorf("%w: registering %s", ErrTooManyComponentTypes, typ)
	}
	id := ComponentID(len(r.stores))
	set := NewSparseSet[T]()
	r.ids[typ] = id
	r.names = append(r.names, typ.String())
	r.stores = append(r.stores, set)
	return id, set, nil
}

func lookupComponent[T any](r *componentRegistry) (ComponentID, *SparseSet[T], bool) {
	id, ok := r.ids[reflect.TypeFor[T]()]
	if !ok {
		return 0, nil, false
	}
	return id, r.stores[id].(*SparseSet[T]), true
}

// entityDestroyed purges e from every registered store.
func (r *componentRegistry) entityDestroyed(e Entity) {
	for _, store := range r.stores {
		store.EntityDestroyed(e)
	}
}

func (r *componentRegistry) name(id ComponentID) string {
	if int(id) >= len(r.names) {
		return fmt.Sprintf("component#%d", id)
	}
	return r.names[id]
}
