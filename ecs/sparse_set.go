package ecs

// componentStore is the type-erased view the World keeps for every component type.
type componentStore interface {
	EntityDestroyed(e Entity)
	Has(e Entity) bool
	Len() int
}

// SparseSet is a dense array of T keyed by Entity. slotToEntity and entityToSlot
// are kept inverse to each other after every Set and Remove.
type SparseSet[T any] struct {
	values       []T
	slotToEntity []Entity
	entityToSlot []int
}

func NewSparseSet[T any]() *SparseSet[T] {
	return &SparseSet[T]{}
}

// Has returns true if the entity has a value in the set.
func (s *SparseSet[T]) Has(e Entity) bool {
	if s == nil || int(e) >= len(s.entityToSlot) {
		return false
	}
	return s.entityToSlot[e] >= 0
}

// Get returns a pointer into dense storage. It is only valid until the next Set
// or Remove on this set.
func (s *SparseSet[T]) Get(e Entity) (*T, bool) {
	if !s.Has(e) {
		return nil, false
	}
	return &s.values[s.entityToSlot[e]], true
}

// Set inserts or overwrites the value for e.
func (s *SparseSet[T]) Set(e Entity, v T) {
	if s == nil {
		return
	}
	for int(e) >= len(s.entityToSlot) {
		s.entityToSlot = append(s.entityToSlot, -1)
	}
	if slot := s.entityToSlot[e]; slot >= 0 {
		s.values[slot] = v
		return
	}
	s.values = append(s.values, v)
	s.slotToEntity = append(s.slotToEntity, e)
	s.entityToSlot[e] = len(s.values) - 1
}

// Remove deletes the value for e if present, moving the last value into its slot.
func (s *SparseSet[T]) Remove(e Entity) bool {
	if !s.Has(e) {
		return false
	}
	slot := s.entityToSlot[e]
	last := len(s.values) - 1
	moved := s.slotToEntity[last]

	s.values[slot] = s.values[last]
	s.slotToEntity[slot] = moved
	s.entityToSlot[moved] = slot

	var zero T
	s.values[last] = zero
	s.values = s.values[:last]
	s.slotToEntity = s.slotToEntity[:last]
	s.entityToSlot[e] = -1
	return true
}

func (s *SparseSet[T]) EntityDestroyed(e Entity) {
	s.Remove(e)
}

func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Entities returns the dense entity list. Do not mutate it.
func (s *SparseSet[T]) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.slotToEntity
}

// Values returns the dense value list, parallel to Entities.
func (s *SparseSet[T]) Values() []T {
	if s == nil {
		return nil
	}
	return s.values
}
