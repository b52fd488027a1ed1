package ecs

import (
	"strings"

	"github.com/willf/bitset"
)

// MaxComponentTypes is the fixed signature width.
const MaxComponentTypes = 64

// ComponentID is the bit position assigned to a component type by a World.
type ComponentID uint8

// Signature flags which component types an entity owns, or which a system requires.
// Values are immutable; With and Without return modified copies.
type Signature struct {
	bits *bitset.BitSet
}

func NewSignature(ids ...ComponentID) Signature {
	bits := bitset.New(MaxComponentTypes)
	for _, id := range ids {
		bits.Set(uint(id))
	}
	return Signature{bits: bits}
}

func (s Signature) set() *bitset.BitSet {
	if s.bits == nil {
		return bitset.New(MaxComponentTypes)
	}
	return s.bits
}

func (s Signature) With(id ComponentID) Signature {
	bits := s.set().Clone()
	bits.Set(uint(id))
	return Signature{bits: bits}
}

func (s Signature) Without(id ComponentID) Signature {
	bits := s.set().Clone()
	bits.Clear(uint(id))
	return Signature{bits: bits}
}

func (s Signature) Has(id ComponentID) bool {
	return s.bits != nil && s.bits.Test(uint(id))
}

// Contains reports whether every bit of sub is also set in s.
func (s Signature) Contains(sub Signature) bool {
	return s.set().IsSuperSet(sub.set())
}

func (s Signature) Count() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

func (s Signature) IsEmpty() bool {
	return s.Count() == 0
}

func (s Signature) Equal(other Signature) bool {
	return s.set().Equal(other.set())
}

// IDs lists the set bits in ascending order.
func (s Signature) IDs() []ComponentID {
	if s.bits == nil {
		return nil
	}
	ids := make([]ComponentID, 0, s.bits.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		ids = append(ids, ComponentID(i))
	}
	return ids
}

func (s Signature) String() string {
	var b strings.Builder
	b.Grow(MaxComponentTypes)
	for i := MaxComponentTypes - 1; i >= 0; i-- {
		if s.Has(ComponentID(i)) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
