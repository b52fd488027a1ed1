package ecs

import (
	"math"
	"strconv"

	"gopkg.in/eapache/queue.v1"
)

// Entity is an opaque handle. Ids are always below the world's entity capacity.
type Entity uint32

// NoEntity is the null handle for cross-entity references.
const NoEntity Entity = math.MaxUint32

func (e Entity) String() string {
	if e == NoEntity {
		return "none"
	}
	return strconv.FormatUint(uint64(e), 10)
}

// entityRegistry issues ids from a FIFO pool and stores one signature per id.
type entityRegistry struct {
	free       *queue.Queue
	signatures []Signature
	live       []bool
	count      int
}

func newEntityRegistry(capacity int) *entityRegistry {
	r := &entityRegistry{
		free:       queue.New(),
		signatures: make([]Signature, capacity),
		live:       make([]bool, capacity),
	}
	for i := 0; i < capacity; i++ {
		r.free.Add(Entity(i))
		r.signatures[i] = NewSignature()
	}
	return r
}

func (r *entityRegistry) create() (Entity, error) {
	if r.free.Length() == 0 {
		return NoEntity, ErrCapacityExceeded
	}
	e := r.free.Remove().(Entity)
	r.live[e] = true
	r.count++
	return e, nil
}

// destroy returns the id to the back of the pool. Dead or unknown ids are ignored
// so an id is never queued twice.
func (r *entityRegistry) destroy(e Entity) {
	if !r.alive(e) {
		return
	}
	r.signatures[e] = NewSignature()
	r.live[e] = false
	r.count--
	r.free.Add(e)
}

func (r *entityRegistry) alive(e Entity) bool {
	return int64(e) < int64(len(r.live)) && r.live[e]
}

func (r *entityRegistry) signature(e Entity) Signature {
	return r.signatures[e]
}

func (r *entityRegistry) setSignature(e Entity, sig Signature) {
	r.signatures[e] = sig
}

func (r *entityRegistry) living() int {
	return r.count
}

func (r *entityRegistry) capacity() int {
	return len(r.live)
}
