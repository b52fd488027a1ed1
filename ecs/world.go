package ecs

import "fmt"

// DefaultMaxEntities is the entity capacity used by DefaultConfig.
const DefaultMaxEntities = 5000

type Config struct {
	MaxEntities int
}

func DefaultConfig() Config {
	return Config{MaxEntities: DefaultMaxEntities}
}

// World owns the entity registry, the component stores and the system registry.
// It is the only entry point for entity and component mutation and is not safe
// for concurrent use.
type World struct {
	entities   *entityRegistry
	components *componentRegistry
	systems    *scheduler
	events     EventQueue
	tick       uint64
}

// NewWorld creates an empty ECS world.
func NewWorld(cfg Config) *World {
	if cfg.MaxEntities <= 0 {
		cfg.MaxEntities = DefaultMaxEntities
	}
	return &World{
		entities:   newEntityRegistry(cfg.MaxEntities),
		components: newComponentRegistry(),
		systems:    newScheduler(),
	}
}

// CreateEntity allocates an id from the recycling pool.
func (w *World) CreateEntity() (Entity, error) {
	return w.entities.create()
}

// DestroyEntity purges the entity's components, then its system memberships,
// and only then returns the id to the pool. It reports false for dead entities.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.alive(e) {
		return false
	}
	w.components.entityDestroyed(e)
	w.systems.entityDestroyed(e)
	w.entities.destroy(e)
	return true
}

// IsAlive reports whether an entity handle is currently allocated.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.alive(e)
}

func (w *World) EntityCount() int {
	return w.entities.living()
}

func (w *World) Capacity() int {
	return w.entities.capacity()
}

// Signature returns the entity's current component signature.
func (w *World) Signature(e Entity) Signature {
	return w.entities.signature(e)
}

// ComponentName returns the Go type name registered under id.
func (w *World) ComponentName(id ComponentID) string {
	return w.components.name(id)
}

// RegisterSystem stores sys under its dynamic type and matches every living
// entity against sig. Each system type can be registered once.
func (w *World) RegisterSystem(sys System, sig Signature) error {
	if sys == nil {
		return fmt.Errorf("ecs: register nil system")
	}
	entry, err := w.systems.add(sys, sig)
	if err != nil {
		return err
	}
	w.forEachLiving(entry.match)
	return nil
}

// Systems returns the registered systems in update order.
func (w *World) Systems() []System {
	return w.systems.systems()
}

// Update runs all systems once, in registration order. Events pushed during the
// previous tick are discarded first.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	w.events.flush()
	w.tick++
	w.systems.update(w, dt)
}

// Tick returns the number of completed Update calls.
func (w *World) Tick() uint64 {
	return w.tick
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) setSignature(e Entity, sig Signature) {
	w.entities.setSignature(e, sig)
	w.systems.entitySignatureChanged(e, sig)
}

func (w *World) forEachLiving(fn func(Entity, Signature)) {
	for i := 0; i < w.entities.capacity(); i++ {
		e := Entity(i)
		if w.entities.alive(e) {
			fn(e, w.entities.signature(e))
		}
	}
}
