// Package component holds the plain data components of the simulation. Values
// are copyable and carry no back-reference to their entity; cross-entity links
// are stored as ecs.Entity handles and resolved through the World.
package component

// MeshHandle is an opaque reference to geometry owned by the asset layer.
type MeshHandle uint64

// Model attaches collaborator-owned geometry to an entity. The core never
// dereferences the handle.
type Model struct {
	Mesh MeshHandle
	Name string
}
