package ecs

// Query returns living entities whose signature contains every id, in id order.
func Query(w *World, ids ...ComponentID) []Entity {
	if w == nil {
		return nil
	}
	want := NewSignature(ids...)
	var out []Entity
	w.forEachLiving(func(e Entity, sig Signature) {
		if sig.Contains(want) {
			out = append(out, e)
		}
	})
	return out
}

// IntersectEntities returns entities present in both sets.
func IntersectEntities[A, B any](a *SparseSet[A], b *SparseSet[B]) []Entity {
	if a == nil || b == nil {
		return nil
	}
	// iterate smaller set
	if a.Len() > b.Len() {
		out := make([]Entity, 0, b.Len())
		for _, e := range b.Entities() {
			if a.Has(e) {
				out = append(out, e)
			}
		}
		return out
	}
	out := make([]Entity, 0, a.Len())
	for _, e := range a.Entities() {
		if b.Has(e) {
			out = append(out, e)
		}
	}
	return out
}
