package system

import "github.com/milk9111/simcore/ecs"

type componentIDFunc func(w *ecs.World) (ecs.ComponentID, error)

func componentIDOf[T any](w *ecs.World) (ecs.ComponentID, error) {
	return ecs.ComponentType[T](w)
}

func signatureOf(w *ecs.World, fns ...componentIDFunc) (ecs.Signature, error) {
	sig := ecs.NewSignature()
	for _, fn := range fns {
		id, err := fn(w)
		if err != nil {
			return ecs.Signature{}, err
		}
		sig = sig.With(id)
	}
	return sig, nil
}
