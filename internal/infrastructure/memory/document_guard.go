package memory

import (
	"context"
	"time"
)

// DocumentGuard serializa confirmaciones del mismo documento dentro de un proceso.
// Se usa cuando no hay Redis configurado.
type DocumentGuard struct {
	locks *keyLocks[string]
}

// NewDocumentGuard wait acota la espera por un documento ya en confirmación.
func NewDocumentGuard(wait time.Duration) *DocumentGuard {
	return &DocumentGuard{locks: newKeyLocks[string](wait)}
}

// Acquire bloquea la clave; el llamador debe invocar release al terminar.
func (g *DocumentGuard) Acquire(ctx context.Context, key string) (func(), error) {
	if err := g.locks.acquire(ctx, key); err != nil {
		return nil, err
	}
	return func() { g.locks.release(key) }, nil
}
