package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/erp-ledger/internal/domain"
)

// keyLocks semáforo exclusivo por clave. Claves distintas nunca se bloquean entre sí.
type keyLocks[K comparable] struct {
	mu      sync.Mutex
	sems    map[K]chan struct{}
	timeout time.Duration
}

func newKeyLocks[K comparable](timeout time.Duration) *keyLocks[K] {
	return &keyLocks[K]{sems: make(map[K]chan struct{}), timeout: timeout}
}

func (l *keyLocks[K]) sem(k K) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.sems[k]
	if !ok {
		ch = make(chan struct{}, 1)
		l.sems[k] = ch
	}
	return ch
}

// acquire espera como máximo timeout (0 = sin límite propio) o hasta que ctx termine.
func (l *keyLocks[K]) acquire(ctx context.Context, k K) error {
	ch := l.sem(k)
	select {
	case ch <- struct{}{}:
		return nil
	default:
	}

	var expired <-chan time.Time
	if l.timeout > 0 {
		t := time.NewTimer(l.timeout)
		defer t.Stop()
		expired = t.C
	}
	select {
	case ch <- struct{}{}:
		return nil
	case <-expired:
		return &domain.ConcurrencyTimeoutError{Key: fmt.Sprint(k)}
	case <-ctx.Done():
		return &domain.ConcurrencyTimeoutError{Key: fmt.Sprint(k), Cause: ctx.Err()}
	}
}

func (l *keyLocks[K]) release(k K) {
	<-l.sem(k)
}
