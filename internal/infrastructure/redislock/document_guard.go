// Package redislock guarda de confirmación de documentos compartida entre réplicas,
// sobre Redis (go-redis + bsm/redislock).
package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/erp-ledger/internal/application/documents"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

var _ documents.DocumentGuard = (*DocumentGuard)(nil)

// Config conexión y tiempos del bloqueo.
type Config struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration // vida máxima del bloqueo si el proceso muere sin liberarlo
	Wait     time.Duration // espera máxima por un documento ya bloqueado
}

// DocumentGuard obtiene un lock Redis por documento.
type DocumentGuard struct {
	client *redis.Client
	locker *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	log    *logger.Logger
}

// Connect abre el cliente y verifica la conexión.
func Connect(ctx context.Context, cfg Config, log *logger.Logger) (*DocumentGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 20,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Address, err)
	}
	return New(client, cfg.TTL, cfg.Wait, log), nil
}

// New construye la guarda sobre un cliente existente.
func New(client *redis.Client, ttl, wait time.Duration, log *logger.Logger) *DocumentGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DocumentGuard{
		client: client,
		locker: redislock.New(client),
		ttl:    ttl,
		wait:   wait,
		log:    log,
	}
}

// Acquire reintenta hasta wait. ErrNotObtained se reporta como timeout de concurrencia.
func (g *DocumentGuard) Acquire(ctx context.Context, key string) (func(), error) {
	opts := &redislock.Options{}
	if g.wait > 0 {
		backoff := g.wait / 10
		if backoff < 10*time.Millisecond {
			backoff = 10 * time.Millisecond
		}
		opts.RetryStrategy = redislock.LimitRetry(redislock.LinearBackoff(backoff), int(g.wait/backoff))
	}

	lock, err := g.locker.Obtain(ctx, "lock:"+key, g.ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, &domain.ConcurrencyTimeoutError{Key: key, Cause: err}
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.ConcurrencyTimeoutError{Key: key, Cause: ctx.Err()}
		}
		return nil, fmt.Errorf("obtener lock %s: %w", key, err)
	}

	release := func() {
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(rctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			g.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el lock de documento")
		}
	}
	return release, nil
}

// Close cierra el cliente Redis.
func (g *DocumentGuard) Close() error {
	return g.client.Close()
}
