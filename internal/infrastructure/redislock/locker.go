package redislock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bsm "github.com/bsm/redislock"
	"github.com/primegestor/primegestor-api/internal/application/inventory"
	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/pkg/config"
	"github.com/primegestor/primegestor-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "primegestor:lock:product:"

var _ inventory.ProductLocker = (*ProductLocker)(nil)

// Obtainer subconjunto de *bsm.Client usado por ProductLocker.
type Obtainer interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *bsm.Options) (*bsm.Lock, error)
}

// ProductLocker lock distribuido por producto sobre Redis.
type ProductLocker struct {
	client Obtainer
	ttl    time.Duration
	wait   time.Duration
	log    *logger.Logger
}

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// New construye el locker. wait es el tiempo máximo reintentando antes de ErrContention.
func New(client Obtainer, ttl, wait time.Duration, log *logger.Logger) *ProductLocker {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductLocker{client: client, ttl: ttl, wait: wait, log: log}
}

// FromRedis atajo para un *redis.Client ya conectado.
func FromRedis(rdb *redis.Client, cfg config.RedisConfig, log *logger.Logger) *ProductLocker {
	return New(bsm.New(rdb), cfg.LockTTL, cfg.LockWait, log)
}

// Key clave de lock del producto.
func Key(productID string) string {
	return keyPrefix + productID
}

// Lock obtiene el lock del producto reintentando cada 50ms hasta wait.
func (l *ProductLocker) Lock(ctx context.Context, productID string) (func(), error) {
	opts := &bsm.Options{}
	if l.wait > 0 {
		attempts := int(l.wait / (50 * time.Millisecond))
		opts.RetryStrategy = bsm.LimitRetry(bsm.LinearBackoff(50*time.Millisecond), max(attempts, 1))
	}

	lock, err := l.client.Obtain(ctx, Key(productID), l.ttl, opts)
	if err != nil {
		if errors.Is(err, bsm.ErrNotObtained) {
			return nil, fmt.Errorf("%w: lock del producto %s ocupado", domain.ErrContention, productID)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("obtener lock del producto %s: %w", productID, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// El release no debe depender del contexto de la petición.
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := lock.Release(rctx); err != nil && !errors.Is(err, bsm.ErrLockNotHeld) {
				l.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo liberar el lock del producto")
			}
		})
	}, nil
}
