package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/railops/cardstock-api/internal/application/inventory"
	"github.com/railops/cardstock-api/internal/application/ports"
	"github.com/railops/cardstock-api/internal/domain/card"
	"github.com/railops/cardstock-api/pkg/logger"
)

var _ inventory.SnapshotCache = (*SnapshotCache)(nil)
var _ ports.SnapshotInvalidator = (*SnapshotCache)(nil)

const (
	versionKey = "cardstock:snapshot:version"
	dataKeyFmt = "cardstock:snapshot:v%d"
)

// SnapshotCache cache del snapshot del agregador sobre Redis, con
// invalidación por versión: cada mutación incrementa un contador y los
// snapshots viejos quedan huérfanos hasta expirar por TTL. Ningún camino
// de escritura espera por Redis.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New construye el cache con el cliente y TTL dados.
func New(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

// cachedGroup entrada serializable: el mapa del snapshot usa claves struct,
// que JSON no admite como claves de objeto.
type cachedGroup struct {
	Key      card.GroupKey `json:"key"`
	Counters card.Counters `json:"counters"`
}

// Get devuelve el snapshot de la versión vigente, si existe.
func (c *SnapshotCache) Get(ctx context.Context) (card.Snapshot, bool, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get snapshot version: %w", err)
	}

	raw, err := c.client.Get(ctx, fmt.Sprintf(dataKeyFmt, ver)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get snapshot: %w", err)
	}

	var groups []cachedGroup
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	snap := make(card.Snapshot, len(groups))
	for _, g := range groups {
		snap[g.Key] = g.Counters
	}
	return snap, true, nil
}

// Version devuelve la versión vigente del contador de invalidación. Sin
// contador todavía, la versión es cero.
func (c *SnapshotCache) Version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("get snapshot version: %w", err)
	}
	return ver, nil
}

// Set guarda el snapshot bajo la versión dada. El caller la lee antes de
// recomputar: una mutación que incremente el contador en el medio deja este
// snapshot bajo la versión vieja y Get nunca lo sirve.
func (c *SnapshotCache) Set(ctx context.Context, version int64, snap card.Snapshot) error {
	groups := make([]cachedGroup, 0, len(snap))
	for k, v := range snap {
		groups = append(groups, cachedGroup{Key: k, Counters: v})
	}
	raw, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, fmt.Sprintf(dataKeyFmt, version), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

// Invalidate avanza la versión. Best-effort: un fallo solo se registra, la
// mutación que lo disparó ya está confirmada en la base.
func (c *SnapshotCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		logger.Warn().Err(err).Msg("no se pudo invalidar el snapshot cacheado")
	}
}
