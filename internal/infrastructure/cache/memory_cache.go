package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jhoicas/facturacion-api/internal/application/ports"
)

var _ ports.StatsCache = (*MemoryCache)(nil)

// MemoryCache caché local al proceso con expiración por TTL (go-cache).
// Solo invalida por expiración; las escrituras no la limpian.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache crea la caché con el TTL por defecto y el intervalo de limpieza dados.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(defaultTTL, cleanupInterval)}
}

// Get devuelve el valor si existe y no expiró.
func (m *MemoryCache) Get(key string) (any, bool) {
	return m.c.Get(key)
}

// Set guarda value con el ttl dado (0 usa el TTL por defecto).
func (m *MemoryCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, value, ttl)
}

// Delete elimina una clave.
func (m *MemoryCache) Delete(key string) {
	m.c.Delete(key)
}

// Flush vacía la caché.
func (m *MemoryCache) Flush() {
	m.c.Flush()
}

// NoopCache nunca guarda nada. Útil para desactivar la caché en pruebas o por configuración.
type NoopCache struct{}

func (NoopCache) Get(string) (any, bool) { return nil, false }
func (NoopCache) Set(string, any, time.Duration) {}
