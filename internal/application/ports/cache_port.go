package ports

import "time"

// StatsCache caché de estadísticas agregadas por empresa. Es solo una optimización:
// una implementación que nunca encuentra nada es válida.
type StatsCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}
