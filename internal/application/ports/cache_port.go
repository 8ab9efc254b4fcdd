package ports

import (
	"context"
	"time"
)

// ReportCacheInvalidator lo usan quienes modifican datos que alimentan los reportes.
type ReportCacheInvalidator interface {
	// Invalidate descarta todas las entradas de reportes. Best effort.
	Invalidate(ctx context.Context) error
}

// ReportCache caché de resultados de reportes (Redis o no-op).
type ReportCache interface {
	ReportCacheInvalidator
	// Get deserializa la entrada en dest; false si no existe o expiró.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}
