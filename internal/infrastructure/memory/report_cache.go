package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
)

var _ ports.ReportCache = (*ReportCache)(nil)

// ReportCache caché de reportes en memoria con contadores para los tests. Ignora el TTL.
type ReportCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	hits          int
	invalidations int
	failInvalid   error
}

// NewReportCache crea la caché vacía.
func NewReportCache() *ReportCache {
	return &ReportCache{entries: map[string][]byte{}}
}

// Get deserializa la entrada en dest si existe.
func (c *ReportCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

// Set guarda el valor serializado; el TTL se ignora.
func (c *ReportCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

// Invalidate vacía la caché o devuelve el error configurado con FailInvalidate.
func (c *ReportCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	if c.failInvalid != nil {
		return c.failInvalid
	}
	c.entries = map[string][]byte{}
	return nil
}

// FailInvalidate hace que Invalidate devuelva err (las entradas se conservan).
func (c *ReportCache) FailInvalidate(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failInvalid = err
}

// Hits lecturas servidas desde la caché.
func (c *ReportCache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// Invalidations llamadas a Invalidate.
func (c *ReportCache) Invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}
