package cache

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
)

var _ ports.ReportCache = NoopReportCache{}

// NoopReportCache se usa cuando REDIS_URL está vacío: nunca hay aciertos.
type NoopReportCache struct{}

func (NoopReportCache) Get(context.Context, string, any) (bool, error) { return false, nil }

func (NoopReportCache) Set(context.Context, string, any, time.Duration) error { return nil }

func (NoopReportCache) Invalidate(context.Context) error { return nil }
