package controller

import (
	"sync"

	"oer-catalog/internal/catalog"

	"go.uber.org/zap"
)

// LogDiagnostics writes enrichment failures to a zap logger.
type LogDiagnostics struct {
	Log *zap.Logger
}

func (d LogDiagnostics) EnrichmentFailed(ev catalog.EnrichmentFailed) {
	if d.Log == nil {
		return
	}
	d.Log.Warn("enrichment failed",
		zap.Int("index", ev.Index),
		zap.String("key", ev.Key),
		zap.String("url", ev.URL),
		zap.Error(ev.Err),
	)
}

// Recorder keeps every reported failure in memory.
type Recorder struct {
	mu     sync.Mutex
	events []catalog.EnrichmentFailed
}

func (r *Recorder) EnrichmentFailed(ev catalog.EnrichmentFailed) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *Recorder) Events() []catalog.EnrichmentFailed {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]catalog.EnrichmentFailed(nil), r.events...)
}
