// internal/styling/advice/catalog.go
package advice

import (
	"context"
	"sync"
	"time"

	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/common/metrics"
	"stylist-workers/internal/models"

	"github.com/go-co-op/gocron/v2"
)

// Catalog keeps the advice dataset in memory. The first read loads it; later
// reads are served from memory until Reload replaces the snapshot.
type Catalog struct {
	source Source
	logger logger.Logger

	mu       sync.RWMutex
	entries  []models.AdviceEntry
	loaded   bool
	loadedAt time.Time

	loadMu sync.Mutex
}

func NewCatalog(source Source, log logger.Logger) *Catalog {
	return &Catalog{
		source: source,
		logger: log.WithFields(map[string]interface{}{"component": "advice-catalog", "source": source.Name()}),
	}
}

// Entries returns the current snapshot, loading it on first use.
// The returned slice must not be modified.
func (c *Catalog) Entries(ctx context.Context) ([]models.AdviceEntry, error) {
	c.mu.RLock()
	if c.loaded {
		entries := c.entries
		c.mu.RUnlock()
		return entries, nil
	}
	c.mu.RUnlock()

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if !loaded {
		if err := c.load(ctx); err != nil {
			return nil, err
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries, nil
}

// Reload fetches a fresh snapshot. A failed reload keeps the previous one.
func (c *Catalog) Reload(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	return c.load(ctx)
}

func (c *Catalog) load(ctx context.Context) error {
	start := time.Now()
	entries, err := c.source.Load(ctx)
	if err != nil {
		metrics.AdviceReloads.WithLabelValues(c.source.Name(), "error").Inc()
		c.logger.Error("advice dataset load failed", map[string]interface{}{"error": err})
		return err
	}

	c.mu.Lock()
	c.entries = entries
	c.loaded = true
	c.loadedAt = time.Now()
	c.mu.Unlock()

	metrics.AdviceReloads.WithLabelValues(c.source.Name(), "ok").Inc()
	metrics.AdviceEntries.Set(float64(len(entries)))
	c.logger.Info("advice dataset loaded", map[string]interface{}{
		"entries":  len(entries),
		"duration": time.Since(start).String(),
	})
	return nil
}

func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Schedule registers a periodic reload on s. A non-positive interval is a no-op.
func (c *Catalog) Schedule(s gocron.Scheduler, interval time.Duration) (gocron.Job, error) {
	if interval <= 0 {
		return nil, nil
	}
	return s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			_ = c.Reload(ctx)
		}),
		gocron.WithName("advice-catalog-reload"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
}
