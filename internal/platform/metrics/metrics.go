package metrics

import (
	"strings"
	"sync"
	"time"
)

// A request slower than this is worth counting separately; the grid and
// report queries are the usual suspects.
const slowThreshold = 500 * time.Millisecond

type Collector struct {
	mu          sync.Mutex
	startedAt   time.Time
	total       uint64
	errors      uint64
	rateLimited uint64
	slow        uint64
	durationMs  uint64
	byArea      map[string]uint64
}

func New() *Collector {
	return &Collector{
		startedAt: time.Now(),
		byArea:    make(map[string]uint64),
	}
}

// AreaOf maps a request path to the API area it belongs to: shifts,
// schedule, timeclock, leave and so on. Non-API paths (health probes,
// avatars, the SPA) are grouped as "other".
func AreaOf(path string) string {
	const prefix = "/api/v1/"
	if !strings.HasPrefix(path, prefix) {
		return "other"
	}
	rest := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "other"
	}
	return rest
}

func (c *Collector) Record(area string, status int, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total++
	c.byArea[area]++
	if status >= 500 {
		c.errors++
	}
	if status == 429 {
		c.rateLimited++
	}
	if duration >= slowThreshold {
		c.slow++
	}
	c.durationMs += uint64(duration.Milliseconds())
}

func (c *Collector) Snapshot() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	avg := float64(0)
	if c.total > 0 {
		avg = float64(c.durationMs) / float64(c.total)
	}
	areas := make(map[string]uint64, len(c.byArea))
	for area, n := range c.byArea {
		areas[area] = n
	}
	return map[string]any{
		"uptimeSeconds":    int64(time.Since(c.startedAt).Seconds()),
		"requestsTotal":    c.total,
		"requestsByArea":   areas,
		"errorsTotal":      c.errors,
		"rateLimitedTotal": c.rateLimited,
		"slowTotal":        c.slow,
		"avgDurationMs":    avg,
	}
}
