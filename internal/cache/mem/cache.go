package mem

import (
	"sort"
	"sync"

	"github.com/goserg/opponentanalyzer/internal/domain"
)

// Cache keeps the last published report per subject.
type Cache struct {
	mu      sync.RWMutex
	reports map[string]domain.Report
}

func New() *Cache {
	return &Cache{
		reports: make(map[string]domain.Report),
	}
}

func (c *Cache) Put(report domain.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reports[report.Subject.Key()] = report
}

func (c *Cache) Get(subject domain.Subject) (domain.Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	report, ok := c.reports[subject.Key()]
	if !ok {
		return domain.Report{}, false
	}
	return report, true
}

// List returns the cached reports, most recently fetched first.
func (c *Cache) List() []domain.Report {
	c.mu.RLock()
	reports := make([]domain.Report, 0, len(c.reports))
	for _, report := range c.reports {
		reports = append(reports, report)
	}
	c.mu.RUnlock()

	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].FetchedAt.Equal(reports[j].FetchedAt) {
			return reports[i].Subject.Key() < reports[j].Subject.Key()
		}
		return reports[i].FetchedAt.After(reports[j].FetchedAt)
	})
	return reports
}
