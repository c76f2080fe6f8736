// Package metrics provides prometheus-backed counters and distributions that
// can also be snapshotted in-process.
package metrics

import (
	"sort"
	"strings"
	"sync"
)

// Registry groups together all metrics emitted by a set of components.
type Registry struct {
	mu               sync.Mutex
	allCounters      map[string]*Counter
	allDistributions map[string]*DurationDistribution
}

// NewRegistry returns a new registry.
func NewRegistry() *Registry {
	return &Registry{
		allCounters:      map[string]*Counter{},
		allDistributions: map[string]*DurationDistribution{},
	}
}

// CounterValues returns a snapshot of all counters keyed by name and labels.
func (r *Registry) CounterValues() map[string]int64 {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	result := map[string]int64{}
	for n, c := range r.allCounters {
		result[n] = c.Snapshot(false)
	}

	return result
}

func labelsSuffix(l map[string]string) string {
	if len(l) == 0 {
		return ""
	}

	var params []string
	for k, v := range l {
		params = append(params, k+":"+v)
	}

	sort.Strings(params)

	return "[" + strings.Join(params, ";") + "]"
}
