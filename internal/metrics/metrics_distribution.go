package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

//nolint:gochecknoglobals
var latencyBucketsSeconds = []float64{
	1e-6, 5e-6, 10e-6, 50e-6, 100e-6, 500e-6,
	1e-3, 5e-3, 10e-3, 50e-3, 100e-3, 500e-3, 1,
}

// DurationDistribution tracks the distribution of durations.
type DurationDistribution struct {
	mu    sync.Mutex
	count int64
	sum   time.Duration
	min   time.Duration
	max   time.Duration

	prom prometheus.Observer
}

// DurationDistributionState is a snapshot of a DurationDistribution.
type DurationDistributionState struct {
	Count int64
	Sum   time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Observe adds the provided observation value to the distribution.
func (d *DurationDistribution) Observe(dur time.Duration) {
	if d == nil {
		return
	}

	d.prom.Observe(dur.Seconds())

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.count == 0 || dur < d.min {
		d.min = dur
	}

	if d.count == 0 || dur > d.max {
		d.max = dur
	}

	d.count++
	d.sum += dur
}

// Snapshot captures the momentary state of the distribution, optionally resetting it.
func (d *DurationDistribution) Snapshot(reset bool) DurationDistributionState {
	if d == nil {
		return DurationDistributionState{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	s := DurationDistributionState{d.count, d.sum, d.min, d.max}

	if reset {
		d.count, d.sum, d.min, d.max = 0, 0, 0, 0
	}

	return s
}

// DurationDistribution gets a persistent duration distribution with the provided name.
func (r *Registry) DurationDistribution(name, help string, labels map[string]string) *DurationDistribution {
	if r == nil {
		return nil
	}

	fullName := name + labelsSuffix(labels)

	r.mu.Lock()
	defer r.mu.Unlock()

	if d := r.allDistributions[fullName]; d != nil {
		return d
	}

	d := &DurationDistribution{
		prom: getPrometheusHistogram(prometheus.HistogramOpts{
			Name:    prometheusPrefix + name,
			Help:    help,
			Buckets: latencyBucketsSeconds,
		}, labels),
	}

	r.allDistributions[fullName] = d

	return d
}
