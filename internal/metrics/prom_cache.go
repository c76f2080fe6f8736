package metrics

import (
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/exp/maps"
)

const (
	prometheusCounterSuffix = "_total"
	prometheusPrefix        = "enforce_"
)

//nolint:gochecknoglobals
var (
	promCacheMutex sync.Mutex
	promCounters   = map[string]*prometheus.CounterVec{}
	promHistograms = map[string]*prometheus.HistogramVec{}
)

// sortedLabels returns label names in a stable order together with the matching values.
func sortedLabels(labels map[string]string) (names, values []string) {
	names = maps.Keys(labels)
	slices.Sort(names)

	for _, n := range names {
		values = append(values, labels[n])
	}

	return names, values
}

func getPrometheusCounter(opts prometheus.CounterOpts, labels map[string]string) prometheus.Counter {
	promCacheMutex.Lock()
	defer promCacheMutex.Unlock()

	names, values := sortedLabels(labels)

	prom := promCounters[opts.Name]
	if prom == nil {
		prom = promauto.NewCounterVec(opts, names)

		promCounters[opts.Name] = prom
	}

	return prom.WithLabelValues(values...)
}

func getPrometheusHistogram(opts prometheus.HistogramOpts, labels map[string]string) prometheus.Observer {
	promCacheMutex.Lock()
	defer promCacheMutex.Unlock()

	names, values := sortedLabels(labels)

	prom := promHistograms[opts.Name]
	if prom == nil {
		prom = promauto.NewHistogramVec(opts, names)

		promHistograms[opts.Name] = prom
	}

	return prom.WithLabelValues(values...)
}
