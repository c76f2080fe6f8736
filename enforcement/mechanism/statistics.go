package mechanism

import (
	"strconv"
	"time"

	"github.com/storagepath/enforce/enforcement"
	"github.com/storagepath/enforce/internal/metrics"
)

// statisticsObject counts requests flowing through the wrapped object.
type statisticsObject struct {
	enforcement.Object

	requests *metrics.Counter
	failures *metrics.Counter
	bytesIn  *metrics.Counter
	bytesOut *metrics.Counter
	latency  *metrics.DurationDistribution
}

// WithStatistics wraps o so that CollectStatistics reports request, byte,
// failure and latency totals. The totals are also exported to prometheus.
func WithStatistics(o enforcement.Object, mr *metrics.Registry) enforcement.Object {
	labels := map[string]string{"object": strconv.FormatInt(o.ObjectID(), 10)}

	return &statisticsObject{
		Object:   o,
		requests: mr.CounterInt64("enforcement_requests", "Number of enforcement requests", labels),
		failures: mr.CounterInt64("enforcement_failures", "Number of failed enforcement requests", labels),
		bytesIn:  mr.CounterInt64("enforcement_bytes_in", "Number of payload bytes received", labels),
		bytesOut: mr.CounterInt64("enforcement_bytes_out", "Number of payload bytes produced", labels),
		latency:  mr.DurationDistribution("enforcement_latency_seconds", "Latency of enforcement requests", labels),
	}
}

func (s *statisticsObject) Enforce(t *enforcement.Ticket, r *enforcement.Result) {
	t0 := time.Now()

	s.Object.Enforce(t, r)

	s.latency.Observe(time.Since(t0))
	s.requests.Add(1)
	s.bytesIn.Add(int64(t.BufferSize()))

	if r.Status() != enforcement.StatusSuccess {
		s.failures.Add(1)
		return
	}

	s.bytesOut.Add(int64(r.ContentSize()))
}

func (s *statisticsObject) CollectStatistics(st *enforcement.ObjectStatistics) error {
	*st = enforcement.ObjectStatistics{
		ObjectID:      s.ObjectID(),
		Requests:      s.requests.Snapshot(false),
		Failures:      s.failures.Snapshot(false),
		BytesIn:       s.bytesIn.Snapshot(false),
		BytesOut:      s.bytesOut.Snapshot(false),
		TotalDuration: s.latency.Snapshot(false).Sum,
	}

	return nil
}
