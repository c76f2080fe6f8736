package enforcement

import "time"

// ObjectStatistics is the telemetry record exported to the control plane.
type ObjectStatistics struct {
	ObjectID      int64
	Requests      int64
	Failures      int64
	BytesIn       int64
	BytesOut      int64
	TotalDuration time.Duration
}

// MeanDuration returns the average enforcement latency.
func (s *ObjectStatistics) MeanDuration() time.Duration {
	if s.Requests == 0 {
		return 0
	}

	return s.TotalDuration / time.Duration(s.Requests)
}

// Ratio returns BytesOut/BytesIn, 0 when nothing was processed.
func (s *ObjectStatistics) Ratio() float64 {
	if s.BytesIn == 0 {
		return 0
	}

	return float64(s.BytesOut) / float64(s.BytesIn)
}
