package enforcement

// Object is a pluggable enforcement mechanism.
//
// Enforce is invoked concurrently on the I/O path and must not block; the
// remaining methods are called out of band by the control plane.
type Object interface {
	// ObjectID returns the identifier assigned at construction.
	ObjectID() int64

	// Enforce transforms the ticket payload into r. It always sets the status
	// and content flag of r and never retains the ticket buffer.
	Enforce(t *Ticket, r *Result)

	// Configure updates a mechanism tunable identified by key. A nil error means OK.
	Configure(key int, values []int64) error

	// CollectStatistics exports counters into s. Mechanisms that do not track
	// statistics return ErrStatisticsUnavailable.
	CollectStatistics(s *ObjectStatistics) error

	// String returns a human-readable description including the object ID.
	String() string
}
