package enforcement

import "github.com/pkg/errors"

// Errors reported by enforcement objects.
var (
	// ErrUnsupportedConfiguration is returned by Configure for unrecognized or invalid settings.
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")

	// ErrStatisticsUnavailable is returned by CollectStatistics when the object does not track statistics.
	ErrStatisticsUnavailable = errors.New("statistics not available")

	// ErrInvalidOperation is reported through Result when a ticket carries an unknown operation.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrUnknownKind is returned when creating an object of an unregistered kind.
	ErrUnknownKind = errors.New("unknown enforcement object kind")
)
