package mechanism_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storagepath/enforce/enforcement"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()

	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)

	return b
}

func enforce(o enforcement.Object, op enforcement.Operation, buf []byte, tweak uint64) *enforcement.Result {
	var r enforcement.Result

	o.Enforce(enforcement.NewTicket(op, buf, tweak), &r)

	return &r
}

func requireSuccess(t *testing.T, r *enforcement.Result) []byte {
	t.Helper()

	require.Equal(t, enforcement.StatusSuccess, r.Status(), "error: %v", r.Err())
	require.True(t, r.HasContent())
	require.Len(t, r.Content(), r.ContentSize())

	return r.Content()
}

func requireFailure(t *testing.T, r *enforcement.Result, target error) {
	t.Helper()

	require.Equal(t, enforcement.StatusError, r.Status())
	require.False(t, r.HasContent())
	require.Nil(t, r.Content())
	require.Zero(t, r.ContentSize())
	require.ErrorIs(t, r.Err(), target)
}

// verifyContract checks behavior shared by every enforcement object.
func verifyContract(t *testing.T, o enforcement.Object, wantID int64, nonEmpty []byte) {
	t.Helper()

	for _, op := range []enforcement.Operation{enforcement.Encode, enforcement.Decode} {
		// empty requests never produce content
		for _, buf := range [][]byte{nil, {}} {
			r := enforce(o, op, buf, 1)
			require.Equal(t, enforcement.StatusSuccess, r.Status())
			require.False(t, r.HasContent())
			require.Nil(t, r.Content())
			require.NoError(t, r.Err())
		}
	}

	// invalid directions fail through the result, uniformly across mechanisms
	for _, op := range []enforcement.Operation{-1, 2, 42} {
		requireFailure(t, enforce(o, op, nonEmpty, 1), enforcement.ErrInvalidOperation)
	}

	// configuration is idempotent and does not change the transform
	before := requireSuccess(t, enforce(o, enforcement.Encode, nonEmpty, 3))

	for range 3 {
		require.NoError(t, o.Configure(1, []int64{10, 20}))
		require.NoError(t, o.Configure(0, nil))
	}

	after := requireSuccess(t, enforce(o, enforcement.Encode, nonEmpty, 3))
	require.Equal(t, before, after)

	var st enforcement.ObjectStatistics
	require.ErrorIs(t, o.CollectStatistics(&st), enforcement.ErrStatisticsUnavailable)
	require.ErrorIs(t, o.CollectStatistics(&st), enforcement.ErrStatisticsUnavailable)

	require.Equal(t, wantID, o.ObjectID())
	require.Contains(t, o.String(), "(")
}
