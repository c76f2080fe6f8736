package compression

import (
	"bytes"
	"io"
	"sync/atomic"

	"github.com/pkg/errors"
)

// DefaultMaxDecodedSize is the initial limit on the output of a single Decompress call.
const DefaultMaxDecodedSize = 256 << 20

// ErrDecodedSizeExceeded is returned when a compressed payload declares or produces more
// output than allowed.
var ErrDecodedSizeExceeded = errors.New("decoded size exceeds limit")

//nolint:gochecknoglobals
var maxDecodedSize atomic.Int64

func init() {
	maxDecodedSize.Store(DefaultMaxDecodedSize)
}

// SetMaxDecodedSize sets the limit on the output of a single Decompress call and returns
// the previous limit.
func SetMaxDecodedSize(n int64) int64 {
	return maxDecodedSize.Swap(n)
}

// MaxDecodedSize returns the current limit on the output of a single Decompress call.
func MaxDecodedSize() int64 {
	return maxDecodedSize.Load()
}

// checkDeclaredSize rejects sizes announced by a block header before any allocation.
// maxExpansion is the largest output/input ratio the format can produce.
func checkDeclaredSize(declared, inputLen, maxExpansion int) error {
	if declared < 0 || int64(declared) > MaxDecodedSize() {
		return errors.Wrapf(ErrDecodedSizeExceeded, "declared %v bytes, limit %v", declared, MaxDecodedSize())
	}

	if declared > inputLen*maxExpansion {
		return errors.Errorf("declared %v bytes cannot be produced by a %v-byte block", declared, inputLen)
	}

	return nil
}

// decodeLimited drains r into output, failing once more than MaxDecodedSize bytes are produced.
func decodeLimited(output *bytes.Buffer, r io.Reader, sizeHint int) error {
	limit := MaxDecodedSize()

	if int64(sizeHint) > limit {
		sizeHint = int(limit)
	}

	if sizeHint > 0 {
		output.Grow(sizeHint)
	}

	start := output.Len()

	if _, err := output.ReadFrom(io.LimitReader(r, limit+1)); err != nil {
		return errors.Wrap(err, "decompression error")
	}

	if int64(output.Len()-start) > limit {
		output.Truncate(start)
		return errors.Wrapf(ErrDecodedSizeExceeded, "limit %v", limit)
	}

	return nil
}
