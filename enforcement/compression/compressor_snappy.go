package compression

import (
	"bytes"

	"github.com/klauspost/compress/snappy"
	"github.com/pkg/errors"
)

func init() {
	RegisterCompressor("snappy", snappyCompressor{})
}

// snappyCompressor uses the snappy block format.
type snappyCompressor struct{}

func (snappyCompressor) Compress(output *bytes.Buffer, input []byte) error {
	if _, err := output.Write(snappy.Encode(nil, input)); err != nil {
		return errors.Wrap(err, "compression error")
	}

	return nil
}

// snappyMaxExpansion bounds decoded/encoded size: a 3-byte copy tag emits at most 64 bytes.
const snappyMaxExpansion = 22

func (snappyCompressor) Decompress(output *bytes.Buffer, input []byte) error {
	n, err := snappy.DecodedLen(input)
	if err != nil {
		return errors.Wrap(err, "invalid snappy block")
	}

	if err := checkDeclaredSize(n, len(input), snappyMaxExpansion); err != nil {
		return errors.Wrap(err, "invalid snappy block")
	}

	d, err := snappy.Decode(make([]byte, n), input)
	if err != nil {
		return errors.Wrap(err, "decompression error")
	}

	output.Write(d) //nolint:errcheck

	return nil
}
