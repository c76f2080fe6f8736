package compression

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

func init() {
	RegisterCompressor("xz", xzCompressor{})
}

// xzCompressor favors ratio over latency and suits cold, write-once data.
type xzCompressor struct{}

func (xzCompressor) Compress(output *bytes.Buffer, input []byte) error {
	w, err := xz.NewWriter(output)
	if err != nil {
		return errors.Wrap(err, "unable to create compressor")
	}

	if _, err := w.Write(input); err != nil {
		return errors.Wrap(err, "compression error")
	}

	if err := w.Close(); err != nil {
		return errors.Wrap(err, "compression close error")
	}

	return nil
}

func (xzCompressor) Decompress(output *bytes.Buffer, input []byte) error {
	r, err := xz.NewReader(bytes.NewReader(input))
	if err != nil {
		return errors.Wrap(err, "unable to open xz stream")
	}

	return decodeLimited(output, r, 4*len(input))
}
