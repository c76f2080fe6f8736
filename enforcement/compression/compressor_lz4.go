package compression

import (
	"bytes"
	"io"
	"sync"

	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
)

func init() {
	RegisterCompressor("lz4", newLZ4Compressor())
}

func newLZ4Compressor() Compressor {
	return &lz4Compressor{sync.Pool{
		New: func() interface{} {
			return lz4.NewWriter(io.Discard)
		},
	}}
}

type lz4Compressor struct {
	pool sync.Pool
}

func (c *lz4Compressor) Compress(output *bytes.Buffer, input []byte) error {
	//nolint:forcetypeassert
	w := c.pool.Get().(*lz4.Writer)
	defer c.pool.Put(w)

	w.Reset(output)

	if _, err := w.Write(input); err != nil {
		return errors.Wrap(err, "compression error")
	}

	if err := w.Close(); err != nil {
		return errors.Wrap(err, "compression close error")
	}

	return nil
}

func (c *lz4Compressor) Decompress(output *bytes.Buffer, input []byte) error {
	r := lz4.NewReader(bytes.NewReader(input))

	return decodeLimited(output, r, 2*len(input))
}
