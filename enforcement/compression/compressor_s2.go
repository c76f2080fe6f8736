package compression

import (
	"bytes"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/pkg/errors"
)

func init() {
	RegisterCompressor("s2", newS2Compressor())
	RegisterCompressor("s2-better", newS2Compressor(s2.WriterBetterCompression()))
}

func newS2Compressor(opts ...s2.WriterOption) Compressor {
	return &s2Compressor{sync.Pool{
		New: func() interface{} {
			return s2.NewWriter(bytes.NewBuffer(nil), opts...)
		},
	}}
}

type s2Compressor struct {
	pool sync.Pool
}

func (c *s2Compressor) Compress(output *bytes.Buffer, input []byte) error {
	//nolint:forcetypeassert
	w := c.pool.Get().(*s2.Writer)
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

func (c *s2Compressor) Decompress(output *bytes.Buffer, input []byte) error {
	r := s2.NewReader(bytes.NewReader(input))

	return decodeLimited(output, r, 2*len(input))
}
