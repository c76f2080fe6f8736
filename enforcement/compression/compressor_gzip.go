package compression

import (
	"bytes"
	"compress/gzip"
	"sync"

	"github.com/pkg/errors"
)

func init() {
	RegisterCompressor("gzip", newGZipCompressor(gzip.DefaultCompression))
	RegisterCompressor("gzip-best-speed", newGZipCompressor(gzip.BestSpeed))
}

func newGZipCompressor(level int) Compressor {
	return &gzipCompressor{sync.Pool{
		New: func() interface{} {
			w, err := gzip.NewWriterLevel(bytes.NewBuffer(nil), level)
			mustSucceed(err)

			return w
		},
	}}
}

type gzipCompressor struct {
	pool sync.Pool
}

func (c *gzipCompressor) Compress(output *bytes.Buffer, input []byte) error {
	//nolint:forcetypeassert
	w := c.pool.Get().(*gzip.Writer)
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

func (c *gzipCompressor) Decompress(output *bytes.Buffer, input []byte) error {
	r, err := gzip.NewReader(bytes.NewReader(input))
	if err != nil {
		return errors.Wrap(err, "unable to open gzip stream")
	}
	defer r.Close() //nolint:errcheck

	return decodeLimited(output, r, 2*len(input))
}
