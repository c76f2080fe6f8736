package compression

import (
	"bytes"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

func init() {
	RegisterCompressor("pgzip", &pgzipCompressor{pgzip.DefaultCompression})
}

// pgzipCompressor produces gzip-compatible streams compressed in parallel blocks.
type pgzipCompressor struct {
	level int
}

func (c *pgzipCompressor) Compress(output *bytes.Buffer, input []byte) error {
	w, err := pgzip.NewWriterLevel(output, c.level)
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

func (c *pgzipCompressor) Decompress(output *bytes.Buffer, input []byte) error {
	r, err := pgzip.NewReader(bytes.NewReader(input))
	if err != nil {
		return errors.Wrap(err, "unable to open gzip stream")
	}
	defer r.Close() //nolint:errcheck

	return decodeLimited(output, r, 2*len(input))
}
