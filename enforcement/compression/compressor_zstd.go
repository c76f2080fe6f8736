package compression

import (
	"bytes"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

func init() {
	RegisterCompressor("zstd", newZstdCompressor(zstd.SpeedDefault))
	RegisterCompressor("zstd-fastest", newZstdCompressor(zstd.SpeedFastest))
	RegisterCompressor("zstd-best-compression", newZstdCompressor(zstd.SpeedBestCompression))
}

// zstdMaxWindow is well above the 8 MiB window used by the best-compression encoder.
const zstdMaxWindow = 64 << 20

func newZstdCompressor(level zstd.EncoderLevel) Compressor {
	return &zstdCompressor{
		encoders: sync.Pool{
			New: func() interface{} {
				w, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithEncoderConcurrency(1))
				mustSucceed(err)

				return w
			},
		},
		decoders: sync.Pool{
			New: func() interface{} {
				r, err := zstd.NewReader(nil,
					zstd.WithDecoderConcurrency(1),
					// always stream so decodeLimited bounds the output
					zstd.WithDecodeBuffersBelow(0),
					zstd.WithDecoderMaxWindow(zstdMaxWindow))
				mustSucceed(err)

				return r
			},
		},
	}
}

type zstdCompressor struct {
	encoders sync.Pool
	decoders sync.Pool
}

func (c *zstdCompressor) Compress(output *bytes.Buffer, input []byte) error {
	//nolint:forcetypeassert
	w := c.encoders.Get().(*zstd.Encoder)
	defer c.encoders.Put(w)

	if _, err := output.Write(w.EncodeAll(input, nil)); err != nil {
		return errors.Wrap(err, "compression error")
	}

	return nil
}

func (c *zstdCompressor) Decompress(output *bytes.Buffer, input []byte) error {
	//nolint:forcetypeassert
	r := c.decoders.Get().(*zstd.Decoder)
	defer c.decoders.Put(r)

	if err := r.Reset(bytes.NewReader(input)); err != nil {
		return errors.Wrap(err, "unable to open zstd stream")
	}

	// drop the reference to input before returning the decoder to the pool
	defer r.Reset(nil) //nolint:errcheck

	return decodeLimited(output, r, 2*len(input))
}
