package mechanism_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/storagepath/enforce/enforcement"
	"github.com/storagepath/enforce/enforcement/compression"
	"github.com/storagepath/enforce/enforcement/mechanism"
	"github.com/storagepath/enforce/internal/testlogging"
)

func TestCompressionObject_EmptyBuffer(t *testing.T) {
	o, err := mechanism.NewCompressionObject(testlogging.Context(t), 1, "")
	require.NoError(t, err)

	var r enforcement.Result

	o.Enforce(enforcement.NewTicket(enforcement.Encode, nil, 0), &r)

	require.Equal(t, enforcement.StatusSuccess, r.Status())
	require.False(t, r.HasContent())
	require.Zero(t, r.ContentSize())
}

func TestCompressionObject_Contract(t *testing.T) {
	ctx := testlogging.Context(t)

	for _, name := range compression.SupportedAlgorithms() {
		t.Run(string(name), func(t *testing.T) {
			o, err := mechanism.NewCompressionObject(ctx, 77, name)
			require.NoError(t, err)
			require.Equal(t, name, o.Algorithm())

			verifyContract(t, o, 77, bytes.Repeat([]byte("compressible "), 100))
			require.Equal(t, "Compression enforcement object (77).", o.String())
		})
	}
}

func TestCompressionObject_RoundTrip(t *testing.T) {
	ctx := testlogging.Context(t)

	inputs := map[string][]byte{
		"single-byte":    {42},
		"compressible":   bytes.Repeat([]byte{0, 1, 2, 3}, 5000),
		"incompressible": randomBytes(t, 20000),
	}

	for _, name := range compression.SupportedAlgorithms() {
		o, err := mechanism.NewCompressionObject(ctx, 5, name)
		require.NoError(t, err)

		for desc, in := range inputs {
			t.Run(string(name)+"-"+desc, func(t *testing.T) {
				compressed := requireSuccess(t, enforce(o, enforcement.Encode, in, 0))
				decompressed := requireSuccess(t, enforce(o, enforcement.Decode, compressed, 0))
				require.Equal(t, in, decompressed)
			})
		}
	}
}

func TestCompressionObject_OutputSizeDiffers(t *testing.T) {
	o, err := mechanism.NewCompressionObject(testlogging.Context(t), 5, "zstd")
	require.NoError(t, err)

	in := make([]byte, 65536)
	out := requireSuccess(t, enforce(o, enforcement.Encode, in, 0))
	require.Less(t, len(out), len(in))
}

func TestCompressionObject_MalformedInput(t *testing.T) {
	o, err := mechanism.NewCompressionObject(testlogging.Context(t), 5, "")
	require.NoError(t, err)

	var r enforcement.Result

	o.Enforce(enforcement.NewTicket(enforcement.Decode, []byte("this is not snappy data at all!"), 0), &r)
	require.Equal(t, enforcement.StatusError, r.Status())
	require.False(t, r.HasContent())
	require.Nil(t, r.Content())
	require.Error(t, r.Err())
}

func TestCompressionObject_OversizedDeclaredLength(t *testing.T) {
	o, err := mechanism.NewCompressionObject(testlogging.Context(t), 5, "snappy")
	require.NoError(t, err)

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			buf := append([]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, bytes.Repeat([]byte{0x00}, 64<<10)...)

			for range 4 {
				var r enforcement.Result

				o.Enforce(enforcement.NewTicket(enforcement.Decode, buf, 0), &r)

				if r.Status() != enforcement.StatusError || r.HasContent() {
					t.Errorf("unexpected result: %v %v", r.Status(), r.HasContent())
				}
			}
		}()
	}

	wg.Wait()
}

func TestCompressionObject_OverwritesResult(t *testing.T) {
	o, err := mechanism.NewCompressionObject(testlogging.Context(t), 5, "")
	require.NoError(t, err)

	var r enforcement.Result

	o.Enforce(enforcement.NewTicket(enforcement.Encode, []byte("first payload"), 0), &r)
	require.True(t, r.HasContent())

	o.Enforce(enforcement.NewTicket(enforcement.Encode, nil, 0), &r)
	require.Equal(t, enforcement.StatusSuccess, r.Status())
	require.False(t, r.HasContent())
	require.Nil(t, r.Content())
}

func TestCompressionObject_DoesNotModifyTicketBuffer(t *testing.T) {
	o, err := mechanism.NewCompressionObject(testlogging.Context(t), 5, "s2")
	require.NoError(t, err)

	in := bytes.Repeat([]byte("abc"), 1000)
	orig := bytes.Clone(in)

	out := requireSuccess(t, enforce(o, enforcement.Encode, in, 0))
	require.Equal(t, orig, in)

	// content is owned by the result, not aliased to the ticket
	out[0] ^= 0xff
	require.Equal(t, orig, in)
}

func TestCompressionObject_UnknownAlgorithm(t *testing.T) {
	_, err := mechanism.NewCompressionObject(context.Background(), 5, "no-such-compressor")
	require.ErrorIs(t, err, compression.ErrUnknownCompressor)
}

func TestCompressionObject_RoundTripProperty(t *testing.T) {
	o, err := mechanism.NewCompressionObject(testlogging.Context(t), 9, "")
	require.NoError(t, err)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("decode(encode(b)) == b", prop.ForAll(
		func(b []byte) bool {
			var enc, dec enforcement.Result

			o.Enforce(enforcement.NewTicket(enforcement.Encode, b, 0), &enc)
			if len(b) == 0 {
				return enc.Status() == enforcement.StatusSuccess && !enc.HasContent()
			}

			if enc.Status() != enforcement.StatusSuccess {
				return false
			}

			o.Enforce(enforcement.NewTicket(enforcement.Decode, enc.Content(), 0), &dec)

			return dec.Status() == enforcement.StatusSuccess && bytes.Equal(dec.Content(), b)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}
