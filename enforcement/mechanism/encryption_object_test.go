package mechanism_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/storagepath/enforce/enforcement"
	"github.com/storagepath/enforce/enforcement/encryption"
	"github.com/storagepath/enforce/enforcement/mechanism"
	"github.com/storagepath/enforce/internal/testlogging"
)

func TestEncryptionObject_TwelveByteScenario(t *testing.T) {
	o, err := mechanism.NewEncryptionObject(testlogging.Context(t), 3, "", randomBytes(t, 64))
	require.NoError(t, err)
	require.Equal(t, encryption.DefaultAlgorithm, o.Algorithm())

	plain := []byte("hello world!")
	require.Len(t, plain, 12)

	ct := requireSuccess(t, enforce(o, enforcement.Encode, plain, 7))
	require.Len(t, ct, 12)
	require.NotEqual(t, plain, ct)

	require.Equal(t, plain, requireSuccess(t, enforce(o, enforcement.Decode, ct, 7)))
	require.NotEqual(t, plain, requireSuccess(t, enforce(o, enforcement.Decode, ct, 8)))
}

func TestEncryptionObject_Contract(t *testing.T) {
	ctx := testlogging.Context(t)

	for _, algo := range encryption.SupportedAlgorithms() {
		t.Run(algo, func(t *testing.T) {
			o, err := mechanism.NewEncryptionObject(ctx, 1234, algo, randomBytes(t, 64))
			require.NoError(t, err)
			require.Equal(t, algo, o.Algorithm())

			verifyContract(t, o, 1234, randomBytes(t, 64))
			require.Equal(t, "Encryption enforcement object (1234).", o.String())
		})
	}
}

func TestEncryptionObject_RoundTrip(t *testing.T) {
	ctx := testlogging.Context(t)

	for _, algo := range encryption.SupportedAlgorithms() {
		o, err := mechanism.NewEncryptionObject(ctx, 1, algo, randomBytes(t, 32))
		require.NoError(t, err)

		sizes := []int{16, 512, 4096, 65536}
		if algo != "AES256-XTS" {
			sizes = append(sizes, 1, 12, 100, 4097)
		}

		for _, size := range sizes {
			data := randomBytes(t, size)

			for _, tweak := range []uint64{0, 1, 7, 1 << 40, ^uint64(0)} {
				ct := requireSuccess(t, enforce(o, enforcement.Encode, data, tweak))
				require.Len(t, ct, size, algo)

				pt := requireSuccess(t, enforce(o, enforcement.Decode, ct, tweak))
				require.Equal(t, data, pt, algo)
			}
		}
	}
}

func TestEncryptionObject_TweakAffectsCiphertext(t *testing.T) {
	ctx := testlogging.Context(t)
	data := bytes.Repeat([]byte{0xaa}, 4096)

	for _, algo := range encryption.SupportedAlgorithms() {
		o, err := mechanism.NewEncryptionObject(ctx, 1, algo, randomBytes(t, 32))
		require.NoError(t, err)

		seen := map[string]uint64{}

		for tweak := range uint64(64) {
			ct := requireSuccess(t, enforce(o, enforcement.Encode, data, tweak))

			prev, dup := seen[string(ct)]
			require.False(t, dup, "%v: tweaks %v and %v produced the same ciphertext", algo, prev, tweak)

			seen[string(ct)] = tweak
		}
	}
}

func TestEncryptionObject_UnalignedXTS(t *testing.T) {
	o, err := mechanism.NewEncryptionObject(testlogging.Context(t), 1, "AES256-XTS", randomBytes(t, 64))
	require.NoError(t, err)

	requireFailure(t, enforce(o, enforcement.Encode, randomBytes(t, 12), 7), encryption.ErrUnalignedBuffer)
	requireFailure(t, enforce(o, enforcement.Decode, randomBytes(t, 33), 7), encryption.ErrUnalignedBuffer)
}

func TestEncryptionObject_DoesNotModifyTicketBuffer(t *testing.T) {
	o, err := mechanism.NewEncryptionObject(testlogging.Context(t), 1, "", randomBytes(t, 32))
	require.NoError(t, err)

	in := randomBytes(t, 100)
	orig := bytes.Clone(in)

	ct := requireSuccess(t, enforce(o, enforcement.Encode, in, 5))
	require.Equal(t, orig, in)

	ct[0] ^= 0xff
	require.Equal(t, orig, in)
}

func TestEncryptionObject_InvalidKey(t *testing.T) {
	ctx := testlogging.Context(t)

	_, err := mechanism.NewEncryptionObject(ctx, 1, "", nil)
	require.ErrorIs(t, err, encryption.ErrInvalidMasterKey)

	_, err = mechanism.NewEncryptionObject(ctx, 1, "ROT13", randomBytes(t, 32))
	require.ErrorIs(t, err, encryption.ErrUnknownAlgorithm)
}

func TestEncryptionObject_Rekey(t *testing.T) {
	ctx := testlogging.Context(t)
	k1, k2 := randomBytes(t, 32), randomBytes(t, 32)

	o, err := mechanism.NewEncryptionObject(ctx, 1, "XCHACHA20", k1)
	require.NoError(t, err)

	data := randomBytes(t, 256)
	ct1 := requireSuccess(t, enforce(o, enforcement.Encode, data, 1))

	require.ErrorIs(t, o.Rekey(ctx, []byte("short")), encryption.ErrInvalidMasterKey)
	require.Equal(t, ct1, requireSuccess(t, enforce(o, enforcement.Encode, data, 1)), "failed rekey must not change the key")

	require.NoError(t, o.Rekey(ctx, k2))
	require.Equal(t, "XCHACHA20", o.Algorithm())

	ct2 := requireSuccess(t, enforce(o, enforcement.Encode, data, 1))
	require.NotEqual(t, ct1, ct2)
	require.Equal(t, data, requireSuccess(t, enforce(o, enforcement.Decode, ct2, 1)))
}

func TestEncryptionObject_ConcurrentEnforceAndRekey(t *testing.T) {
	ctx := testlogging.Context(t)
	k1, k2 := randomBytes(t, 32), randomBytes(t, 32)

	o, err := mechanism.NewEncryptionObject(ctx, 1, "", k1)
	require.NoError(t, err)

	ref1, err := mechanism.NewEncryptionObject(ctx, 2, "", k1)
	require.NoError(t, err)

	ref2, err := mechanism.NewEncryptionObject(ctx, 3, "", k2)
	require.NoError(t, err)

	data := randomBytes(t, 1024)
	want1 := requireSuccess(t, enforce(ref1, enforcement.Encode, data, 9))
	want2 := requireSuccess(t, enforce(ref2, enforcement.Encode, data, 9))

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 200 {
				var r enforcement.Result

				o.Enforce(enforcement.NewTicket(enforcement.Encode, data, 9), &r)

				// every call sees exactly one of the two keys
				if !bytes.Equal(r.Content(), want1) && !bytes.Equal(r.Content(), want2) {
					t.Errorf("unexpected ciphertext")
					return
				}
			}
		}()
	}

	for i := range 50 {
		k := k1
		if i%2 == 0 {
			k = k2
		}

		if err := o.Rekey(ctx, k); err != nil {
			t.Errorf("rekey: %v", err)
		}
	}

	wg.Wait()
}

func TestEncryptionObject_RoundTripProperty(t *testing.T) {
	o, err := mechanism.NewEncryptionObject(testlogging.Context(t), 1, "", randomBytes(t, 64))
	require.NoError(t, err)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("decode(encode(b, t), t) == b", prop.ForAll(
		func(b []byte, tweak uint64) bool {
			var enc, dec enforcement.Result

			o.Enforce(enforcement.NewTicket(enforcement.Encode, b, tweak), &enc)
			if len(b) == 0 {
				return enc.Status() == enforcement.StatusSuccess && !enc.HasContent()
			}

			if enc.ContentSize() != len(b) {
				return false
			}

			o.Enforce(enforcement.NewTicket(enforcement.Decode, enc.Content(), tweak), &dec)

			return dec.Status() == enforcement.StatusSuccess && bytes.Equal(dec.Content(), b)
		},
		gen.SliceOf(gen.UInt8()),
		gen.UInt64(),
	))

	properties.Property("encode(b, t1) != encode(b, t2)", prop.ForAll(
		func(b []byte, t1, t2 uint64) bool {
			if t1 == t2 {
				return true
			}

			var r1, r2 enforcement.Result

			o.Enforce(enforcement.NewTicket(enforcement.Encode, b, t1), &r1)
			o.Enforce(enforcement.NewTicket(enforcement.Encode, b, t2), &r2)

			return !bytes.Equal(r1.Content(), r2.Content())
		},
		gen.SliceOfN(32, gen.UInt8()),
		gen.UInt64(),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

// Invalid directions must be reported identically by every mechanism.
func TestInvalidOperationPolicyIsUniform(t *testing.T) {
	ctx := testlogging.Context(t)

	comp, err := mechanism.NewCompressionObject(ctx, 1, "")
	require.NoError(t, err)

	enc, err := mechanism.NewEncryptionObject(ctx, 2, "", randomBytes(t, 32))
	require.NoError(t, err)

	objs := []enforcement.Object{comp, enc, mechanism.NewNoopObject(ctx, 3)}

	for _, o := range objs {
		require.NotPanics(t, func() {
			requireFailure(t, enforce(o, enforcement.Operation(99), []byte("payload"), 1), enforcement.ErrInvalidOperation)
		}, o.String())
	}
}
