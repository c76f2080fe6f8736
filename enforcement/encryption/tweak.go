package encryption

import "encoding/binary"

// TweakSize is the width of the tweak block fed to tweakable ciphers.
const TweakSize = 16

// Tweak is the per-request block that perturbs the cipher output.
type Tweak [TweakSize]byte

// DeriveTweak zero-extends a request identifier into a tweak block.
//
// The identifier is stored little-endian in bytes 0..7 and bytes 8..15 are
// zero, which is also how XTS encodes sector numbers. The layout is part of
// the on-disk format: changing it makes previously written data unreadable.
// Callers must not reuse an identifier for different data under the same key.
func DeriveTweak(v uint64) Tweak {
	var t Tweak

	binary.LittleEndian.PutUint64(t[:8], v)

	return t
}

// SectorNumber returns the identifier the tweak was derived from.
func (t *Tweak) SectorNumber() uint64 {
	return binary.LittleEndian.Uint64(t[:8])
}

// nonce returns the tweak zero-extended to n bytes.
func (t *Tweak) nonce(n int) []byte {
	b := make([]byte, n)
	copy(b, t[:])

	return b
}
