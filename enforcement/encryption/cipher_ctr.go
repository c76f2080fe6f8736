package encryption

import (
	"crypto/aes"
	"crypto/cipher"
)

// ctrCipher runs AES in CTR mode using the tweak block as IV.
//
// The counter increments from the last byte, so keystreams of distinct tweaks
// only overlap for requests longer than 2^64 blocks.
type ctrCipher struct {
	block cipher.Block
}

func (c ctrCipher) Encrypt(dst, src []byte, tweak *Tweak) error {
	if err := checkOutput(dst, src); err != nil {
		return err
	}

	cipher.NewCTR(c.block, tweak[:]).XORKeyStream(dst[:len(src)], src)

	return nil
}

func (c ctrCipher) Decrypt(dst, src []byte, tweak *Tweak) error {
	return c.Encrypt(dst, src, tweak)
}

func init() {
	Register("AES256-CTR", "AES-256 in CTR mode with the tweak as IV", 32, func(key []byte) (TweakableCipher, error) { //nolint:mnd
		b, err := aes.NewCipher(key)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return ctrCipher{b}, nil
	})
}
