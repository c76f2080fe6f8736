package encryption

import (
	"crypto/aes"

	"github.com/pkg/errors"
	"golang.org/x/crypto/xts"
)

// xtsCipher is AES-XTS with the tweak as sector number. Buffers must be a
// whole number of AES blocks.
type xtsCipher struct {
	c *xts.Cipher
}

func (c xtsCipher) check(dst, src []byte) error {
	if len(src)%aes.BlockSize != 0 {
		return errors.Wrapf(ErrUnalignedBuffer, "%v bytes", len(src))
	}

	return checkOutput(dst, src)
}

func (c xtsCipher) Encrypt(dst, src []byte, tweak *Tweak) error {
	if err := c.check(dst, src); err != nil {
		return err
	}

	c.c.Encrypt(dst[:len(src)], src, tweak.SectorNumber())

	return nil
}

func (c xtsCipher) Decrypt(dst, src []byte, tweak *Tweak) error {
	if err := c.check(dst, src); err != nil {
		return err
	}

	c.c.Decrypt(dst[:len(src)], src, tweak.SectorNumber())

	return nil
}

func init() {
	Register("AES256-XTS", "AES-256 in XTS mode (512-bit key), block-aligned buffers only", 64, func(key []byte) (TweakableCipher, error) { //nolint:mnd
		c, err := xts.NewCipher(aes.NewCipher, key)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return xtsCipher{c}, nil
	})
}
