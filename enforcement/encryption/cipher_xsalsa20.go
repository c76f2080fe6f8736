package encryption

import (
	"golang.org/x/crypto/salsa20"
)

const (
	xsalsa20KeySize   = 32
	xsalsa20NonceSize = 24
)

type xsalsa20Cipher struct {
	key [xsalsa20KeySize]byte
}

func (c *xsalsa20Cipher) Encrypt(dst, src []byte, tweak *Tweak) error {
	if err := checkOutput(dst, src); err != nil {
		return err
	}

	salsa20.XORKeyStream(dst[:len(src)], src, tweak.nonce(xsalsa20NonceSize), &c.key)

	return nil
}

func (c *xsalsa20Cipher) Decrypt(dst, src []byte, tweak *Tweak) error {
	return c.Encrypt(dst, src, tweak)
}

func init() {
	Register("XSALSA20", "XSalsa20 stream cipher with the tweak as nonce", xsalsa20KeySize, func(key []byte) (TweakableCipher, error) {
		c := &xsalsa20Cipher{}
		copy(c.key[:], key)

		return c, nil
	})
}
