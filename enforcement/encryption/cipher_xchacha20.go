package encryption

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20"
)

type xchacha20Cipher struct {
	key []byte
}

func (c xchacha20Cipher) Encrypt(dst, src []byte, tweak *Tweak) error {
	if err := checkOutput(dst, src); err != nil {
		return err
	}

	s, err := chacha20.NewUnauthenticatedCipher(c.key, tweak.nonce(chacha20.NonceSizeX))
	if err != nil {
		return errors.Wrap(err, "unable to initialize XChaCha20")
	}

	s.XORKeyStream(dst[:len(src)], src)

	return nil
}

func (c xchacha20Cipher) Decrypt(dst, src []byte, tweak *Tweak) error {
	return c.Encrypt(dst, src, tweak)
}

func init() {
	Register("XCHACHA20", "XChaCha20 stream cipher with the tweak as nonce", chacha20.KeySize, func(key []byte) (TweakableCipher, error) {
		return xchacha20Cipher{key}, nil
	})
}
