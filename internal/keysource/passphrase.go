package keysource

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// MasterKeyLength is the length of keys derived from passphrases.
const MasterKeyLength = 64

// MinSaltLength is the minimum salt length accepted by FromPassphrase.
const MinSaltLength = 16

// scrypt parameters, matching the "scrypt-65536-8-1" scheme.
const (
	scryptN = 65536
	scryptR = 8
	scryptP = 1
)

// ErrSaltTooShort is returned when the passphrase salt is shorter than MinSaltLength.
var ErrSaltTooShort = errors.New("salt too short")

// FromPassphrase derives a master key from a passphrase using scrypt.
func FromPassphrase(passphrase string, salt []byte) ([]byte, error) {
	if len(salt) < MinSaltLength {
		return nil, errors.Wrapf(ErrSaltTooShort, "got %v bytes, need %v", len(salt), MinSaltLength)
	}

	k, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, MasterKeyLength)
	if err != nil {
		return nil, errors.Wrap(err, "unable to derive key from passphrase")
	}

	return k, nil
}
