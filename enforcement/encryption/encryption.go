// Package encryption manages size-preserving tweakable ciphers used to encrypt request payloads.
package encryption

import (
	"context"
	"crypto/sha256"
	"io"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

// MinMasterKeySize is the minimum length of a master key.
const MinMasterKeySize = 32

// DefaultAlgorithm is the name of the default cipher.
const DefaultAlgorithm = "AES256-CTR"

// Errors returned by ciphers.
var (
	ErrUnknownAlgorithm  = errors.New("unknown encryption algorithm")
	ErrInvalidMasterKey  = errors.New("invalid master key")
	ErrUnalignedBuffer   = errors.New("buffer length is not a multiple of the cipher block size")
	ErrShortOutputBuffer = errors.New("output buffer too short")
)

// TweakableCipher is a size-preserving cipher keyed by a per-call tweak.
//
// Encrypt and Decrypt write len(src) bytes into dst, which may alias src
// exactly for in-place operation. Implementations are safe for concurrent use.
type TweakableCipher interface {
	Encrypt(dst, src []byte, tweak *Tweak) error
	Decrypt(dst, src []byte, tweak *Tweak) error
}

// CipherFactory creates a cipher using a key of the registered size.
type CipherFactory func(key []byte) (TweakableCipher, error)

type cipherInfo struct {
	description string
	keySize     int
	newCipher   CipherFactory
}

//nolint:gochecknoglobals
var ciphers = map[string]*cipherInfo{}

// Register registers new encryption algorithm. It must be called from init().
func Register(name, description string, keySize int, newCipher CipherFactory) {
	if ciphers[name] != nil {
		panic("encryption algorithm already registered: " + name)
	}

	ciphers[name] = &cipherInfo{description, keySize, newCipher}
}

// SupportedAlgorithms returns the names of the supported ciphers.
func SupportedAlgorithms() []string {
	var result []string
	for k := range ciphers {
		result = append(result, k)
	}

	sort.Strings(result)

	return result
}

// Description returns the description of the given algorithm.
func Description(algorithm string) string {
	if c := ciphers[algorithm]; c != nil {
		return c.description
	}

	return ""
}

// CreateCipher creates a cipher for the given algorithm whose key is derived from masterKey.
// An empty algorithm selects DefaultAlgorithm.
func CreateCipher(ctx context.Context, algorithm string, masterKey []byte) (TweakableCipher, error) {
	if err := Initialize(ctx); err != nil {
		return nil, err
	}

	return createCipher(algorithm, masterKey)
}

func createCipher(algorithm string, masterKey []byte) (TweakableCipher, error) {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}

	ci := ciphers[algorithm]
	if ci == nil {
		return nil, errors.Wrapf(ErrUnknownAlgorithm, "%q", algorithm)
	}

	key, err := deriveKey(masterKey, algorithm, ci.keySize)
	if err != nil {
		return nil, err
	}

	c, err := ci.newCipher(key)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create %v cipher", algorithm)
	}

	return c, nil
}

// deriveKey uses HKDF to derive a key of a given length for the given algorithm from the master key.
func deriveKey(masterKey []byte, purpose string, length int) ([]byte, error) {
	if len(masterKey) < MinMasterKeySize {
		return nil, errors.Wrapf(ErrInvalidMasterKey, "got %v bytes, need at least %v", len(masterKey), MinMasterKeySize)
	}

	key := make([]byte, length)

	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey, nil, []byte(purpose)), key); err != nil {
		return nil, errors.Wrap(err, "unable to derive key")
	}

	return key, nil
}

func checkOutput(dst, src []byte) error {
	if len(dst) < len(src) {
		return errors.Wrapf(ErrShortOutputBuffer, "got %v, need %v", len(dst), len(src))
	}

	return nil
}
