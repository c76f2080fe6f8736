// Package keysource provides master keys to encryption objects from the environment,
// files or the OS keyring.
package keysource

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"

	"github.com/storagepath/enforce/logging"
)

// Errors returned by key sources.
var (
	// ErrKeyNotFound is returned when a key cannot be found in a source.
	ErrKeyNotFound = errors.New("key not found")

	// ErrUnsupported is returned when a source cannot persist keys.
	ErrUnsupported = errors.New("key storage not supported")

	// ErrInvalidEncoding is returned for keys that are not hex: or base64: encoded.
	ErrInvalidEncoding = errors.New("invalid key encoding")
)

var log = logging.Module("keysource")

// Source fetches master keys by name.
type Source interface {
	// GetKey returns the key with the given name, ErrKeyNotFound or fatal errors.
	GetKey(ctx context.Context, name string) ([]byte, error)
}

// Persister is a Source that can also store keys.
type Persister interface {
	Source

	// PersistKey stores the key under the given name, returns ErrUnsupported or fatal errors.
	PersistKey(ctx context.Context, name string, key []byte) error
}

const (
	hexPrefix    = "hex:"
	base64Prefix = "base64:"
)

// DecodeKey decodes a textual key of the form "hex:<digits>" or "base64:<data>".
func DecodeKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, hexPrefix):
		b, err := hex.DecodeString(strings.TrimPrefix(s, hexPrefix))
		return b, errors.Wrap(err, "invalid hex key")

	case strings.HasPrefix(s, base64Prefix):
		b, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, base64Prefix))
		return b, errors.Wrap(err, "invalid base64 key")

	default:
		return nil, errors.Wrap(ErrInvalidEncoding, "expected hex: or base64: prefix")
	}
}

// EncodeKey returns the textual form of a key accepted by DecodeKey.
func EncodeKey(key []byte) string {
	return base64Prefix + base64.StdEncoding.EncodeToString(key)
}
