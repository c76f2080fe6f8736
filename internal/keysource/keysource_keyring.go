package keysource

import (
	"context"

	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

// Keyring is a Persister that stores encoded keys in the OS keyring under the given service.
func Keyring(service string) Persister {
	return keyringSource{service}
}

type keyringSource struct {
	service string
}

func (s keyringSource) GetKey(ctx context.Context, name string) ([]byte, error) {
	v, err := keyring.Get(s.service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrKeyNotFound
	}

	if err != nil {
		return nil, errors.Wrap(err, "error reading key from keyring")
	}

	k, err := DecodeKey(v)
	if err != nil {
		return nil, errors.Wrapf(err, "keyring entry %v", name)
	}

	log(ctx).Debugf("key %v retrieved from keyring", name)

	return k, nil
}

func (s keyringSource) PersistKey(ctx context.Context, name string, key []byte) error {
	log(ctx).Debugf("saving key %v to keyring", name)

	if err := keyring.Set(s.service, name, EncodeKey(key)); err != nil {
		if errors.Is(err, keyring.ErrUnsupportedPlatform) {
			return ErrUnsupported
		}

		return errors.Wrap(err, "error saving key to keyring")
	}

	return nil
}
