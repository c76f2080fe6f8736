package keysource

import (
	"context"
	"os"

	"github.com/pkg/errors"
)

// Env is a Source that reads encoded keys from environment variables named after the key.
func Env() Source {
	return envSource{}
}

type envSource struct{}

func (envSource) GetKey(ctx context.Context, name string) ([]byte, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil, ErrKeyNotFound
	}

	k, err := DecodeKey(v)
	if err != nil {
		return nil, errors.Wrapf(err, "environment variable %v", name)
	}

	log(ctx).Debugf("key %v retrieved from environment", name)

	return k, nil
}

// EnvPassphrase is a Source that returns the plain text of the named environment variable,
// for passphrases that are stretched with FromPassphrase rather than used as keys.
func EnvPassphrase() Source {
	return envPassphraseSource{}
}

type envPassphraseSource struct{}

func (envPassphraseSource) GetKey(ctx context.Context, name string) ([]byte, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil, ErrKeyNotFound
	}

	log(ctx).Debugf("passphrase %v retrieved from environment", name)

	return []byte(v), nil
}
