package keysource

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const keyFileMode = 0o600

// File is a Persister that keeps keys in files under dir; key names are file names.
// Files holding hex: or base64: text are decoded, anything else is used as raw key bytes.
func File(dir string) Persister {
	return fileSource{dir}
}

type fileSource struct {
	dir string
}

func (s fileSource) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s fileSource) GetKey(ctx context.Context, name string) ([]byte, error) {
	b, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, ErrKeyNotFound
	}

	if err != nil {
		return nil, errors.Wrap(err, "error reading key file")
	}

	k, err := DecodeKey(string(b))
	if errors.Is(err, ErrInvalidEncoding) {
		k, err = b, nil
	}

	if err != nil {
		return nil, errors.Wrapf(err, "key file %v", s.path(name))
	}

	log(ctx).Debugf("key %v retrieved from %v", name, s.path(name))

	return k, nil
}

func (s fileSource) PersistKey(ctx context.Context, name string, key []byte) error {
	fn := s.path(name)
	log(ctx).Debugf("saving key to file %v", fn)

	//nolint:wrapcheck
	return os.WriteFile(fn, []byte(EncodeKey(key)), keyFileMode)
}
