package keysource

import (
	"context"

	"github.com/pkg/errors"
)

var _ Source = (Multiple{})

// Multiple is a Source that tries several underlying sources in order.
type Multiple []Source

// GetKey retrieves the key from the first source that has it.
func (m Multiple) GetKey(ctx context.Context, name string) ([]byte, error) {
	for _, s := range m {
		k, err := s.GetKey(ctx, name)
		if err == nil {
			return k, nil
		}

		if errors.Is(err, ErrKeyNotFound) {
			continue
		}

		return nil, errors.Wrap(err, "error getting key")
	}

	return nil, ErrKeyNotFound
}
