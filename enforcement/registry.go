package enforcement

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Definition describes an enforcement object to be created by NewObject.
type Definition struct {
	ID   int64
	Kind string

	// Algorithm selects the mechanism primitive, empty for the kind default.
	Algorithm string

	// MasterKey is the key material for mechanisms that require one.
	MasterKey []byte
}

// Factory creates an enforcement object from its definition.
type Factory func(ctx context.Context, def Definition) (Object, error)

type kindInfo struct {
	description string
	factory     Factory
}

//nolint:gochecknoglobals
var (
	kindsMu sync.RWMutex
	kinds   = map[string]*kindInfo{}
)

// RegisterKind registers a new kind of enforcement object.
func RegisterKind(kind, description string, f Factory) {
	kindsMu.Lock()
	defer kindsMu.Unlock()

	if kinds[kind] != nil {
		panic("enforcement object kind already registered: " + kind)
	}

	kinds[kind] = &kindInfo{description, f}
}

// SupportedKinds returns the sorted names of registered kinds.
func SupportedKinds() []string {
	kindsMu.RLock()
	defer kindsMu.RUnlock()

	var result []string
	for k := range kinds {
		result = append(result, k)
	}

	sort.Strings(result)

	return result
}

// KindDescription returns the description of a registered kind.
func KindDescription(kind string) string {
	kindsMu.RLock()
	defer kindsMu.RUnlock()

	if k := kinds[kind]; k != nil {
		return k.description
	}

	return ""
}

// NewObject creates an enforcement object for the given definition.
func NewObject(ctx context.Context, def Definition) (Object, error) {
	kindsMu.RLock()
	k := kinds[def.Kind]
	kindsMu.RUnlock()

	if k == nil {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", def.Kind)
	}

	o, err := k.factory(ctx, def)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create %v object %v", def.Kind, def.ID)
	}

	return o, nil
}
