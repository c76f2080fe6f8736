// Package compression manages the compression algorithms available to enforcement objects.
package compression

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Name is the name of the compressor to use.
type Name string

// DefaultAlgorithm is the compressor used when none is configured.
const DefaultAlgorithm Name = "snappy"

// ErrUnknownCompressor is returned by FindCompressor for unregistered names.
var ErrUnknownCompressor = errors.New("unknown compressor")

// Compressor implements compression and decompression of a byte slice.
//
// Implementations are safe for concurrent use and produce a raw stream with no
// framing beyond what the underlying format defines.
type Compressor interface {
	Compress(output *bytes.Buffer, input []byte) error
	Decompress(output *bytes.Buffer, input []byte) error
}

// ByName contains registered compressors by name.
//
//nolint:gochecknoglobals
var ByName = map[Name]Compressor{}

// RegisterCompressor registers the provided compressor implementation.
func RegisterCompressor(name Name, c Compressor) {
	if ByName[name] != nil {
		panic(fmt.Sprintf("compressor with name %q already registered", name))
	}

	ByName[name] = c
}

// FindCompressor returns the compressor registered under the given name, or the default one for an empty name.
func FindCompressor(name Name) (Compressor, error) {
	if name == "" {
		name = DefaultAlgorithm
	}

	c := ByName[name]
	if c == nil {
		return nil, errors.Wrapf(ErrUnknownCompressor, "%q", name)
	}

	return c, nil
}

// SupportedAlgorithms returns the sorted names of registered compressors.
func SupportedAlgorithms() []Name {
	var result []Name
	for k := range ByName {
		result = append(result, k)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i] < result[j]
	})

	return result
}

func mustSucceed(err error) {
	if err != nil {
		panic("unexpected error: " + err.Error())
	}
}
