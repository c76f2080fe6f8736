// Package config loads enforcement object definitions from YAML or JSON files.
package config

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/storagepath/enforce/enforcement"
	"github.com/storagepath/enforce/enforcement/compression"
	"github.com/storagepath/enforce/enforcement/encryption"
	"github.com/storagepath/enforce/enforcement/mechanism"
	"github.com/storagepath/enforce/internal/keysource"
	"github.com/storagepath/enforce/logging"
)

var log = logging.Module("config")

// ErrInvalidConfig is returned when a configuration file fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Key sources understood by KeyRef.Source.
const (
	SourceEnv        = "env"
	SourceFile       = "file"
	SourceKeyring    = "keyring"
	SourcePassphrase = "passphrase"
)

// File is the top-level configuration document.
type File struct {
	Objects []ObjectConfig `yaml:"objects" json:"objects"`
}

// ObjectConfig defines a single enforcement object.
type ObjectConfig struct {
	ID          int64              `yaml:"id"                    json:"id"`
	Kind        string             `yaml:"kind"                  json:"kind"`
	Compression *CompressionConfig `yaml:"compression,omitempty" json:"compression,omitempty"`
	Encryption  *EncryptionConfig  `yaml:"encryption,omitempty"  json:"encryption,omitempty"`
}

// CompressionConfig selects the compressor of a compression object.
type CompressionConfig struct {
	Algorithm string `yaml:"algorithm" json:"algorithm"`
}

// EncryptionConfig selects the cipher and master key of an encryption object.
type EncryptionConfig struct {
	Algorithm string `yaml:"algorithm" json:"algorithm"`
	Key       KeyRef `yaml:"key"       json:"key"`
}

// KeyRef points at a master key held by one of the key sources.
type KeyRef struct {
	// Source is one of env, file, keyring or passphrase; empty means env.
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
	Name   string `yaml:"name"             json:"name"`

	// Salt is the hex: or base64: encoded scrypt salt, used with the passphrase source only.
	Salt string `yaml:"salt,omitempty" json:"salt,omitempty"`
}

// KeySources maps KeyRef.Source values to the sources that resolve them.
// The passphrase source returns passphrase text, which is stretched with the configured salt.
type KeySources map[string]keysource.Source

// Load reads and validates the configuration file at the given path.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, errors.Wrap(err, "unable to read configuration")
	}

	return Parse(b)
}

// Parse parses and validates a configuration document. JSON documents are accepted as well.
func Parse(b []byte) (*File, error) {
	f := &File{}

	if err := yaml.Unmarshal(b, f); err != nil {
		return nil, errors.Wrap(err, "unable to parse configuration")
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

// Validate checks object definitions for consistency without resolving keys.
func (f *File) Validate() error {
	seen := map[int64]bool{}

	for i, o := range f.Objects {
		if seen[o.ID] {
			return errors.Wrapf(ErrInvalidConfig, "object #%v: duplicate id %v", i, o.ID)
		}

		seen[o.ID] = true

		if err := o.validate(); err != nil {
			return errors.Wrapf(err, "object #%v (id %v)", i, o.ID)
		}
	}

	return nil
}

func (o ObjectConfig) validate() error {
	switch o.Kind {
	case mechanism.KindCompression:
		if o.Encryption != nil {
			return errors.Wrap(ErrInvalidConfig, "encryption settings on a compression object")
		}

		if o.Compression != nil && o.Compression.Algorithm != "" {
			if _, err := compression.FindCompressor(compression.Name(o.Compression.Algorithm)); err != nil {
				return errors.Wrap(ErrInvalidConfig, err.Error())
			}
		}

	case mechanism.KindEncryption:
		if o.Compression != nil {
			return errors.Wrap(ErrInvalidConfig, "compression settings on an encryption object")
		}

		if o.Encryption == nil || o.Encryption.Key.Name == "" {
			return errors.Wrap(ErrInvalidConfig, "encryption object requires a key")
		}

		if a := o.Encryption.Algorithm; a != "" && encryption.Description(a) == "" {
			return errors.Wrapf(ErrInvalidConfig, "unknown encryption algorithm %q", a)
		}

		switch o.Encryption.Key.Source {
		case "", SourceEnv, SourceFile, SourceKeyring:
		case SourcePassphrase:
			if o.Encryption.Key.Salt == "" {
				return errors.Wrap(ErrInvalidConfig, "passphrase key requires a salt")
			}
		default:
			return errors.Wrapf(ErrInvalidConfig, "unknown key source %q", o.Encryption.Key.Source)
		}

	case mechanism.KindNoop:
		if o.Compression != nil || o.Encryption != nil {
			return errors.Wrap(ErrInvalidConfig, "settings on a noop object")
		}

	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown kind %q", o.Kind)
	}

	return nil
}

// Definitions resolves keys and returns the definitions of all objects in file order.
func (f *File) Definitions(ctx context.Context, keys KeySources) ([]enforcement.Definition, error) {
	var result []enforcement.Definition

	for _, o := range f.Objects {
		def := enforcement.Definition{
			ID:   o.ID,
			Kind: o.Kind,
		}

		if o.Compression != nil {
			def.Algorithm = o.Compression.Algorithm
		}

		if o.Encryption != nil {
			def.Algorithm = o.Encryption.Algorithm

			k, err := resolveKey(ctx, o.Encryption.Key, keys)
			if err != nil {
				return nil, errors.Wrapf(err, "object %v", o.ID)
			}

			def.MasterKey = k
		}

		result = append(result, def)
	}

	return result, nil
}

// Build creates enforcement objects for all definitions in file order.
func (f *File) Build(ctx context.Context, keys KeySources) ([]enforcement.Object, error) {
	defs, err := f.Definitions(ctx, keys)
	if err != nil {
		return nil, err
	}

	var result []enforcement.Object

	for _, def := range defs {
		o, err := enforcement.NewObject(ctx, def)
		if err != nil {
			return nil, errors.Wrap(err, "unable to build enforcement object")
		}

		result = append(result, o)
	}

	log(ctx).Debugf("built %v enforcement objects", len(result))

	return result, nil
}

// Find returns the definition of the object with the given id.
func (f *File) Find(id int64) (ObjectConfig, bool) {
	for _, o := range f.Objects {
		if o.ID == id {
			return o, true
		}
	}

	return ObjectConfig{}, false
}

func resolveKey(ctx context.Context, ref KeyRef, keys KeySources) ([]byte, error) {
	src := ref.Source
	if src == "" {
		src = SourceEnv
	}

	s := keys[src]
	if s == nil {
		return nil, errors.Wrapf(keysource.ErrKeyNotFound, "no %v key source", src)
	}

	k, err := s.GetKey(ctx, ref.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "key %v from %v", ref.Name, src)
	}

	if src != SourcePassphrase {
		return k, nil
	}

	salt, err := keysource.DecodeKey(ref.Salt)
	if err != nil {
		return nil, errors.Wrap(err, "invalid salt")
	}

	return keysource.FromPassphrase(string(k), salt) //nolint:wrapcheck
}
