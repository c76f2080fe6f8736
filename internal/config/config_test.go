package config_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/storagepath/enforce/enforcement"
	"github.com/storagepath/enforce/enforcement/mechanism"
	"github.com/storagepath/enforce/internal/config"
	"github.com/storagepath/enforce/internal/keysource"
	"github.com/storagepath/enforce/internal/testlogging"
)

const sampleConfig = `
objects:
  - id: 1
    kind: compression
    compression: {algorithm: zstd}
  - id: 2
    kind: encryption
    encryption:
      algorithm: AES256-XTS
      key: {source: env, name: ENFORCE_TEST_KEY}
  - id: 3
    kind: noop
`

func testKeySources(t *testing.T) config.KeySources {
	t.Helper()

	t.Setenv("ENFORCE_TEST_KEY", "hex:"+hex.EncodeToString(bytes.Repeat([]byte{0x42}, 64)))

	return config.KeySources{
		config.SourceEnv:  keysource.Env(),
		config.SourceFile: keysource.File(t.TempDir()),
	}
}

func TestParseAndBuild(t *testing.T) {
	ctx := testlogging.Context(t)

	f, err := config.Parse([]byte(sampleConfig))
	require.NoError(t, err)

	want := &config.File{
		Objects: []config.ObjectConfig{
			{ID: 1, Kind: "compression", Compression: &config.CompressionConfig{Algorithm: "zstd"}},
			{ID: 2, Kind: "encryption", Encryption: &config.EncryptionConfig{
				Algorithm: "AES256-XTS",
				Key:       config.KeyRef{Source: "env", Name: "ENFORCE_TEST_KEY"},
			}},
			{ID: 3, Kind: "noop"},
		},
	}

	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("unexpected configuration (-want +got):\n%v", diff)
	}

	objs, err := f.Build(ctx, testKeySources(t))
	require.NoError(t, err)
	require.Len(t, objs, 3)

	require.IsType(t, &mechanism.CompressionObject{}, objs[0])
	require.IsType(t, &mechanism.EncryptionObject{}, objs[1])
	require.IsType(t, &mechanism.NoopObject{}, objs[2])

	for i, o := range objs {
		require.Equal(t, f.Objects[i].ID, o.ObjectID())
	}

	require.Equal(t, "AES256-XTS", objs[1].(*mechanism.EncryptionObject).Algorithm())
}

func TestParseJSON(t *testing.T) {
	f, err := config.Parse([]byte(`{"objects":[{"id":7,"kind":"compression","compression":{"algorithm":"s2"}}]}`))
	require.NoError(t, err)
	require.Len(t, f.Objects, 1)

	o, ok := f.Find(7)
	require.True(t, ok)
	require.Equal(t, "s2", o.Compression.Algorithm)

	_, ok = f.Find(8)
	require.False(t, ok)
}

func TestLoad(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "enforce.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(sampleConfig), 0o600))

	f, err := config.Load(fn)
	require.NoError(t, err)
	require.Len(t, f.Objects, 3)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"duplicate id": `
objects:
  - {id: 1, kind: noop}
  - {id: 1, kind: noop}
`,
		"unknown kind": `
objects:
  - {id: 1, kind: dedup}
`,
		"unknown compressor": `
objects:
  - {id: 1, kind: compression, compression: {algorithm: brotli}}
`,
		"unknown cipher": `
objects:
  - {id: 1, kind: encryption, encryption: {algorithm: ROT13, key: {name: K}}}
`,
		"missing key": `
objects:
  - {id: 1, kind: encryption, encryption: {algorithm: AES256-CTR}}
`,
		"unknown key source": `
objects:
  - {id: 1, kind: encryption, encryption: {key: {source: vault, name: K}}}
`,
		"passphrase without salt": `
objects:
  - {id: 1, kind: encryption, encryption: {key: {source: passphrase, name: K}}}
`,
		"mixed settings": `
objects:
  - {id: 1, kind: compression, encryption: {key: {name: K}}}
`,
		"noop with settings": `
objects:
  - {id: 1, kind: noop, compression: {algorithm: zstd}}
`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(doc))
			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}

	_, err := config.Parse([]byte("objects: [[["))
	require.Error(t, err)
}

func TestBuildMissingKey(t *testing.T) {
	ctx := testlogging.Context(t)

	f, err := config.Parse([]byte(`
objects:
  - {id: 1, kind: encryption, encryption: {key: {source: file, name: nosuchkey}}}
`))
	require.NoError(t, err)

	_, err = f.Build(ctx, testKeySources(t))
	require.ErrorIs(t, err, keysource.ErrKeyNotFound)

	_, err = f.Build(ctx, config.KeySources{})
	require.ErrorIs(t, err, keysource.ErrKeyNotFound)
}

func TestBuildShortKey(t *testing.T) {
	ctx := testlogging.Context(t)

	t.Setenv("ENFORCE_SHORT_KEY", "hex:0102")

	f, err := config.Parse([]byte(`
objects:
  - {id: 1, kind: encryption, encryption: {key: {name: ENFORCE_SHORT_KEY}}}
`))
	require.NoError(t, err)

	_, err = f.Build(ctx, config.KeySources{config.SourceEnv: keysource.Env()})
	require.Error(t, err)
}

type staticSource map[string][]byte

func (s staticSource) GetKey(_ context.Context, name string) ([]byte, error) {
	if k, ok := s[name]; ok {
		return k, nil
	}

	return nil, keysource.ErrKeyNotFound
}

func TestBuildPassphrase(t *testing.T) {
	ctx := testlogging.Context(t)

	keys := config.KeySources{
		config.SourcePassphrase: staticSource{"volume-passphrase": []byte("correct horse battery staple")},
	}

	f, err := config.Parse([]byte(`
objects:
  - id: 1
    kind: encryption
    encryption:
      algorithm: XCHACHA20
      key: {source: passphrase, name: volume-passphrase, salt: "hex:000102030405060708090a0b0c0d0e0f"}
`))
	require.NoError(t, err)

	defs, err := f.Definitions(ctx, keys)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Len(t, defs[0].MasterKey, keysource.MasterKeyLength)

	want, err := keysource.FromPassphrase("correct horse battery staple", []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	require.NoError(t, err)
	require.Equal(t, want, defs[0].MasterKey)

	objs, err := f.Build(ctx, keys)
	require.NoError(t, err)

	// objects built from the same passphrase interoperate
	var r1, r2 enforcement.Result

	objs[0].Enforce(enforcement.NewTicket(enforcement.Encode, []byte("hello, world"), 3), &r1)
	require.Equal(t, enforcement.StatusSuccess, r1.Status())

	objs2, err := f.Build(ctx, keys)
	require.NoError(t, err)

	objs2[0].Enforce(enforcement.NewTicket(enforcement.Decode, r1.Content(), 3), &r2)
	require.Equal(t, enforcement.StatusSuccess, r2.Status())
	require.Equal(t, []byte("hello, world"), r2.Content())

	// the passphrase source is resolved like any other
	_, err = f.Build(ctx, config.KeySources{config.SourceEnv: keysource.Env()})
	require.ErrorIs(t, err, keysource.ErrKeyNotFound)

	_, err = f.Build(ctx, config.KeySources{config.SourcePassphrase: staticSource{}})
	require.ErrorIs(t, err, keysource.ErrKeyNotFound)

	t.Setenv("ENFORCE_TEST_PASSPHRASE", "correct horse battery staple")

	f.Objects[0].Encryption.Key.Name = "ENFORCE_TEST_PASSPHRASE"

	defs, err = f.Definitions(ctx, config.KeySources{config.SourcePassphrase: keysource.EnvPassphrase()})
	require.NoError(t, err)
	require.Equal(t, want, defs[0].MasterKey)
}
