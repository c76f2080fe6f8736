package cli

import (
	"context"
	"crypto/rand"

	"github.com/alecthomas/units"
	"github.com/pkg/errors"

	"github.com/storagepath/enforce/enforcement/encryption"
	"github.com/storagepath/enforce/internal/config"
	"github.com/storagepath/enforce/internal/keysource"
)

type commandKey struct {
	generate commandKeyGenerate
}

func (c *commandKey) setup(svc appServices, parent commandParent) {
	cmd := parent.Command("key", "Commands to manage master keys.")

	c.generate.setup(svc, cmd)
}

type commandKeyGenerate struct {
	name  string
	store string
	size  units.Base2Bytes

	svc appServices
	out textOutput
}

func (c *commandKeyGenerate) setup(svc appServices, parent commandParent) {
	cmd := parent.Command("generate", "Generate a random master key.")
	cmd.Flag("name", "Key name.").Required().StringVar(&c.name)
	cmd.Flag("store", "Where to store the key, none prints it.").Default("none").EnumVar(&c.store, "none", config.SourceFile, config.SourceKeyring)
	cmd.Flag("size", "Key size.").Default("64B").BytesVar(&c.size)
	cmd.Action(svc.baseAction(c.run))

	c.svc = svc
	c.out.setup(svc)
}

func (c *commandKeyGenerate) run(ctx context.Context) error {
	if int(c.size) < encryption.MinMasterKeySize {
		return errors.Wrapf(encryption.ErrInvalidMasterKey, "key size must be at least %v bytes", encryption.MinMasterKeySize)
	}

	key := make([]byte, c.size)
	if _, err := rand.Read(key); err != nil {
		return errors.Wrap(err, "unable to generate key")
	}

	if c.store == "none" {
		c.out.printStdout("%v\n", keysource.EncodeKey(key))
		return nil
	}

	p, err := c.svc.keyPersister(c.store)
	if err != nil {
		return errors.Wrap(err, "invalid key store")
	}

	if err := p.PersistKey(ctx, c.name, key); err != nil {
		return errors.Wrap(err, "unable to store key")
	}

	c.out.printStderr("Stored %v-byte key %q in %v.\n", len(key), c.name, c.store)

	return nil
}
