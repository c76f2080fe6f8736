package encryption

import (
	"bytes"
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/cpu"

	"github.com/storagepath/enforce/logging"
)

var log = logging.Module("encryption")

//nolint:gochecknoglobals
var (
	initOnce sync.Once
	initErr  error
)

const selfTestSize = 64

// Initialize prepares the cipher subsystem. It runs once per process and
// verifies every registered cipher; later calls return the first outcome.
func Initialize(ctx context.Context) error {
	initOnce.Do(func() {
		initErr = initialize(ctx)
	})

	return initErr
}

// HasAESHardware reports whether the CPU provides AES instructions.
func HasAESHardware() bool {
	return cpu.X86.HasAES || cpu.ARM64.HasAES || cpu.S390X.HasAES
}

func initialize(ctx context.Context) error {
	log(ctx).Debugw("initializing cipher subsystem",
		"aesHardware", HasAESHardware(),
		"algorithms", SupportedAlgorithms())

	for _, name := range SupportedAlgorithms() {
		if err := selfTest(name); err != nil {
			log(ctx).Errorf("cipher %v failed self test: %v", name, err)
			return errors.Wrapf(err, "self test of %v", name)
		}
	}

	return nil
}

// selfTest checks that a cipher round-trips and that the tweak affects its output.
func selfTest(name string) error {
	masterKey := bytes.Repeat([]byte{0x5a}, MinMasterKeySize)

	c, err := createCipher(name, masterKey)
	if err != nil {
		return err
	}

	plain := make([]byte, selfTestSize)
	for i := range plain {
		plain[i] = byte(i)
	}

	t1, t2 := DeriveTweak(1), DeriveTweak(2)

	ct1 := make([]byte, len(plain))
	if err := c.Encrypt(ct1, plain, &t1); err != nil {
		return errors.Wrap(err, "encrypt")
	}

	ct2 := make([]byte, len(plain))
	if err := c.Encrypt(ct2, plain, &t2); err != nil {
		return errors.Wrap(err, "encrypt")
	}

	if bytes.Equal(ct1, plain) || bytes.Equal(ct1, ct2) {
		return errors.New("ciphertext does not depend on key and tweak")
	}

	if err := c.Decrypt(ct1, ct1, &t1); err != nil {
		return errors.Wrap(err, "decrypt")
	}

	if !bytes.Equal(ct1, plain) {
		return errors.New("decryption does not round-trip")
	}

	return nil
}
