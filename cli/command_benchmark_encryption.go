package cli

import (
	"context"
	"crypto/rand"

	"github.com/pkg/errors"

	"github.com/storagepath/enforce/enforcement"
	"github.com/storagepath/enforce/enforcement/encryption"
	"github.com/storagepath/enforce/enforcement/mechanism"
)

const benchmarkMasterKeySize = 64

type commandBenchmarkEncryption struct {
	flags  benchmarkFlags
	verify bool

	svc appServices
	out textOutput
}

func (c *commandBenchmarkEncryption) setup(svc appServices, parent commandParent) {
	cmd := parent.Command("encryption", "Run encryption benchmarks").Alias("crypto")
	c.flags.setup(cmd, "1000")
	cmd.Flag("verify", "Verify that ciphertext decrypts to the input").Default("true").BoolVar(&c.verify)
	cmd.Action(svc.baseAction(c.run))

	c.svc = svc
	c.out.setup(svc)
}

func (c *commandBenchmarkEncryption) run(ctx context.Context) error {
	if !encryption.HasAESHardware() {
		c.out.printWarning("AES hardware acceleration is not available, AES results will be slow.\n")
	}

	masterKey := make([]byte, benchmarkMasterKeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return errors.Wrap(err, "unable to generate key")
	}

	data := make([]byte, c.flags.blockSize)

	var results []benchResult

	for ndx, alg := range encryption.SupportedAlgorithms() {
		eo, err := mechanism.NewEncryptionObject(ctx, int64(ndx+1), alg, masterKey)
		if err != nil {
			return errors.Wrapf(err, "unable to create encryption object %v", alg)
		}

		log(ctx).Infof("Benchmarking encryption '%v' (%v x %v bytes, parallelism %v)", alg, c.flags.repeat, len(data), c.flags.parallel)

		var verify func(r *enforcement.Result, tweak uint64) error
		if c.verify {
			verify = verifyRoundTrip(eo, data)
		}

		res, err := runBenchmark(ctx, alg, mechanism.WithStatistics(eo, c.svc.metricsRegistry()), data, c.flags, verify)
		if err != nil {
			c.out.printWarning("encryption %q failed: %v\n", alg, err)
			continue
		}

		results = append(results, res)
	}

	printBenchResults(&c.out, "Encryption", results)

	return nil
}
