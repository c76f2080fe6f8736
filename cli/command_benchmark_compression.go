package cli

import (
	"bytes"
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/storagepath/enforce/enforcement"
	"github.com/storagepath/enforce/enforcement/compression"
	"github.com/storagepath/enforce/enforcement/mechanism"
)

type commandBenchmarkCompression struct {
	flags    benchmarkFlags
	dataFile string
	verify   bool

	svc appServices
	out textOutput
}

func (c *commandBenchmarkCompression) setup(svc appServices, parent commandParent) {
	cmd := parent.Command("compression", "Run compression benchmarks")
	c.flags.setup(cmd, "100")
	cmd.Flag("data-file", "Use data from the given file instead of generated data").ExistingFileVar(&c.dataFile)
	cmd.Flag("verify", "Verify that compressed output decodes to the input").Default("true").BoolVar(&c.verify)
	cmd.Action(svc.baseAction(c.run))

	c.svc = svc
	c.out.setup(svc)
}

func (c *commandBenchmarkCompression) run(ctx context.Context) error {
	data, err := c.data()
	if err != nil {
		return err
	}

	var results []benchResult

	for ndx, name := range compression.SupportedAlgorithms() {
		co, err := mechanism.NewCompressionObject(ctx, int64(ndx+1), name)
		if err != nil {
			return errors.Wrapf(err, "unable to create compression object %v", name)
		}

		log(ctx).Infof("Benchmarking compressor '%v' (%v x %v bytes, parallelism %v)", name, c.flags.repeat, len(data), c.flags.parallel)

		var verify func(r *enforcement.Result, tweak uint64) error
		if c.verify {
			verify = verifyRoundTrip(co, data)
		}

		res, err := runBenchmark(ctx, string(name), mechanism.WithStatistics(co, c.svc.metricsRegistry()), data, c.flags, verify)
		if err != nil {
			c.out.printWarning("compression %q failed: %v\n", name, err)
			continue
		}

		results = append(results, res)
	}

	printBenchResults(&c.out, "Compression", results)

	return nil
}

// data returns the benchmark payload: the data file or a mildly compressible generated block.
func (c *commandBenchmarkCompression) data() ([]byte, error) {
	if c.dataFile != "" {
		d, err := os.ReadFile(c.dataFile)
		return d, errors.Wrap(err, "unable to read data file")
	}

	data := make([]byte, c.flags.blockSize)
	line := []byte("enforce benchmark payload 0123456789 abcdefghijklmnopqrstuvwxyz\n")

	for i := range data {
		data[i] = line[i%len(line)] ^ byte(i/4096) //nolint:gosec
	}

	return data, nil
}

func verifyRoundTrip(o enforcement.Object, data []byte) func(r *enforcement.Result, tweak uint64) error {
	return func(r *enforcement.Result, tweak uint64) error {
		var dec enforcement.Result

		o.Enforce(enforcement.NewTicket(enforcement.Decode, r.Content(), tweak), &dec)

		if dec.Status() != enforcement.StatusSuccess {
			return errors.Wrap(dec.Err(), "decode failed")
		}

		if !bytes.Equal(dec.Content(), data) {
			return errors.Errorf("%v does not round-trip", o)
		}

		return nil
	}
}
