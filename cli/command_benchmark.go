package cli

import (
	"context"
	"sort"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/alecthomas/units"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/storagepath/enforce/enforcement"
)

type commandBenchmark struct {
	compression commandBenchmarkCompression
	encryption  commandBenchmarkEncryption
}

func (c *commandBenchmark) setup(svc appServices, parent commandParent) {
	cmd := parent.Command("benchmark", "Commands to test performance of enforcement objects.")

	c.compression.setup(svc, cmd)
	c.encryption.setup(svc, cmd)
}

// benchmarkFlags are shared by all benchmark commands.
type benchmarkFlags struct {
	blockSize units.Base2Bytes
	repeat    int
	parallel  int
}

func (f *benchmarkFlags) setup(cmd *kingpin.CmdClause, defaultRepeat string) {
	cmd.Flag("block-size", "Size of each request buffer").Default("1MiB").BytesVar(&f.blockSize)
	cmd.Flag("repeat", "Number of requests per goroutine").Default(defaultRepeat).IntVar(&f.repeat)
	cmd.Flag("parallel", "Number of parallel goroutines").Default("1").IntVar(&f.parallel)
}

type benchResult struct {
	name       string
	throughput float64
	stats      enforcement.ObjectStatistics
}

// runBenchmark sends repeat encode requests per goroutine through obj and returns its statistics.
// Requests use distinct tweaks so stream ciphers never reuse a keystream.
func runBenchmark(ctx context.Context, name string, obj enforcement.Object, data []byte, f benchmarkFlags, verify func(r *enforcement.Result, tweak uint64) error) (benchResult, error) {
	eg, ctx := errgroup.WithContext(ctx)

	t0 := time.Now()

	for g := range f.parallel {
		eg.Go(func() error {
			var r enforcement.Result

			for i := range f.repeat {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				tweak := uint64(g*f.repeat + i) //nolint:gosec

				obj.Enforce(enforcement.NewTicket(enforcement.Encode, data, tweak), &r)

				if r.Status() != enforcement.StatusSuccess {
					return r.Err()
				}

				if verify != nil && i == 0 {
					if err := verify(&r, tweak); err != nil {
						return err
					}
				}
			}

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return benchResult{}, err //nolint:wrapcheck
	}

	dt := time.Since(t0)

	var st enforcement.ObjectStatistics
	if err := obj.CollectStatistics(&st); err != nil {
		return benchResult{}, err //nolint:wrapcheck
	}

	return benchResult{
		name:       name,
		throughput: float64(st.BytesIn) / dt.Seconds(),
		stats:      st,
	}, nil
}

func printBenchResults(out *textOutput, title string, results []benchResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].throughput > results[j].throughput
	})

	out.printStdout("     %-25v %-10v %-12v %-12v %v\n", title, "Ratio", "Requests", "Mean", "Throughput")
	out.printStdout("------------------------------------------------------------------------------\n")

	for ndx, r := range results {
		out.printStdout("%3d. %-25v %-10.3f %-12v %-12v %v / second\n",
			ndx, r.name, r.stats.Ratio(), r.stats.Requests, r.stats.MeanDuration(), humanize.Bytes(uint64(r.throughput)))
	}

	if len(results) > 0 {
		out.printStdout("------------------------------------------------------------------------------\n")
		out.printStdout("Fastest option for this machine is: %v\n", results[0].name)
	}
}
