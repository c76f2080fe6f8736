package cli

import (
	"bytes"
	"context"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/storagepath/enforce/enforcement"
	"github.com/storagepath/enforce/enforcement/mechanism"
	"github.com/storagepath/enforce/internal/config"
	"github.com/storagepath/enforce/internal/iocopy"
)

const outputFileMode = 0o600

type commandRun struct {
	configFile string
	objectID   int64
	decode     bool
	tweak      uint64
	showStats  bool
	input      string
	output     string

	svc appServices
	out textOutput
}

func (c *commandRun) setup(svc appServices, parent commandParent) {
	cmd := parent.Command("run", "Transform a file through a configured enforcement object.")
	cmd.Flag("config", "Configuration file.").Envar("ENFORCE_CONFIG").Required().ExistingFileVar(&c.configFile)
	cmd.Flag("object", "ID of the enforcement object to use.").Required().Int64Var(&c.objectID)
	cmd.Flag("decode", "Decode instead of encode.").BoolVar(&c.decode)
	cmd.Flag("tweak", "Per-request tweak (for example the sector number).").Default("0").Uint64Var(&c.tweak)
	cmd.Flag("stats", "Print request statistics to stderr.").BoolVar(&c.showStats)
	cmd.Arg("input", "Input file, - for stdin.").Required().StringVar(&c.input)
	cmd.Arg("output", "Output file, - for stdout.").Required().StringVar(&c.output)
	cmd.Action(svc.baseAction(c.run))

	c.svc = svc
	c.out.setup(svc)
}

func (c *commandRun) run(ctx context.Context) error {
	obj, err := c.buildObject(ctx)
	if err != nil {
		return err
	}

	var input bytes.Buffer

	if err := c.readInput(&input); err != nil {
		return err
	}

	op := enforcement.Encode
	if c.decode {
		op = enforcement.Decode
	}

	var r enforcement.Result

	obj.Enforce(enforcement.NewTicket(op, input.Bytes(), c.tweak), &r)

	if r.Status() != enforcement.StatusSuccess {
		return errors.Wrapf(r.Err(), "%v failed", op)
	}

	log(ctx).Debugf("%v: %v -> %v bytes (content: %v)", op, input.Len(), r.ContentSize(), r.HasContent())

	if err := c.writeOutput(r.Content()); err != nil {
		return err
	}

	if c.showStats {
		var st enforcement.ObjectStatistics

		if err := obj.CollectStatistics(&st); err != nil {
			return errors.Wrap(err, "unable to collect statistics")
		}

		c.out.printStderr("%v: %v in, %v out, ratio %.3f, took %v\n",
			obj, humanize.Bytes(uint64(st.BytesIn)), humanize.Bytes(uint64(st.BytesOut)), st.Ratio(), st.TotalDuration) //nolint:gosec
	}

	return nil
}

func (c *commandRun) buildObject(ctx context.Context) (enforcement.Object, error) {
	f, err := config.Load(c.configFile)
	if err != nil {
		return nil, errors.Wrap(err, "error loading configuration")
	}

	oc, ok := f.Find(c.objectID)
	if !ok {
		return nil, errors.Errorf("object %v not found in %v", c.objectID, c.configFile)
	}

	// only resolve the key of the selected object
	objs, err := (&config.File{Objects: []config.ObjectConfig{oc}}).Build(ctx, c.svc.keySources())
	if err != nil {
		return nil, errors.Wrap(err, "error creating enforcement object")
	}

	return mechanism.WithStatistics(objs[0], c.svc.metricsRegistry()), nil
}

func (c *commandRun) readInput(buf *bytes.Buffer) error {
	if c.input == "-" {
		return errors.Wrap(iocopy.ToBuffer(buf, os.Stdin, 0), "error reading stdin")
	}

	f, err := os.Open(c.input)
	if err != nil {
		return errors.Wrap(err, "unable to open input")
	}
	defer f.Close() //nolint:errcheck

	var sizeHint int

	if st, err := f.Stat(); err == nil {
		sizeHint = int(st.Size())
	}

	return errors.Wrap(iocopy.ToBuffer(buf, f, sizeHint), "error reading input")
}

func (c *commandRun) writeOutput(b []byte) error {
	if c.output == "-" {
		return errors.Wrap(iocopy.JustCopy(c.out.stdout(), bytes.NewReader(b)), "error writing output")
	}

	return errors.Wrap(os.WriteFile(c.output, b, outputFileMode), "error writing output")
}
