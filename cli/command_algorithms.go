package cli

import (
	"context"

	"github.com/storagepath/enforce/enforcement"
	"github.com/storagepath/enforce/enforcement/compression"
	"github.com/storagepath/enforce/enforcement/encryption"
)

type commandAlgorithms struct {
	out textOutput
}

func (c *commandAlgorithms) setup(svc appServices, parent commandParent) {
	cmd := parent.Command("algorithms", "List supported enforcement kinds and algorithms.").Alias("algs")
	cmd.Action(svc.baseAction(c.run))
	c.out.setup(svc)
}

func (c *commandAlgorithms) run(ctx context.Context) error {
	c.out.printStdout("Kinds:\n")

	for _, k := range enforcement.SupportedKinds() {
		c.out.printStdout("  %-15v %v\n", k, enforcement.KindDescription(k))
	}

	c.out.printStdout("\nCompression:\n")

	for _, n := range compression.SupportedAlgorithms() {
		suffix := ""
		if n == compression.DefaultAlgorithm {
			suffix = " (default)"
		}

		c.out.printStdout("  %v%v\n", n, suffix)
	}

	c.out.printStdout("\nEncryption:\n")

	for _, a := range encryption.SupportedAlgorithms() {
		suffix := ""
		if a == encryption.DefaultAlgorithm {
			suffix = " (default)"
		}

		c.out.printStdout("  %-15v %v%v\n", a, encryption.Description(a), suffix)
	}

	if !encryption.HasAESHardware() {
		c.out.printWarning("\nAES hardware acceleration is not available on this machine.\n")
	}

	return nil
}
