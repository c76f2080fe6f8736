package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type textOutput struct {
	svc appServices
}

func (o *textOutput) setup(svc appServices) {
	o.svc = svc
}

func (o *textOutput) stdout() io.Writer {
	if o.svc == nil {
		return os.Stdout
	}

	return o.svc.stdout()
}

func (o *textOutput) stderr() io.Writer {
	if o.svc == nil {
		return os.Stderr
	}

	return o.svc.stderr()
}

func (o *textOutput) printStdout(msg string, args ...any) {
	fmt.Fprintf(o.stdout(), msg, args...) //nolint:errcheck
}

func (o *textOutput) printStderr(msg string, args ...any) {
	fmt.Fprintf(o.stderr(), msg, args...) //nolint:errcheck
}

func (o *textOutput) printWarning(msg string, args ...any) {
	warningColor.Fprintf(o.stderr(), msg, args...) //nolint:errcheck
}

func colorableStdout() io.Writer { return color.Output }
func colorableStderr() io.Writer { return color.Error }
