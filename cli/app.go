// Package cli implements the command-line interface of the enforce tool.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/alecthomas/units"
	"github.com/fatih/color"

	"github.com/storagepath/enforce/enforcement/compression"
	"github.com/storagepath/enforce/internal/config"
	"github.com/storagepath/enforce/internal/keysource"
	"github.com/storagepath/enforce/internal/metrics"
	"github.com/storagepath/enforce/logging"
)

var log = logging.Module("enforce/cli")

var warningColor = color.New(color.FgYellow)

// DefaultKeyringService is the OS keyring service under which keys are stored.
const DefaultKeyringService = "enforce"

type appServices interface {
	baseAction(act func(ctx context.Context) error) func(ctx *kingpin.ParseContext) error
	keySources() config.KeySources
	keyPersister(source string) (keysource.Persister, error)
	metricsRegistry() *metrics.Registry
	stdout() io.Writer
	stderr() io.Writer
}

type commandParent interface {
	Command(name, help string) *kingpin.CmdClause
}

// App contains per-invocation flags and state of the enforce CLI.
type App struct {
	keyDir         string
	keyringService string
	maxDecodedSize units.Base2Bytes

	algorithms commandAlgorithms
	run        commandRun
	benchmark  commandBenchmark
	key        commandKey

	loggerFactory logging.LoggerFactory
	mr            *metrics.Registry

	stdoutWriter io.Writer
	stderrWriter io.Writer
	rootctx      context.Context //nolint:containedctx
}

// NewApp creates a new instance of App writing to standard output and error.
func NewApp() *App {
	return &App{
		stdoutWriter: colorableStdout(),
		stderrWriter: colorableStderr(),
		rootctx:      context.Background(),
		mr:           metrics.NewRegistry(),
	}
}

// NewAppWithWriters creates a new instance of App writing to the given writers.
func NewAppWithWriters(stdout, stderr io.Writer) *App {
	a := NewApp()
	a.stdoutWriter = stdout
	a.stderrWriter = stderr

	return a
}

// SetLoggerFactory sets the logger factory to be used by commands.
func (c *App) SetLoggerFactory(loggerForModule logging.LoggerFactory) {
	c.loggerFactory = loggerForModule
}

// Stdout returns the writer for command output.
func (c *App) Stdout() io.Writer {
	return c.stdoutWriter
}

// Stderr returns the writer for diagnostic output.
func (c *App) Stderr() io.Writer {
	return c.stderrWriter
}

func (c *App) stdout() io.Writer { return c.stdoutWriter }
func (c *App) stderr() io.Writer { return c.stderrWriter }

func (c *App) metricsRegistry() *metrics.Registry {
	return c.mr
}

// Attach attaches the CLI parser to the application.
func (c *App) Attach(app *kingpin.Application) {
	app.Flag("key-dir", "Directory holding key files.").Envar("ENFORCE_KEY_DIR").Default(defaultKeyDir()).StringVar(&c.keyDir)
	app.Flag("keyring-service", "OS keyring service name.").Envar("ENFORCE_KEYRING_SERVICE").Default(DefaultKeyringService).Hidden().StringVar(&c.keyringService)

	app.Flag("max-decoded-size", "Maximum size of a single decompressed payload.").Envar("ENFORCE_MAX_DECODED_SIZE").Default("256MiB").BytesVar(&c.maxDecodedSize)

	c.algorithms.setup(c, app)
	c.run.setup(c, app)
	c.benchmark.setup(c, app)
	c.key.setup(c, app)
}

func (c *App) keySources() config.KeySources {
	return config.KeySources{
		config.SourceEnv:        keysource.Env(),
		config.SourceFile:       keysource.File(c.keyDir),
		config.SourceKeyring:    keysource.Keyring(c.keyringService),
		config.SourcePassphrase: keysource.EnvPassphrase(),
	}
}

func (c *App) keyPersister(source string) (keysource.Persister, error) {
	switch source {
	case config.SourceFile:
		if err := os.MkdirAll(c.keyDir, keyDirMode); err != nil {
			return nil, err //nolint:wrapcheck
		}

		return keysource.File(c.keyDir), nil

	case config.SourceKeyring:
		return keysource.Keyring(c.keyringService), nil

	default:
		return nil, keysource.ErrUnsupported
	}
}

const keyDirMode = 0o700

func defaultKeyDir() string {
	d, err := os.UserConfigDir()
	if err != nil {
		return "keys"
	}

	return filepath.Join(d, "enforce", "keys")
}

func (c *App) rootContext() context.Context {
	ctx := c.rootctx

	if c.loggerFactory != nil {
		ctx = logging.WithLogger(ctx, c.loggerFactory)
	}

	return ctx
}

func (c *App) baseAction(act func(ctx context.Context) error) func(ctx *kingpin.ParseContext) error {
	return func(_ *kingpin.ParseContext) error {
		if c.maxDecodedSize > 0 {
			compression.SetMaxDecodedSize(int64(c.maxDecodedSize))
		}

		return act(c.rootContext())
	}
}
