package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ToWriter returns a LoggerFactory that logs messages (without timestamps or levels) to the provided writer.
func ToWriter(w io.Writer) LoggerFactory {
	return func(module string) Logger {
		return zap.New(
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
					MessageKey: "m",
					LineEnding: zapcore.DefaultLineEnding,
				}),
				zapcore.AddSync(w),
				zapcore.DebugLevel,
			),
		).Sugar()
	}
}
