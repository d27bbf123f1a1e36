// Package logger configures logrus and carries a per-operation id through
// context so that every log line of one command can be correlated.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ctxKey string

// OperationIDKey is the context key holding the operation id.
const OperationIDKey ctxKey = "opId"

// SlowThreshold is the duration above which Track logs at warn level.
const SlowThreshold = 500 * time.Millisecond

// Options controls Setup.
type Options struct {
	Level  string    // logrus level name; empty means "warn"
	Format string    // "text" or "json"; empty means "text"
	Output io.Writer // defaults to os.Stderr
}

// Setup configures the standard logrus logger.
// Verbose forces the debug level regardless of opts.Level.
func Setup(opts Options, verbose bool) error {
	levelName := opts.Level
	if levelName == "" {
		levelName = "warn"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if verbose {
		level = logrus.DebugLevel
	}

	switch opts.Format {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("log format %q: must be text or json", opts.Format)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logrus.SetOutput(out)
	logrus.SetLevel(level)
	return nil
}

// NewOperationID returns a fresh time-ordered operation id (UUIDv7).
func NewOperationID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ContextWithID returns a copy of ctx carrying the operation id.
func ContextWithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, OperationIDKey, id)
}

// IDFrom returns the operation id stored in ctx, if any.
func IDFrom(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(OperationIDKey).(string)
	return id, ok
}

// For returns a log entry tagged with the operation id from ctx.
func For(ctx context.Context) *logrus.Entry {
	id, ok := IDFrom(ctx)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logrus.WithField("op_id", id)
}

// Track logs msg with its duration when the returned func is called.
//
//	defer logger.Track(ctx, "import")()
func Track(ctx context.Context, msg string) func() {
	start := time.Now()
	return func() {
		dur := time.Since(start)
		entry := For(ctx).WithField("duration", dur.String())

		if dur > SlowThreshold {
			entry.Warnf("%s completed (slow)", msg)
		} else {
			entry.Debugf("%s completed", msg)
		}
	}
}
