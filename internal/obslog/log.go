// Package obslog wires the process-wide zerolog logger: console-formatted
// when attached to a TTY, JSON otherwise, with --debug raising the level
// and attaching pkg/errors stack traces to fatal logs. Grounded on
// fluxbase's cmd/fluxbase/main.go logger bootstrap (zerolog.ConsoleWriter,
// zerolog.SetGlobalLevel), generalized with a TTY check borrowed from
// fluxbase's own golang.org/x/term usage in cli/util/util.go.
package obslog

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Options configures the single process-wide logger.
type Options struct {
	Debug bool
	RunID string
}

// Init installs the process-wide logger per Options. Safe to call once at
// startup; every subsequent log.Logger() call sees the configured sink.
func Init(opts Options) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if opts.RunID != "" {
		log.Logger = log.Logger.With().Str("run_id", opts.RunID).Logger()
	}
}

// Fatal logs err at fatal level and exits the process, attaching a stack
// trace field when err carries one (via pkg/errors' StackTracer interface).
func Fatal(err error, msg string) {
	ev := log.Fatal().Err(err)
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	var st stackTracer
	if stderrors.As(err, &st) {
		ev = ev.Str("stack", fmt.Sprintf("%+v", st.StackTrace()))
	}
	ev.Msg(msg)
}
