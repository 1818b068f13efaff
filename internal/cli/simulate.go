package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/dialcode"
	"github.com/aretw0/dialcode/internal/presentation/tui"
	"github.com/aretw0/dialcode/pkg/ports"
	"github.com/aretw0/dialcode/pkg/runner"
	"golang.org/x/term"
)

// SimulateOptions contains the configuration for the simulate command.
type SimulateOptions struct {
	UserID string
	MSISDN string
	// JSON switches to JSON-Lines IO for scripted use.
	JSON bool
	// Plain disables banner and markdown rendering even on a terminal.
	Plain bool

	In  io.Reader
	Out io.Writer
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// RunSimulator plays the gateway against engine until input ends or ctx is done.
func RunSimulator(ctx context.Context, engine ports.DialogEngine, opts SimulateOptions, logger *slog.Logger) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		var textOpts []runner.TextHandlerOption
		if !opts.Plain && IsTerminal(opts.Out) {
			tui.PrintBanner(opts.Out, dialcode.Version)
			printSystemMessage(opts.Out, "Dial a code to start (e.g. *920*1806#). Type 'exit' to quit.")
			if render, err := tui.NewScreenRenderer(); err == nil {
				textOpts = append(textOpts, runner.WithTextHandlerRenderer(render))
			} else {
				logger.Warn("Markdown rendering disabled", "err", err)
			}
		}
		handler = runner.NewTextHandler(opts.In, opts.Out, textOpts...)
	}

	r := runner.NewRunner(
		runner.WithInputHandler(handler),
		runner.WithLogger(logger),
		runner.WithSubscriber(opts.UserID, opts.MSISDN),
	)
	return r.Run(ctx, engine)
}
