package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/internal/healthcheck"
	"github.com/aretw0/tally/internal/presentation/tui"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/runner"
	"github.com/aretw0/tally/pkg/session"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	SessionID string
	Fresh     bool
	JSON      bool
	Keypad    bool
	Headless  bool
	Debug     bool
	Store     StoreOptions

	// In and Out default to Stdin and Stdout.
	In  io.Reader
	Out io.Writer
}

// Execute runs an interactive calculator session until EOF, quit or a signal.
func Execute(opts RunOptions) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()
	return ExecuteContext(sigCtx, opts)
}

// ExecuteContext is Execute with a caller-provided context.
func ExecuteContext(ctx context.Context, opts RunOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.Store.Dir == "" {
		opts.Store.Dir = cfg.SessionDir
	}
	if opts.Store.RedisURL == "" {
		opts.Store.RedisURL = cfg.RedisURL
	}
	if opts.SessionID == "" && opts.Store.Kind == "" {
		opts.Store.Kind = StoreMemory
	}

	logger := CreateLogger(cfg, opts.Debug)
	quiet := opts.JSON || opts.Headless

	engineOpts := []tally.Option{tally.WithLogger(logger)}
	if opts.Debug || cfg.Verbose() {
		engineOpts = append(engineOpts, tally.WithLifecycleHooks(DebugHooks(logger)))
	}
	engine := tally.New(engineOpts...)

	sessions, closeStore, err := OpenSessions(ctx, opts.Store, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close store", "err", err)
		}
	}()

	state, err := hydrateState(ctx, engine, sessions, opts, logger)
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}

	handler, cleanup, err := createHandler(opts, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if !quiet {
		tui.PrintBanner(opts.Out)
		if opts.SessionID != "" {
			printSystemMessage(opts.Out, "Session '%s' active. Type 'quit' to exit.", opts.SessionID)
		}
	}

	healthcheck.New(logger, cfg.Verbose(), cfg.HealthcheckPath).Ready()

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithDebugIndicator(cfg.DebugIndicator()),
	}
	if opts.SessionID != "" {
		runnerOpts = append(runnerOpts,
			runner.WithSessionID(opts.SessionID),
			runner.WithSessionManager(sessions),
		)
	}

	finalState, runErr := runner.NewRunner(runnerOpts...).Run(ctx, engine, state)

	if !quiet && finalState != nil {
		printSystemMessage(opts.Out, "Finished at %s.", finalState.Display().Value)
	}
	return handleExecutionError(runErr)
}

// hydrateState resumes the named session, or starts a fresh one.
func hydrateState(ctx context.Context, engine *tally.Engine, sessions *session.Manager, opts RunOptions, logger *slog.Logger) (*domain.State, error) {
	if opts.SessionID == "" {
		return engine.Start(ctx, ""), nil
	}
	if opts.Fresh {
		if err := sessions.Delete(ctx, opts.SessionID); err != nil {
			return nil, err
		}
		logger.Info("Session Reset", "session_id", opts.SessionID)
	}
	state, err := sessions.LoadOrStart(ctx, opts.SessionID)
	if err != nil {
		return nil, err
	}
	logger.Info("Session Loaded", "session_id", opts.SessionID, "value", state.Display().Value)
	return state, nil
}

// createHandler picks the IO strategy. Keypad mode needs a terminal on stdin and
// falls back to line mode otherwise.
func createHandler(opts RunOptions, cfg config.Config) (runner.IOHandler, func(), error) {
	noop := func() {}

	if opts.JSON {
		h := runner.NewJSONHandler(opts.In, opts.Out)
		h.MaxInputSize = cfg.MaxInputSize
		return h, noop, nil
	}

	renderer := runner.PlainRenderer
	if !opts.Headless {
		renderer = tui.NewDisplayRenderer(tui.WithAnnounce(cfg.Verbose()))
	}

	if f, ok := opts.In.(*os.File); ok && opts.Keypad && term.IsTerminal(int(f.Fd())) {
		h := runner.NewKeypadHandler(f, opts.Out, renderer)
		if err := h.EnableRaw(); err != nil {
			return nil, nil, err
		}
		return h, func() { _ = h.Close() }, nil
	}

	return runner.NewTextHandler(opts.In, opts.Out,
		runner.WithTextHandlerRenderer(renderer),
		runner.WithTextHandlerMaxInputSize(cfg.MaxInputSize),
	), noop, nil
}
