/*
Package runner implements the interactive loop and I/O orchestration for the Tally engine.

It acts as the bridge between the calculator core (ports.Engine) and the outside world.
The runner renders the display, reads key scripts through a pluggable IOHandler, applies
them and optionally persists every new state through a session.Manager.

# Key Components

  - Runner: The loop. It stops on EOF, a quit command or context cancellation.
  - TextHandler: Line mode. Each line is a key script such as "12 × 3 =".
  - KeypadHandler: Raw terminal mode. Every keystroke is a key.
  - JSONHandler: NDJSON for programs. One script in, one display object out per line.

# Usage

	r := runner.NewRunner(
		runner.WithSessionID("desk"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if _, err := r.Run(ctx, tally.New(), nil); err != nil {
		log.Fatal(err)
	}
*/
package runner
