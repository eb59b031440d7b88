/*
Package tally is a four-function keypad calculator engine.

It models the calculator as a deterministic state machine: every key press (digit, decimal
point, sign toggle, percent, operator, equals, backspace, clear entry, all clear) maps the
current register tuple to a new one. Arithmetic uses double precision rounded to 12
fractional digits; failures such as dividing by zero put the state into an error state that
shows "Error" until the next key.

# Architecture

The engine holds no session state. Callers keep the *domain.State returned by each call,
which makes the same core usable from a terminal, an HTTP API or an MCP server. Sessions
can be persisted through the stores in pkg/adapters and coordinated by pkg/session.

# Usage

	eng := tally.New()
	ctx := context.Background()

	state := eng.Start(ctx, "desk")
	state, err := eng.PressAll(ctx, state, "5 + 3 + 2 =")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(eng.Render(ctx, state).Value) // 10

# Observability

Use WithLogger to trace every transition at debug level and WithLifecycleHooks to receive
key, transition and error events (pkg/observability turns them into Prometheus metrics).
*/
package tally
