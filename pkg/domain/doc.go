/*
Package domain contains the core domain models of the Tally calculator engine.

It defines the registers held by a calculator session, the keypad events that
drive it and the two display lines derived from it. This package is kept pure and
free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - State: the register tuple of a session (Entry, Accumulator, Operator, JustEvaluated, Err).
  - Key: a discrete keypad event (digit, operator, equals, clear...).
  - Operator: one of the four arithmetic operators.
  - Display: the rendered expression and value lines.
  - StateDiff: the visible changes between two states, used for streaming updates.
*/
package domain
