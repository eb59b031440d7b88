/*
Package ports defines the driven ports (interfaces) for the Tally engine.

These interfaces decouple the calculator core from external implementations, allowing
sessions to live in memory, on disk or in Redis and to be driven from any front end.

# Key Interfaces

  - Engine: The calculator operations consumed by adapters (HTTP, MCP, runner).
  - StateStore: Responsible for persisting and loading session State.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
