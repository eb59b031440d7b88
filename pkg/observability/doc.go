/*
Package observability provides tools for monitoring the Tally engine.

Metrics turns engine lifecycle events into Prometheus counters, and CombineHooks fans a
single event stream out to several consumers (for example debug logging plus metrics).
*/
package observability
