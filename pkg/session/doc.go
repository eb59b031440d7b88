/*
Package session implements calculator session management and persistence orchestration.

A Manager serializes access to each session (per-process mutexes plus an optional
distributed lock) so that read-modify-write cycles such as Apply never lose a key press,
even when several front ends or replicas share a store.
*/
package session
