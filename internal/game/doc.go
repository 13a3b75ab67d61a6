// Package game implements the core Texas Hold'em table logic: seating,
// blind posting, betting rounds, street advancement, and showdown
// with tiered side pots.
//
// A Table is a single-threaded state machine. All mutations (StartHand,
// HandleAction, Join, Leave) must be serialized by the caller; the
// server package runs one goroutine per table for exactly this reason.
// The table performs no I/O: dealing, evaluation, and transitions are
// synchronous and in-memory.
package game
