// Package bootstrap gives chatkit programs a uniform lifecycle: validated
// configuration, logger setup, start and stop hooks, a ready check over
// health checkers, and signal-aware task execution.
package bootstrap
