// Package errors provides the structured error type shared by chatkit packages.
// Every failure raised by the adapter before a backend call carries one of the
// ErrorCode values below, so callers can branch on IsCode instead of matching
// message text. Backend transport failures are passed through untouched.
package errors
