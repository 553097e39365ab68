// Package provider holds the small contracts shared by backend
// implementations: a named, health-checkable Provider, an optional
// Closeable lifecycle, and a pull-based Iterator for streamed values.
package provider
