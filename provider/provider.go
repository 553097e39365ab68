package provider

import "context"

// Provider is the base interface all backends implement.
type Provider interface {
	// Name returns the provider's name.
	Name() string
	// IsAvailable checks if the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}

// Closeable is implemented by providers that hold resources such as
// pooled connections.
type Closeable interface {
	Close(ctx context.Context) error
}
