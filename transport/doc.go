// Package transport provides the net/http implementation of request.Transport.
//
// The default client comes from go-cleanhttp's pooled configuration with a
// 30 second timeout. WithTracing wraps the round tripper with otelhttp so
// every request produces a client span.
package transport
