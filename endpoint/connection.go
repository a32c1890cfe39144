package endpoint

import (
	"context"

	"github.com/s0up4200/restbind/request"
	"github.com/s0up4200/restbind/schema"
)

// Connection is the API-level collaborator an Endpoint is bound to. It owns
// the scheme, host, path prefix and default headers, and knows how to send a
// request and post-process its response.
type Connection interface {
	// OverlayDefaults completes a partial spec with connection level values
	OverlayDefaults(spec request.Spec) request.Spec

	// Send dispatches a complete spec
	Send(ctx context.Context, spec request.Spec) (*request.Response, error)

	// ProcessResponse turns a raw response into the decoded payload
	ProcessResponse(ctx context.Context, resp *request.Response, spec request.Spec) (any, error)

	// Codec returns the schema collaborator used for bodies and responses
	Codec() schema.Codec
}
