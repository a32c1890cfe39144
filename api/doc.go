// Package api provides the connection side of restbind: a Client that owns
// the host, scheme, path prefix, headers and transport of one API, and a
// Surface declaring the endpoints and groups callable through it.
//
// # Usage
//
// Declare the surface once and create as many clients from it as needed:
//
//	surface := api.NewSurface().
//		Endpoint("ping", endpoint.Must(endpoint.NewDefinition(request.MethodGet, "/ping"))).
//		Group("objects", endpoint.Must(endpoint.NewGroup("/object", []*endpoint.Action{
//			endpoint.Retrieve(schema.Of[Object]()),
//		})))
//
//	client, err := api.NewJSON("api.example.com",
//		api.WithPathPrefix("/v1"),
//		api.WithHeaders(map[string]string{"X-Api-Key": key}),
//		api.WithSurface(surface),
//		api.WithLogger(logger),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	objects, err := client.Group("objects")
//	obj, err := endpoint.As[Object](objects.Retrieve(ctx, 5))
//
// Bound endpoints and groups are cached per client. Two clients created from
// the same surface never share bound values.
//
// # Error Handling
//
// The package defines several error types:
//
//   - ErrInvalidConfig: Invalid host, scheme or surface
//   - ErrUnknownEndpoint, ErrUnknownGroup: Names not on the surface
//   - StatusError: Non-2xx responses, matching ErrHTTPStatus
//
// Status errors include helper methods for classification:
//
//	var statusErr *api.StatusError
//	if errors.As(err, &statusErr) && statusErr.IsNotFound() {
//		// Handle missing resource
//	}
package api
