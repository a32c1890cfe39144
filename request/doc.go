// Package request models a single HTTP request as an immutable value.
//
// A Spec is built up by overlaying options on top of another Spec:
//
//	base := request.New(
//		request.WithMethod(request.MethodGet),
//		request.WithPath(request.NewPath("users").Join(42)),
//		request.WithQuery(request.NewValues("expand", "groups")),
//	)
//	full := base.Overlay(
//		request.WithScheme(request.SchemeHTTPS),
//		request.WithHost("api.example.com"),
//	)
//	full.URI() // https://api.example.com/users/42?expand=groups
//
// Scalar fields are replaced by an overlay while the query and headers are
// merged, with the overlay winning on conflicting keys. Neither the receiver
// nor the overlay arguments are ever modified.
//
// Path is the normalized path fragment used throughout: it never stores a
// leading or trailing separator and always renders with a single leading one.
package request
