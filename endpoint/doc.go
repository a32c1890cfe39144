// Package endpoint turns declarative endpoint metadata into callable operations.
//
// A Definition describes one operation: url template, method, positional
// argument names, default query and optional body/response schemas. Binding a
// Definition to a Connection produces an Endpoint:
//
//	getTable := endpoint.Must(endpoint.NewDefinition(request.MethodGet, "/table/{schema}/{name}",
//		endpoint.WithArgNames("schema", "name", "database"),
//		endpoint.WithQueryFromArg("database"),
//		endpoint.WithDefaultQuery("compact", "true"),
//	))
//
//	ep := endpoint.Bind(conn, getTable)
//	out, err := ep.Do(ctx, "my_schema", "my_table", "my_database")
//	// GET /table/my_schema/my_table?database=my_database&compact=true
//
// # Groups
//
// A Group collects conventional CRUD actions under one url prefix:
//
//	objects := endpoint.Must(endpoint.NewGroup("/object", []*endpoint.Action{
//		endpoint.List(schema.Of[ObjectList]()),
//		endpoint.Retrieve(schema.Of[Object]()),
//		endpoint.Create(schema.Of[Object]()),
//	}))
//
//	bound := objects.Bind(conn)
//	obj, err := bound.Retrieve(ctx, 5) // GET /object/5
//
// # Errors
//
// Calls fail with *ArgumentCountError, *MissingArgumentError or
// *UnknownActionError for misuse; all three unwrap to a sentinel
// (ErrArgumentCount, ErrMissingArgument, ErrUnknownAction). Schema, transport
// and status errors from the connection are returned unchanged.
package endpoint
