// Package stubserver provides an in-process HTTP stub server for tests.
//
// A Server listens on a loopback address and answers requests from a set of mappings. Each
// mapping pairs a RequestMatcher, which decides whether an incoming request applies, with a
// ResponseDefinition describing the canned response:
//
//	server, err := stubserver.Start()
//	if err != nil { ... }
//	defer server.Stop()
//
//	_, err = server.Given(stubserver.Request().WithPath("/api/users").UsingGet()).
//		RespondWith(stubserver.Response().WithStatusCode(200).WithBody(`{"Users":[]}`))
//
// Requests that match no mapping receive a 404 response with a JSON description of the
// request. Every request is recorded in a journal that tests can inspect with Requests and
// UnmatchedRequests.
//
// Mappings can also be loaded from JSON (see MappingDefinition) or managed at runtime through
// the admin endpoints under /__admin/.
package stubserver
