// Package framework contains a small test runner that works outside of the Go test runner, so
// that the same scenarios can be run by "go test" against an in-process stub server and by the
// command-line tool against an arbitrary service.
//
// The general model is:
//
// 1. A Context is similar to Go's *testing.T. It implements the interface required by the
// testify assert and require packages, allows pieces of test logic to be associated with a test
// identifier, and accumulates success/failure results.
//
// 2. Each test has its own capturing debug logger. Its output is passed to the TestLogger when
// the test finishes, so that it can be shown only for failed tests.
//
// 3. Tests can register cleanup functions with Defer; these run when the test exits, whether it
// passed, failed, or panicked.
package framework
