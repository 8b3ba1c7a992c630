// Package userstests contains the users API scenarios and the stub mappings that satisfy them.
//
// The scenarios are written against framework.Context so that the command-line tool can run
// them against any service. The package's own Go tests run the same scenarios, and the
// original fixture-based checks, against an in-process stub server.
package userstests
