package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/launchdarkly/http-stub-tests/framework"
)

type commandParams struct {
	serviceURL   string
	mappingsFile string
	serve        bool
	port         int
	filters      framework.RegexFilters
	debug        bool
	debugAll     bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the service to test (default: in-process stub server)")
	fs.StringVar(&c.mappingsFile, "mappings", "", "JSON file of additional stub mappings")
	fs.BoolVar(&c.serve, "serve", false, "serve the stub mappings until interrupted instead of running tests")
	fs.IntVar(&c.port, "port", defaultPort, "port for -serve to listen on (0 picks an unused port)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if c.serve && c.serviceURL != "" {
		fmt.Fprintln(os.Stderr, "-serve and -url cannot be used together")
		fs.Usage()
		return false
	}
	if c.port < 0 || c.port > 65535 {
		fmt.Fprintf(os.Stderr, "invalid -port %d\n", c.port)
		return false
	}
	return true
}
