package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/launchdarkly/http-stub-tests/framework"
	"github.com/launchdarkly/http-stub-tests/logging"
	"github.com/launchdarkly/http-stub-tests/stubserver"
	"github.com/launchdarkly/http-stub-tests/userstests"
)

const defaultPort = 8111

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	if params.serve {
		if err := serve(params); err != nil {
			fmt.Fprintf(os.Stderr, "Stub server error: %s\n", err)
			os.Exit(1)
		}
		return
	}

	if params.serviceURL != "" {
		fmt.Printf("Testing service at %s\n", params.serviceURL)
	} else {
		fmt.Println("Testing against an in-process stub server")
	}
	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	env := userstests.Environment{
		ServiceURL:        params.serviceURL,
		ExtraMappingsFile: params.mappingsFile,
	}
	results := userstests.RunTestSuite(env, params.filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(results)
	if !results.OK() {
		os.Exit(1)
	}
}

func serve(params commandParams) error {
	var logger logging.Logger = logging.NullLogger()
	if params.debug || params.debugAll {
		logger = log.New(os.Stdout, "", log.LstdFlags)
	}
	server, err := userstests.StartUserStub(logger, params.mappingsFile,
		stubserver.WithListenAddress(fmt.Sprintf("127.0.0.1:%d", params.port)))
	if err != nil {
		return err
	}
	defer server.Stop()

	fmt.Printf("Serving %d stub mappings at %s (Ctrl-C to stop)\n", len(server.Mappings()), server.URL())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	fmt.Println("Stopping")
	return nil
}
