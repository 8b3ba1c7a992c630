package main

import (
	"testing"

	"github.com/launchdarkly/http-stub-tests/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDefaults(t *testing.T) {
	var p commandParams
	require.True(t, p.Read([]string{"cmd"}))
	assert.Equal(t, "", p.serviceURL)
	assert.Equal(t, defaultPort, p.port)
	assert.False(t, p.serve)
}

func TestReadFlags(t *testing.T) {
	var p commandParams
	require.True(t, p.Read([]string{"cmd", "-url", "http://localhost:3000", "-run", "POST", "-skip", "GET", "-debug"}))
	assert.Equal(t, "http://localhost:3000", p.serviceURL)
	assert.True(t, p.debug)
	assert.False(t, p.filters.AsFilter(framework.TestID{Path: []string{"GET returns empty user list"}}))
	assert.True(t, p.filters.AsFilter(framework.TestID{Path: []string{"POST creates user"}}))
}

func TestReadRejectsBadCombinations(t *testing.T) {
	var p commandParams
	assert.False(t, p.Read([]string{"cmd", "-serve", "-url", "http://localhost:3000"}))
	p = commandParams{}
	assert.False(t, p.Read([]string{"cmd", "-port", "-1"}))
	p = commandParams{}
	assert.False(t, p.Read([]string{"cmd", "-run", "("}))
}
