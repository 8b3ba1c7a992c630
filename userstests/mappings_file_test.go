package userstests

import (
	"path/filepath"
	"testing"

	"github.com/launchdarkly/http-stub-tests/httpclient"
	"github.com/launchdarkly/http-stub-tests/stubserver"

	"github.com/stretchr/testify/require"
)

func TestMappingsFileSatisfiesScenarios(t *testing.T) {
	server, err := stubserver.Start()
	require.NoError(t, err)
	t.Cleanup(server.Stop)
	require.NoError(t, server.LoadMappingsFile(filepath.Join("testdata", "users_mappings.json")))

	client, err := httpclient.New(server.URL())
	require.NoError(t, err)
	RequireEmptyUserList(t, client)
	RequireCreatedUser(t, client)
}
