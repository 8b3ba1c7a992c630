package userstests

import (
	"context"
	"fmt"
	"net/http"

	"github.com/launchdarkly/http-stub-tests/framework"
	"github.com/launchdarkly/http-stub-tests/httpclient"
	"github.com/launchdarkly/http-stub-tests/stubserver"
	"github.com/launchdarkly/http-stub-tests/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unregisteredPath = "/api/unregistered"

// Environment says where the scenarios send their requests.
type Environment struct {
	// ServiceURL is the base URL of an external service. If empty, every test starts its own
	// in-process stub server loaded with the user mappings.
	ServiceURL string

	// ExtraMappingsFile is loaded into each in-process stub server. It is ignored when
	// ServiceURL is set.
	ExtraMappingsFile string
}

// RunTestSuite runs all of the users API scenarios.
func RunTestSuite(env Environment, filter framework.Filter, testLogger framework.TestLogger) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		DoUserAPITests(c, env)
	})
}

func DoUserAPITests(c *framework.Context, env Environment) {
	c.Run("GET returns empty user list", func(c *framework.Context) {
		client, _ := newScenario(c, env)
		RequireEmptyUserList(c, client)
	})

	c.Run("POST creates user", func(c *framework.Context) {
		client, _ := newScenario(c, env)
		RequireCreatedUser(c, client)
	})

	c.Run("repeated GET on a fresh fixture gives the same result", func(c *framework.Context) {
		for i := 1; i <= 2; i++ {
			c.Run(fmt.Sprintf("attempt %d", i), func(c *framework.Context) {
				client, _ := newScenario(c, env)
				RequireEmptyUserList(c, client)
			})
		}
	})

	c.Run("unregistered path gets the no-match response", func(c *framework.Context) {
		client, stub := newScenario(c, env)
		if stub == nil {
			c.SkipWithReason("requires the in-process stub server")
		}
		resp, err := client.Get(context.Background(), unregisteredPath)
		require.NoError(c, err)
		assert.Equal(c, http.StatusNotFound, resp.StatusCode)
		assert.NotEqual(c, EmptyUserListBody, resp.String())
		assert.NotEqual(c, CreatedUserBody, resp.String())

		unmatched := stub.UnmatchedRequests()
		if assert.Len(c, unmatched, 1) {
			assert.Equal(c, unregisteredPath, unmatched[0].Path)
		}
	})
}

// RequireEmptyUserList issues GET /api/users and requires status 200 and a body of exactly
// {"Users":[]}.
func RequireEmptyUserList(t require.TestingT, client *httpclient.Client) {
	resp, err := client.Get(context.Background(), UsersPath)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, EmptyUserListBody, resp.String())
}

// RequireCreatedUser posts John Doe to /api/users and requires status 201 and the created user
// in the response.
func RequireCreatedUser(t require.TestingT, client *httpclient.Client) {
	resp, err := client.PostJSON(context.Background(), UsersPath,
		users.NewUser{Name: "John Doe", Email: "johndoe@example.com"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "response body: %s", resp.String())

	var created users.User
	require.NoError(t, resp.DecodeJSON(&created))
	assert.Equal(t, 1, created.Id)
	assert.Equal(t, "John Doe", created.Name)
	assert.Equal(t, "johndoe@example.com", created.Email)
}

// newScenario returns a client for the environment. For an in-process stub, the stub is also
// returned and is stopped when the test exits.
func newScenario(c *framework.Context, env Environment) (*httpclient.Client, *stubserver.Server) {
	baseURL := env.ServiceURL
	var stub *stubserver.Server
	if baseURL == "" {
		s, err := StartUserStub(c.DebugLogger(), env.ExtraMappingsFile)
		require.NoError(c, err)
		c.Defer(s.Stop)
		stub = s
		baseURL = s.URL()
	}
	client, err := httpclient.New(baseURL,
		httpclient.WithLogger(c.DebugLogger()),
		httpclient.WithObserver(func(r httpclient.OutgoingRequest) {
			c.Debug("To reproduce: %s", r.CurlCommand())
		}),
	)
	require.NoError(c, err)
	c.Debug("Sending requests to %s", client.BaseURL())
	return client, stub
}
