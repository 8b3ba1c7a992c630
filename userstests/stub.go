package userstests

import (
	"net/http"

	"github.com/launchdarkly/http-stub-tests/logging"
	"github.com/launchdarkly/http-stub-tests/stubserver"
)

const (
	UsersPath             = "/api/users"
	EmptyUserListBody     = `{"Users":[]}`
	CreateUserRequestBody = `{"Name":"John Doe","Email":"johndoe@example.com"}`
	CreatedUserBody       = `{"Id":1,"Name":"John Doe","Email":"johndoe@example.com"}`
)

// AddUserMappings registers the list and create mappings on s.
func AddUserMappings(s *stubserver.Server) error {
	if _, err := s.Given(stubserver.Request().WithPath(UsersPath).UsingGet()).
		RespondWith(stubserver.Response().WithStatusCode(http.StatusOK).WithBody(EmptyUserListBody)); err != nil {
		return err
	}
	if _, err := s.Given(stubserver.Request().WithPath(UsersPath).UsingPost().WithBody(CreateUserRequestBody)).
		RespondWith(stubserver.Response().WithStatusCode(http.StatusCreated).WithBody(CreatedUserBody)); err != nil {
		return err
	}
	return nil
}

// StartUserStub starts a stub server with the user mappings, plus any mappings in
// extraMappingsFile if it is not empty.
func StartUserStub(logger logging.Logger, extraMappingsFile string, opts ...stubserver.Option) (*stubserver.Server, error) {
	allOpts := append([]stubserver.Option{stubserver.WithLogger(logging.LoggerWithPrefix(logger, "[stub] "))}, opts...)
	s, err := stubserver.Start(allOpts...)
	if err != nil {
		return nil, err
	}
	if err := AddUserMappings(s); err != nil {
		s.Stop()
		return nil, err
	}
	if extraMappingsFile != "" {
		if err := s.LoadMappingsFile(extraMappingsFile); err != nil {
			s.Stop()
			return nil, err
		}
	}
	return s, nil
}
