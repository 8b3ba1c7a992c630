package users

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserWireFormat(t *testing.T) {
	data, err := json.Marshal(NewUser{Name: "John Doe", Email: "johndoe@example.com"})
	require.NoError(t, err)
	assert.Equal(t, `{"Name":"John Doe","Email":"johndoe@example.com"}`, string(data))
}

func TestUserFromWire(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"Id":1,"Name":"John Doe","Email":"johndoe@example.com"}`), &u))
	assert.Equal(t, User{Id: 1, Name: "John Doe", Email: "johndoe@example.com"}, u)
}

func TestEmptyUserList(t *testing.T) {
	data, err := json.Marshal(UserList{Users: []User{}})
	require.NoError(t, err)
	assert.Equal(t, `{"Users":[]}`, string(data))
}
