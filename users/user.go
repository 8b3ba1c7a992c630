// Package users defines the payloads of the users API that the scenarios exercise.
package users

// User is a user resource as returned by the API.
type User struct {
	Id    int    `json:"Id"`
	Name  string `json:"Name"`
	Email string `json:"Email"`
}

// NewUser is the body of a request to create a user.
type NewUser struct {
	Name  string `json:"Name"`
	Email string `json:"Email"`
}

// UserList is the body of a response listing users.
type UserList struct {
	Users []User `json:"Users"`
}
