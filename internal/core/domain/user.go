package domain

// DemoUserID is returned for every user created through the demo endpoint.
const DemoUserID = 1337

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type CreateUser struct {
	Username string `json:"username"`
}

func NewUser(payload CreateUser) User {
	return User{
		ID:       DemoUserID,
		Username: payload.Username,
	}
}
