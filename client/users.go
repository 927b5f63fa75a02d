package client

import "context"

// UserService handles user account operations.
type UserService struct {
	c *Client
}

// GetAllUsers returns every user account visible to the caller.
func (s *UserService) GetAllUsers(ctx context.Context) ([]User, error) {
	return getList[User](ctx, s.c, "/users")
}
