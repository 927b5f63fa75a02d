package client

import "context"

// ApplicationService handles candidate application operations.
type ApplicationService struct {
	c *Client
}

// GetApplications returns all applications across jobs.
func (s *ApplicationService) GetApplications(ctx context.Context) ([]Application, error) {
	return getList[Application](ctx, s.c, "/applications")
}
