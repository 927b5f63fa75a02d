package client

import "context"

// JobService handles job posting operations.
type JobService struct {
	c *Client
}

// GetJobs returns all job postings.
func (s *JobService) GetJobs(ctx context.Context) ([]Job, error) {
	return getList[Job](ctx, s.c, "/jobs")
}
