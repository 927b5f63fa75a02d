package source

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hireline/timeline/client"
	"github.com/hireline/timeline/internal/models"
)

// UserLister, JobLister and ApplicationLister are the SDK calls RESTSource uses.
type (
	UserLister interface {
		GetAllUsers(ctx context.Context) ([]client.User, error)
	}
	JobLister interface {
		GetJobs(ctx context.Context) ([]client.Job, error)
	}
	ApplicationLister interface {
		GetApplications(ctx context.Context) ([]client.Application, error)
	}
)

// RESTSource fetches records from the backend REST API.
type RESTSource struct {
	users        UserLister
	jobs         JobLister
	applications ApplicationLister
	log          *logrus.Logger
}

// NewRESTSource creates a RESTSource backed by the given SDK client.
func NewRESTSource(c *client.Client, log *logrus.Logger) *RESTSource {
	return NewRESTSourceFrom(c.Users, c.Jobs, c.Applications, log)
}

// NewRESTSourceFrom creates a RESTSource from individual listers.
func NewRESTSourceFrom(users UserLister, jobs JobLister, apps ApplicationLister, log *logrus.Logger) *RESTSource {
	return &RESTSource{users: users, jobs: jobs, applications: apps, log: log}
}

// Fetch issues the three collection requests concurrently and waits for all
// of them. The first failure cancels the others and fails the whole fetch;
// partial results are discarded.
func (s *RESTSource) Fetch(ctx context.Context) (models.SourceSet, error) {
	var (
		users []client.User
		jobs  []client.Job
		apps  []client.Application
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if users, err = s.users.GetAllUsers(gctx); err != nil {
			return &models.FetchError{Source: CollectionUsers, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if jobs, err = s.jobs.GetJobs(gctx); err != nil {
			return &models.FetchError{Source: CollectionJobs, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if apps, err = s.applications.GetApplications(gctx); err != nil {
			return &models.FetchError{Source: CollectionApplications, Err: err}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.SourceSet{}, err
	}

	set := models.SourceSet{
		Users:        convertUsers(users),
		Jobs:         convertJobs(jobs),
		Applications: convertApplications(apps),
	}

	s.log.WithFields(logrus.Fields{
		"users":        len(set.Users),
		"jobs":         len(set.Jobs),
		"applications": len(set.Applications),
	}).Debug("rest source fetched")

	return set, nil
}
