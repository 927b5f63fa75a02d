package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hireline/timeline/internal/models"
)

// DefaultQueryTimeout bounds a Postgres fetch when no timeout is configured.
const DefaultQueryTimeout = 30 * time.Second

// Querier is the subset of dbpool.Pool the Postgres source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Read-only queries against the recruiting backend's schema.
const (
	usersQuery = `
		SELECT id::text, COALESCE(username, ''), COALESCE(full_name, ''), COALESCE(email, ''),
		       COALESCE(role, ''), COALESCE(is_active, false), created_at, updated_at
		FROM users
		ORDER BY created_at, id`

	jobsQuery = `
		SELECT j.id::text, COALESCE(j.title, ''), COALESCE(j.location, ''), COALESCE(j.status, ''),
		       COALESCE(c.name, ''), j.created_at, j.updated_at
		FROM jobs j
		LEFT JOIN companies c ON c.id = j.company_id
		ORDER BY j.created_at, j.id`

	applicationsQuery = `
		SELECT a.id::text, COALESCE(a.candidate_name, ''), COALESCE(a.status, ''), COALESCE(a.job_id::text, ''),
		       COALESCE(j.title, ''), COALESCE(u.email, ''), a.created_at, a.updated_at
		FROM applications a
		LEFT JOIN jobs j ON j.id = a.job_id
		LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at, a.id`
)

// PostgresSource reads records straight from the backend database. It is
// used when the service is deployed next to the recruiting database instead
// of behind its REST API.
type PostgresSource struct {
	db      Querier
	log     *logrus.Logger
	timeout time.Duration
}

// NewPostgresSource creates a PostgresSource over db. timeout bounds one
// whole fetch; a non-positive value means DefaultQueryTimeout.
func NewPostgresSource(db Querier, log *logrus.Logger, timeout time.Duration) *PostgresSource {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &PostgresSource{db: db, log: log, timeout: timeout}
}

// Fetch runs the three collection queries concurrently. Any failure fails
// the whole fetch.
func (s *PostgresSource) Fetch(ctx context.Context) (models.SourceSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var set models.SourceSet

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if set.Users, err = queryAll(gctx, s.db, usersQuery, scanUser); err != nil {
			return &models.FetchError{Source: CollectionUsers, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if set.Jobs, err = queryAll(gctx, s.db, jobsQuery, scanJob); err != nil {
			return &models.FetchError{Source: CollectionJobs, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if set.Applications, err = queryAll(gctx, s.db, applicationsQuery, scanApplication); err != nil {
			return &models.FetchError{Source: CollectionApplications, Err: err}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.SourceSet{}, err
	}

	s.log.WithField("records", set.Len()).Debug("postgres source fetched")

	return set, nil
}

func queryAll[T any](ctx context.Context, db Querier, sql string, scan pgx.RowToFunc[T]) ([]T, error) {
	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}

	items, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, fmt.Errorf("scanning rows: %w", err)
	}

	return items, nil
}

func scanUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = utcPtr(u.UpdatedAt)
	return u, err
}

func scanJob(row pgx.CollectableRow) (models.Job, error) {
	var j models.Job
	err := row.Scan(&j.ID, &j.Title, &j.Location, &j.Status, &j.CompanyName, &j.CreatedAt, &j.UpdatedAt)
	j.CreatedAt = j.CreatedAt.UTC()
	j.UpdatedAt = utcPtr(j.UpdatedAt)
	return j, err
}

func scanApplication(row pgx.CollectableRow) (models.Application, error) {
	var a models.Application
	err := row.Scan(&a.ID, &a.CandidateName, &a.Status, &a.JobID, &a.JobTitle, &a.UserEmail, &a.CreatedAt, &a.UpdatedAt)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = utcPtr(a.UpdatedAt)
	return a, err
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
