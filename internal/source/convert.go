package source

import (
	"time"

	"github.com/hireline/timeline/client"
	"github.com/hireline/timeline/internal/models"
)

func convertUsers(in []client.User) []models.User {
	out := make([]models.User, 0, len(in))
	for _, u := range in {
		out = append(out, models.User{
			ID:        string(u.ID),
			Username:  u.Username,
			FullName:  u.FullName,
			Email:     u.Email,
			Role:      u.Role,
			IsActive:  u.IsActive,
			CreatedAt: u.CreatedAt.Time,
			UpdatedAt: timePtr(u.UpdatedAt),
		})
	}
	return out
}

func convertJobs(in []client.Job) []models.Job {
	out := make([]models.Job, 0, len(in))
	for _, j := range in {
		job := models.Job{
			ID:        string(j.ID),
			Title:     j.Title,
			Location:  j.Location,
			Status:    j.Status,
			CreatedAt: j.CreatedAt.Time,
			UpdatedAt: timePtr(j.UpdatedAt),
		}
		if j.Company != nil {
			job.CompanyName = j.Company.Name
		}
		out = append(out, job)
	}
	return out
}

func convertApplications(in []client.Application) []models.Application {
	out := make([]models.Application, 0, len(in))
	for _, a := range in {
		app := models.Application{
			ID:            string(a.ID),
			CandidateName: a.CandidateName,
			Status:        a.Status,
			JobID:         string(a.JobID),
			CreatedAt:     a.CreatedAt.Time,
			UpdatedAt:     timePtr(a.UpdatedAt),
		}
		if a.Job != nil {
			app.JobTitle = a.Job.Title
		}
		if a.User != nil {
			app.UserEmail = a.User.Email
		}
		out = append(out, app)
	}
	return out
}

// timePtr converts an optional SDK timestamp; null or zero means never updated.
func timePtr(ts *client.Timestamp) *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}
