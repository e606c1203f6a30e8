package services_test

import (
	"testing"
	"time"

	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJobForcesOwnershipAndStatus(t *testing.T) {
	f := newFixture(t)
	owner := f.employer(t, "hr@acme.com")

	job, err := f.jobs.Create(f.ctx, owner, services.CreateJobRequest{
		Title:     "Lab Assistant",
		Spots:     0,
		StartDate: strPtr("2026-01-15"),
		EndDate:   strPtr("2026-05-30"),
	})
	require.NoError(t, err)
	assert.Equal(t, owner.Employer.ID, job.EmployerID)
	assert.Equal(t, model.JobStatusOpen, job.Status)
	assert.Equal(t, 0, job.Spots)
	require.NotNil(t, job.StartDate)
	assert.Equal(t, time.January, time.Time(*job.StartDate).Month())
}

func TestCreateJobValidation(t *testing.T) {
	f := newFixture(t)
	owner := f.employer(t, "hr@acme.com")

	tests := []struct {
		name string
		req  services.CreateJobRequest
	}{
		{"missing title", services.CreateJobRequest{}},
		{"negative spots", services.CreateJobRequest{Title: "T", Spots: -1}},
		{"bad date", services.CreateJobRequest{Title: "T", StartDate: strPtr("15/01/2026")}},
		{"end before start", services.CreateJobRequest{Title: "T", StartDate: strPtr("2026-02-01"), EndDate: strPtr("2026-01-01")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.jobs.Create(f.ctx, owner, tt.req)
			requireKind(t, err, apperror.KindValidation)
		})
	}
}

func TestCreateJobRequiresEmployerProfile(t *testing.T) {
	f := newFixture(t)
	student := f.student(t, "ada@campus.edu")

	_, err := f.jobs.Create(f.ctx, student, services.CreateJobRequest{Title: "Tutor"})
	requireKind(t, err, apperror.KindForbidden)
}

func TestListJobsSearchAndFilters(t *testing.T) {
	f := newFixture(t)
	acme := f.employer(t, "hr@acme.com")
	globex := f.employer(t, "jobs@globex.com")

	byTitle := f.job(t, acme, "Summer Intern", "Work on data pipelines")
	byDescription := f.job(t, globex, "Research Assistant", "Paid INTERNSHIP in the physics lab")
	f.job(t, acme, "Barista", "Coffee shop shifts")

	closed := f.job(t, acme, "Winter internship", "")
	_, err := f.jobs.UpdateStatus(f.ctx, acme, closed.ID, model.JobStatusClosed)
	require.NoError(t, err)

	remote := true
	_, err = f.jobs.Update(f.ctx, globex, byDescription.ID, services.UpdateJobRequest{Remote: &remote, Location: strPtr("Boston, MA")})
	require.NoError(t, err)

	jobs, total, err := f.jobs.List(f.ctx, services.JobFilter{Search: "intern"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []uint{byTitle.ID, byDescription.ID}, jobIDs(jobs))

	jobs, _, err = f.jobs.List(f.ctx, services.JobFilter{Search: "intern", EmployerID: acme.Employer.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{byTitle.ID}, jobIDs(jobs))

	jobs, _, err = f.jobs.List(f.ctx, services.JobFilter{Search: "intern", Remote: &remote})
	require.NoError(t, err)
	assert.Equal(t, []uint{byDescription.ID}, jobIDs(jobs))

	jobs, _, err = f.jobs.List(f.ctx, services.JobFilter{Location: "boston"})
	require.NoError(t, err)
	assert.Equal(t, []uint{byDescription.ID}, jobIDs(jobs))

	jobs, _, err = f.jobs.List(f.ctx, services.JobFilter{Search: "intern", Status: services.JobStatusAll})
	require.NoError(t, err)
	assert.Len(t, jobs, 3)

	_, _, err = f.jobs.List(f.ctx, services.JobFilter{Status: "archived"})
	requireKind(t, err, apperror.KindValidation)
}

func TestListJobsEscapesWildcards(t *testing.T) {
	f := newFixture(t)
	owner := f.employer(t, "hr@acme.com")
	f.job(t, owner, "Intern", "")

	jobs, _, err := f.jobs.List(f.ctx, services.JobFilter{Search: "%"})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestListJobsPagination(t *testing.T) {
	f := newFixture(t)
	owner := f.employer(t, "hr@acme.com")
	for i := 0; i < 5; i++ {
		f.job(t, owner, "Job", "")
	}

	jobs, total, err := f.jobs.List(f.ctx, services.JobFilter{Page: services.Page{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, jobs, 2)

	jobs, _, err = f.jobs.List(f.ctx, services.JobFilter{Page: services.Page{Page: 3, Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestUpdateJobOwnership(t *testing.T) {
	f := newFixture(t)
	owner := f.employer(t, "hr@acme.com")
	other := f.employer(t, "jobs@globex.com")
	job := f.job(t, owner, "Tutor", "")

	_, err := f.jobs.Update(f.ctx, other, job.ID, services.UpdateJobRequest{Title: strPtr("Hijacked")})
	requireKind(t, err, apperror.KindForbidden)

	updated, err := f.jobs.Update(f.ctx, owner, job.ID, services.UpdateJobRequest{Title: strPtr("Math Tutor")})
	require.NoError(t, err)
	assert.Equal(t, "Math Tutor", updated.Title)
	assert.Equal(t, model.JobStatusOpen, updated.Status)

	_, err = f.jobs.Update(f.ctx, owner, 9999, services.UpdateJobRequest{})
	requireKind(t, err, apperror.KindNotFound)
}

func TestJobStatusTransitions(t *testing.T) {
	f := newFixture(t)
	owner := f.employer(t, "hr@acme.com")
	job := f.job(t, owner, "Tutor", "")

	_, err := f.jobs.UpdateStatus(f.ctx, owner, job.ID, "archived")
	requireKind(t, err, apperror.KindValidation)

	updated, err := f.jobs.UpdateStatus(f.ctx, owner, job.ID, model.JobStatusOpen)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusOpen, updated.Status)

	_, err = f.jobs.UpdateStatus(f.ctx, owner, job.ID, model.JobStatusClosed)
	require.NoError(t, err)
	_, err = f.jobs.UpdateStatus(f.ctx, owner, job.ID, model.JobStatusOpen)
	require.NoError(t, err)
	_, err = f.jobs.UpdateStatus(f.ctx, owner, job.ID, model.JobStatusFilled)
	require.NoError(t, err)

	_, err = f.jobs.UpdateStatus(f.ctx, owner, job.ID, model.JobStatusOpen)
	requireKind(t, err, apperror.KindConflict)
}

func TestDeleteJob(t *testing.T) {
	f := newFixture(t)
	owner := f.employer(t, "hr@acme.com")
	other := f.employer(t, "jobs@globex.com")
	admin := f.admin(t, "admin@campus.edu")
	student := f.student(t, "ada@campus.edu")

	first := f.job(t, owner, "Tutor", "")
	second := f.job(t, owner, "Grader", "")
	f.apply(t, student, first)

	requireKind(t, f.jobs.Delete(f.ctx, other, first.ID), apperror.KindForbidden)

	require.NoError(t, f.jobs.Delete(f.ctx, owner, first.ID))
	assert.Equal(t, int64(0), f.count(t, &model.Application{}))

	require.NoError(t, f.jobs.Delete(f.ctx, admin, second.ID))
	assert.Equal(t, int64(0), f.count(t, &model.Job{}))

	requireKind(t, f.jobs.Delete(f.ctx, admin, second.ID), apperror.KindNotFound)
}

func jobIDs(jobs []model.Job) []uint {
	ids := make([]uint, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	return ids
}
