package services_test

import (
	"testing"

	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview(t *testing.T) {
	f := newFixture(t)
	acme := f.employer(t, "hr@acme.com")
	ada := f.student(t, "ada@campus.edu")
	bob := f.student(t, "bob@campus.edu")
	job := f.job(t, acme, "Tutor", "")

	review, err := f.reviews.Create(f.ctx, ada, services.CreateReviewRequest{JobID: job.ID, Rating: 5, Comment: "Great"})
	require.NoError(t, err)
	assert.Equal(t, acme.Employer.ID, review.EmployerID)

	_, err = f.reviews.Create(f.ctx, ada, services.CreateReviewRequest{JobID: job.ID, Rating: 1})
	requireKind(t, err, apperror.KindConflict)

	_, err = f.reviews.Create(f.ctx, bob, services.CreateReviewRequest{JobID: job.ID, Rating: 6})
	requireKind(t, err, apperror.KindValidation)

	_, err = f.reviews.Create(f.ctx, bob, services.CreateReviewRequest{JobID: 9999, Rating: 3})
	requireKind(t, err, apperror.KindNotFound)

	_, err = f.reviews.Create(f.ctx, bob, services.CreateReviewRequest{JobID: job.ID, Rating: 2})
	require.NoError(t, err)

	reviews, err := f.reviews.ListForJob(f.ctx, job.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	ratings, err := f.reviews.ListForEmployer(f.ctx, acme.Employer.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, ratings.Count)
	assert.InDelta(t, 3.5, ratings.AverageRating, 0.001)

	_, err = f.reviews.ListForEmployer(f.ctx, 9999)
	requireKind(t, err, apperror.KindNotFound)
}

func TestEmployerReviewGating(t *testing.T) {
	f := newFixture(t)
	acme := f.employer(t, "hr@acme.com")
	globex := f.employer(t, "jobs@globex.com")
	ada := f.student(t, "ada@campus.edu")
	application := f.apply(t, ada, f.job(t, acme, "Tutor", ""))

	req := services.CreateEmployerReviewRequest{ApplicationID: application.ID, Rating: 4, Comment: "Reliable"}

	_, err := f.employerReviews.Create(f.ctx, acme, req)
	requireKind(t, err, apperror.KindConflict)

	_, err = f.employerReviews.Create(f.ctx, globex, req)
	requireKind(t, err, apperror.KindForbidden)

	_, err = f.applications.UpdateStatus(f.ctx, acme, application.ID, model.ApplicationStatusAccepted)
	require.NoError(t, err)

	_, err = f.employerReviews.Create(f.ctx, globex, req)
	requireKind(t, err, apperror.KindForbidden)

	review, err := f.employerReviews.Create(f.ctx, acme, req)
	require.NoError(t, err)
	assert.Equal(t, ada.ID, review.StudentID)
	assert.Equal(t, acme.Employer.ID, review.EmployerID)
	assert.Equal(t, application.JobID, review.JobID)

	_, err = f.employerReviews.Create(f.ctx, acme, req)
	requireKind(t, err, apperror.KindConflict)
	assert.Equal(t, int64(1), f.count(t, &model.EmployerReview{}))

	_, err = f.employerReviews.Create(f.ctx, acme, services.CreateEmployerReviewRequest{ApplicationID: 9999, Rating: 4})
	requireKind(t, err, apperror.KindNotFound)
}

func TestEmployerReviewVisibility(t *testing.T) {
	f := newFixture(t)
	acme := f.employer(t, "hr@acme.com")
	globex := f.employer(t, "jobs@globex.com")
	ada := f.student(t, "ada@campus.edu")
	bob := f.student(t, "bob@campus.edu")
	application := f.apply(t, ada, f.job(t, acme, "Tutor", ""))

	review, err := f.employerReviews.GetForApplication(f.ctx, ada, application.ID)
	require.NoError(t, err)
	assert.Nil(t, review)

	_, err = f.applications.UpdateStatus(f.ctx, acme, application.ID, model.ApplicationStatusAccepted)
	require.NoError(t, err)
	_, err = f.employerReviews.Create(f.ctx, acme, services.CreateEmployerReviewRequest{ApplicationID: application.ID, Rating: 5})
	require.NoError(t, err)

	review, err = f.employerReviews.GetForApplication(f.ctx, acme, application.ID)
	require.NoError(t, err)
	require.NotNil(t, review)

	_, err = f.employerReviews.GetForApplication(f.ctx, bob, application.ID)
	requireKind(t, err, apperror.KindForbidden)

	reviews, err := f.employerReviews.ListForStudent(f.ctx, globex, ada.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	reviews, err = f.employerReviews.ListForStudent(f.ctx, ada, ada.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	_, err = f.employerReviews.ListForStudent(f.ctx, bob, ada.ID)
	requireKind(t, err, apperror.KindForbidden)
}
