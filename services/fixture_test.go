package services_test

import (
	"context"
	"testing"

	"github.com/campusjobs/jobboard-api/database/dbtest"
	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/storage"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/auth"
	"github.com/campusjobs/jobboard-api/utils/upload"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	ctx       context.Context
	db        *gorm.DB
	jwt       *auth.JWTManager
	store     *storage.LocalStore
	uploadDir string

	accounts        *services.AccountService
	employers       *services.EmployerService
	departments     *services.DepartmentService
	jobs            *services.JobService
	applications    *services.ApplicationService
	reviews         *services.ReviewService
	employerReviews *services.EmployerReviewService
	users           *services.UserService
	resumes         *services.ResumeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.Open(t)
	uploadDir := t.TempDir()
	store, err := storage.NewLocalStore(uploadDir)
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager(auth.JWTConfig{Secret: "test-secret", Issuer: "test"})
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	return &fixture{
		ctx:             context.Background(),
		db:              db,
		jwt:             jwtManager,
		store:           store,
		uploadDir:       uploadDir,
		accounts:        services.NewAccountService(db, hasher, jwtManager, true),
		employers:       services.NewEmployerService(db),
		departments:     services.NewDepartmentService(db),
		jobs:            services.NewJobService(db),
		applications:    services.NewApplicationService(db),
		reviews:         services.NewReviewService(db),
		employerReviews: services.NewEmployerReviewService(db),
		users:           services.NewUserService(db, store),
		resumes:         services.NewResumeService(db, store, upload.NewGate(5<<20, 20)),
	}
}

func (f *fixture) register(t *testing.T, email, role string) *model.User {
	t.Helper()
	result, err := f.accounts.Register(f.ctx, services.RegisterRequest{
		Name:     "User " + email,
		Email:    email,
		Password: "secret123",
		Role:     role,
	})
	require.NoError(t, err)
	return result.User
}

func (f *fixture) student(t *testing.T, email string) *model.User {
	return f.register(t, email, model.RoleStudent)
}

func (f *fixture) employer(t *testing.T, email string) *model.User {
	return f.register(t, email, model.RoleEmployer)
}

func (f *fixture) admin(t *testing.T, email string) *model.User {
	return f.register(t, email, model.RoleAdmin)
}

func (f *fixture) job(t *testing.T, owner *model.User, title, description string) *model.Job {
	t.Helper()
	job, err := f.jobs.Create(f.ctx, owner, services.CreateJobRequest{
		Title:       title,
		Description: description,
		Spots:       1,
	})
	require.NoError(t, err)
	return job
}

func (f *fixture) apply(t *testing.T, student *model.User, job *model.Job) *model.Application {
	t.Helper()
	application, err := f.applications.Create(f.ctx, student, services.CreateApplicationRequest{JobID: job.ID})
	require.NoError(t, err)
	return application
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func requireKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind.String(), apperror.KindOf(err).String(), err.Error())
}

func strPtr(s string) *string { return &s }
