package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/campusjobs/jobboard-api/api"
	"github.com/campusjobs/jobboard-api/config"
	"github.com/campusjobs/jobboard-api/database"
	"github.com/campusjobs/jobboard-api/database/dbtest"
	"github.com/campusjobs/jobboard-api/router"
	"github.com/campusjobs/jobboard-api/storage"
	"github.com/campusjobs/jobboard-api/utils/pdfvalidation"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success    bool                     `json:"success"`
	Message    string                   `json:"message"`
	Data       json.RawMessage          `json:"data"`
	Pagination *response.PaginationMeta `json:"pagination"`
	Error      string                   `json:"error"`
	Detail     string                   `json:"detail"`
	Help       string                   `json:"help"`
}

type testServer struct {
	t       *testing.T
	app     *fiber.App
	blobDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	blobDir := t.TempDir()
	blobs, err := storage.NewLocalStore(blobDir)
	require.NoError(t, err)

	env := &config.EnvironmentVariable{
		GO_ENV:             "test",
		JWT_SECRET:         "router-test-secret",
		JWT_ISSUER:         "router-test",
		JWT_TTL:            time.Hour,
		BCRYPT_COST:        bcrypt.MinCost,
		ALLOW_ADMIN_SIGNUP: true,
		MAX_RESUME_BYTES:   config.DefaultMaxResumeBytes,
		MAX_RESUME_PAGES:   config.DefaultMaxResumePages,
	}

	server := api.NewAPIServer(":0", false, env.MAX_RESUME_BYTES)
	router.SetupRoutes(server.GetEngine(), database.NewGORMStore(dbtest.Open(t)), router.Dependencies{
		Env:   env,
		Blobs: blobs,
	})

	return &testServer{t: t, app: server.GetEngine(), blobDir: blobDir}
}

func (s *testServer) send(req *http.Request, token string) (*http.Response, []byte) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, raw
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, raw := s.send(req, token)
	var env envelope
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *testServer) upload(token, name string, data []byte) (int, envelope) {
	s.t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(s.t, err)
	_, err = part.Write(data)
	require.NoError(s.t, err)
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/upload-resume", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, raw := s.send(req, token)
	var env envelope
	require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

type account struct {
	ID    uint
	Token string
}

func (s *testServer) register(name, email, role string) account {
	s.t.Helper()

	status, env := s.do(http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name": name, "email": email, "password": "secret123", "role": role,
	})
	require.Equal(s.t, http.StatusCreated, status, env.Detail)

	var result struct {
		User        struct{ ID uint } `json:"user"`
		AccessToken string            `json:"access_token"`
	}
	decode(s.t, env, &result)
	return account{ID: result.User.ID, Token: result.AccessToken}
}

func decode(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

type idOnly struct {
	ID uint `json:"id"`
}

func TestPing(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, env.Error)
	assert.NotEmpty(t, env.Detail)
}

func TestRequestParsingErrors(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, raw := s.send(req, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "Invalid request body")

	status, env := s.do(http.MethodGet, "/api/v1/jobs/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid ID", env.Error)

	status, env = s.do(http.MethodGet, "/api/v1/jobs?remote=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid query parameter", env.Error)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	s.register("Ada", "Ada@Campus.edu", "")

	status, env := s.do(http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name": "Ada Again", "email": "ada@campus.edu", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.NotEmpty(t, env.Help)

	status, env = s.do(http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "ada@campus.edu", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	wrongPassword := env.Detail

	status, env = s.do(http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "nobody@campus.edu", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, wrongPassword, env.Detail)

	status, env = s.do(http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "ada@campus.edu", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, status)

	var result struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	decode(t, env, &result)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, "student", result.User.Role)
}

func TestProfileAndLogout(t *testing.T) {
	s := newTestServer(t)
	ada := s.register("Ada", "ada@campus.edu", "student")

	status, _ := s.do(http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := s.do(http.MethodPut, "/api/v1/auth/me", ada.Token, fiber.Map{"name": "Ada L."})
	require.Equal(t, http.StatusOK, status)
	var me struct {
		Name string `json:"name"`
	}
	decode(t, env, &me)
	assert.Equal(t, "Ada L.", me.Name)

	status, _ = s.do(http.MethodPost, "/api/v1/auth/logout", ada.Token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = s.do(http.MethodGet, "/api/v1/auth/me", ada.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token has been revoked", env.Detail)
}

func TestChangePasswordInvalidatesOldToken(t *testing.T) {
	s := newTestServer(t)
	ada := s.register("Ada", "ada@campus.edu", "student")

	status, env := s.do(http.MethodPost, "/api/v1/auth/change-password", ada.Token, fiber.Map{
		"current_password": "secret123", "new_password": "better-secret",
	})
	require.Equal(t, http.StatusOK, status)
	var result struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, env, &result)

	status, _ = s.do(http.MethodGet, "/api/v1/auth/me", ada.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(http.MethodGet, "/api/v1/auth/me", result.AccessToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRoleGates(t *testing.T) {
	s := newTestServer(t)
	student := s.register("Sam", "sam@campus.edu", "student")
	employer := s.register("Library", "library@campus.edu", "employer")

	status, env := s.do(http.MethodPost, "/api/v1/jobs", student.Token, fiber.Map{"title": "Shelver"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Forbidden", env.Error)

	status, _ = s.do(http.MethodGet, "/api/v1/admin/users", employer.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(http.MethodPost, "/api/v1/departments", employer.Token, fiber.Map{"name": "Athletics"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(http.MethodPost, "/api/v1/applications", employer.Token, fiber.Map{"job_id": 1})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestHiringFlow(t *testing.T) {
	s := newTestServer(t)
	employer := s.register("Library", "library@campus.edu", "employer")
	student := s.register("Sam", "sam@campus.edu", "student")
	other := s.register("Olive", "olive@campus.edu", "student")

	// Employer posts a job
	status, env := s.do(http.MethodPost, "/api/v1/jobs", employer.Token, fiber.Map{
		"title": "Library Intern", "description": "Shelve and catalogue", "location": "Main Library",
		"spots": 2, "start_date": "2026-01-10", "end_date": "2026-05-01",
	})
	require.Equal(t, http.StatusCreated, status, env.Detail)
	var job struct {
		ID         uint   `json:"id"`
		EmployerID uint   `json:"employer_id"`
		Status     string `json:"status"`
	}
	decode(t, env, &job)
	assert.Equal(t, "open", job.Status)

	// Public search
	status, env = s.do(http.MethodGet, "/api/v1/jobs?search=INTERN", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.Total)

	// Student uploads a resume and applies with it
	status, env = s.upload(student.Token, "cv.pdf", pdfvalidation.SamplePDF(1))
	require.Equal(t, http.StatusCreated, status, env.Detail)
	var uploaded struct {
		FileURL  string `json:"file_url"`
		FileName string `json:"file_name"`
	}
	decode(t, env, &uploaded)
	assert.Equal(t, "/api/v1/applications/resumes/"+uploaded.FileName, uploaded.FileURL)

	status, env = s.do(http.MethodPost, "/api/v1/applications", student.Token, fiber.Map{
		"job_id": job.ID, "cover_letter": "I love books", "resume_url": uploaded.FileURL,
	})
	require.Equal(t, http.StatusCreated, status, env.Detail)
	var application idOnly
	decode(t, env, &application)

	status, env = s.do(http.MethodPost, "/api/v1/applications", student.Token, fiber.Map{"job_id": job.ID})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Already applied", env.Error)

	// Employer sees the application and its resume
	status, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/applications/by-job/%d", job.ID), employer.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var forJob []idOnly
	decode(t, env, &forJob)
	require.Len(t, forJob, 1)
	assert.Equal(t, application.ID, forJob[0].ID)

	resp, body := s.send(httptest.NewRequest(http.MethodGet, uploaded.FileURL, nil), employer.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, pdfvalidation.SamplePDF(1), body)

	resp, _ = s.send(httptest.NewRequest(http.MethodGet, uploaded.FileURL, nil), other.Token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Reviewing the applicant requires acceptance first
	reviewBody := fiber.Map{"application_id": application.ID, "rating": 5, "comment": "Punctual"}
	status, _ = s.do(http.MethodPost, "/api/v1/employer-reviews", employer.Token, reviewBody)
	assert.Equal(t, http.StatusConflict, status)

	status, env = s.do(http.MethodPatch, fmt.Sprintf("/api/v1/applications/%d/status", application.ID),
		employer.Token, fiber.Map{"status": "accepted"})
	require.Equal(t, http.StatusOK, status, env.Detail)

	status, env = s.do(http.MethodPost, "/api/v1/employer-reviews", employer.Token, reviewBody)
	require.Equal(t, http.StatusCreated, status, env.Detail)

	status, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/employer-reviews/application/%d", application.ID), student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var employerReview struct {
		Rating int `json:"rating"`
	}
	decode(t, env, &employerReview)
	assert.Equal(t, 5, employerReview.Rating)

	// Student reviews the job; ratings roll up to the employer
	status, env = s.do(http.MethodPost, "/api/v1/reviews", student.Token, fiber.Map{"job_id": job.ID, "rating": 4})
	require.Equal(t, http.StatusCreated, status, env.Detail)

	status, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/reviews/employer/%d", job.EmployerID), "", nil)
	require.Equal(t, http.StatusOK, status)
	var ratings struct {
		AverageRating float64 `json:"average_rating"`
		Count         int     `json:"count"`
	}
	decode(t, env, &ratings)
	assert.Equal(t, 1, ratings.Count)
	assert.InDelta(t, 4.0, ratings.AverageRating, 0.001)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	s := newTestServer(t)
	student := s.register("Sam", "sam@campus.edu", "student")

	status, env := s.upload(student.Token, "virus.exe", []byte("MZ"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Unsupported file type", env.Error)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/upload-resume", nil)
	resp, raw := s.send(req, student.Token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "No file uploaded")
}

func TestUploadRejectsOversizedResume(t *testing.T) {
	s := newTestServer(t)
	student := s.register("Sam", "sam@campus.edu", "student")

	oversized := append(pdfvalidation.SamplePDF(1), bytes.Repeat([]byte{' '}, 6<<20)...)
	require.Less(t, len(oversized), api.BodyLimit(config.DefaultMaxResumeBytes))

	status, env := s.upload(student.Token, "cv.pdf", oversized)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "File too large", env.Error)

	entries, err := os.ReadDir(s.blobDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAdminDeletesEmployerWithAccount(t *testing.T) {
	s := newTestServer(t)
	admin := s.register("Root", "root@campus.edu", "admin")
	employer := s.register("Library", "library@campus.edu", "employer")

	status, env := s.do(http.MethodGet, "/api/v1/employers/me", employer.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var profile idOnly
	decode(t, env, &profile)

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/employers/%d", profile.ID), admin.Token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = s.do(http.MethodGet, "/api/v1/auth/me", employer.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "User not found", env.Detail)

	status, _ = s.do(http.MethodGet, fmt.Sprintf("/api/v1/admin/users/%d", employer.ID), admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminManagesUsersAndDepartments(t *testing.T) {
	s := newTestServer(t)
	admin := s.register("Root", "root@campus.edu", "admin")
	student := s.register("Sam", "sam@campus.edu", "student")

	status, env := s.do(http.MethodGet, "/api/v1/admin/users?role=student", admin.Token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.Total)

	status, env = s.do(http.MethodPost, "/api/v1/departments", admin.Token, fiber.Map{"name": "Athletics", "office": "Gym 1"})
	require.Equal(t, http.StatusCreated, status, env.Detail)
	var department idOnly
	decode(t, env, &department)

	status, _ = s.do(http.MethodGet, fmt.Sprintf("/api/v1/departments/%d", department.ID), "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", admin.ID), admin.Token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", student.ID), admin.Token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = s.do(http.MethodGet, "/api/v1/auth/me", student.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "User not found", env.Detail)

	status, _ = s.do(http.MethodGet, fmt.Sprintf("/api/v1/admin/users/%d", student.ID), admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestEmployerProfileAndDepartment(t *testing.T) {
	s := newTestServer(t)
	employer := s.register("Library", "library@campus.edu", "employer")

	status, _ := s.do(http.MethodGet, "/api/v1/departments/my-department", employer.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env := s.do(http.MethodPut, "/api/v1/departments/my-department", employer.Token, fiber.Map{"name": "Libraries"})
	require.Equal(t, http.StatusOK, status, env.Detail)
	var department idOnly
	decode(t, env, &department)

	status, env = s.do(http.MethodGet, "/api/v1/employers/me", employer.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var profile struct {
		ID           uint  `json:"id"`
		DepartmentID *uint `json:"department_id"`
	}
	decode(t, env, &profile)
	require.NotNil(t, profile.DepartmentID)
	assert.Equal(t, department.ID, *profile.DepartmentID)

	status, env = s.do(http.MethodPut, "/api/v1/employers/me", employer.Token, fiber.Map{"description": "Campus libraries"})
	require.Equal(t, http.StatusOK, status, env.Detail)

	status, env = s.do(http.MethodGet, "/api/v1/employers", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), env.Pagination.Total)
}
