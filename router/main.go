package router

import (
	"time"

	"github.com/campusjobs/jobboard-api/config"
	"github.com/campusjobs/jobboard-api/database"
	"github.com/campusjobs/jobboard-api/handlers"
	admin_handlers "github.com/campusjobs/jobboard-api/handlers/admin"
	application_handlers "github.com/campusjobs/jobboard-api/handlers/application"
	auth_handlers "github.com/campusjobs/jobboard-api/handlers/auth"
	department_handlers "github.com/campusjobs/jobboard-api/handlers/department"
	employer_handlers "github.com/campusjobs/jobboard-api/handlers/employer"
	employerreview_handlers "github.com/campusjobs/jobboard-api/handlers/employerreview"
	job_handlers "github.com/campusjobs/jobboard-api/handlers/job"
	review_handlers "github.com/campusjobs/jobboard-api/handlers/review"
	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/storage"
	"github.com/campusjobs/jobboard-api/utils"
	"github.com/campusjobs/jobboard-api/utils/auth"
	"github.com/campusjobs/jobboard-api/utils/middleware"
	"github.com/campusjobs/jobboard-api/utils/upload"
	"github.com/gofiber/fiber/v2"
)

// Dependencies are the collaborators built at startup. Attempts may be nil,
// which disables login brute force protection.
type Dependencies struct {
	Env      *config.EnvironmentVariable
	Blobs    storage.BlobStore
	Attempts middleware.AttemptStore
}

func SetupRoutes(app *fiber.App, store database.Storage, deps Dependencies) {
	env := deps.Env
	db := store.DB()

	// Initialize JWT manager with config
	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Expiry: env.JWT_TTL,
		Issuer: env.JWT_ISSUER,
	})
	hasher := auth.NewPasswordHasher(env.BCRYPT_COST)

	var bruteForceProtection *middleware.BruteForceProtection
	if deps.Attempts != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(deps.Attempts)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Services
	accountService := services.NewAccountService(db, hasher, jwtManager, env.ALLOW_ADMIN_SIGNUP)
	employerService := services.NewEmployerService(db)
	departmentService := services.NewDepartmentService(db)
	jobService := services.NewJobService(db)
	applicationService := services.NewApplicationService(db)
	resumeService := services.NewResumeService(db, deps.Blobs, upload.NewGate(env.MAX_RESUME_BYTES, env.MAX_RESUME_PAGES))
	reviewService := services.NewReviewService(db)
	employerReviewService := services.NewEmployerReviewService(db)
	userService := services.NewUserService(db, deps.Blobs)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(accountService, bruteForceProtection)
	jobHandler := job_handlers.NewJobHandler(jobService)
	applicationHandler := application_handlers.NewApplicationHandler(applicationService, resumeService)
	reviewHandler := review_handlers.NewReviewHandler(reviewService)
	employerReviewHandler := employerreview_handlers.NewEmployerReviewHandler(employerReviewService)
	employerHandler := employer_handlers.NewEmployerHandler(employerService)
	departmentHandler := department_handlers.NewDepartmentHandler(departmentService)
	userHandler := admin_handlers.NewUserHandler(userService)

	// Apply security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: env.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   1 * time.Minute,
		DisableLogging:    env.GO_ENV == "test",
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Get("/me", authMiddleware.Required(), authHandler.GetProfile)
	authGroup.Put("/me", authMiddleware.Required(), authHandler.UpdateProfile)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Jobs routes
	jobs := api.Group("/jobs")
	jobs.Get("/", jobHandler.ListJobs)                                                // Public: List open jobs
	jobs.Get("/my", authMiddleware.Employers(), jobHandler.ListMyJobs)                // Employer: Own postings
	jobs.Get("/:id", jobHandler.GetJob)                                               // Public: Get job by ID
	jobs.Post("/", authMiddleware.Employers(), jobHandler.CreateJob)                  // Employer: Post a job
	jobs.Put("/:id", authMiddleware.Employers(), jobHandler.UpdateJob)                // Owner: Edit posting
	jobs.Patch("/:id/status", authMiddleware.Employers(), jobHandler.UpdateJobStatus) // Owner: Open/close/fill
	jobs.Delete("/:id", authMiddleware.AnyRole(model.RoleEmployer, model.RoleAdmin), jobHandler.DeleteJob)

	// Applications routes
	applications := api.Group("/applications")
	applications.Get("/", authMiddleware.Required(), applicationHandler.ListApplications)
	applications.Post("/", authMiddleware.Students(), applicationHandler.CreateApplication)
	applications.Post("/upload-resume", authMiddleware.Students(), applicationHandler.UploadResume)
	applications.Get("/resumes/:id", authMiddleware.Required(), applicationHandler.GetResume)
	applications.Get("/by-job/:job_id", authMiddleware.AnyRole(model.RoleEmployer, model.RoleAdmin), applicationHandler.ListJobApplications)
	applications.Get("/:id", authMiddleware.Required(), applicationHandler.GetApplication)
	applications.Put("/:id", authMiddleware.Students(), applicationHandler.UpdateApplication)
	applications.Patch("/:id/status", authMiddleware.Employers(), applicationHandler.UpdateApplicationStatus)
	applications.Delete("/:id", authMiddleware.AnyRole(model.RoleStudent, model.RoleAdmin), applicationHandler.WithdrawApplication)

	// Reviews routes
	reviews := api.Group("/reviews")
	reviews.Get("/job/:job_id", reviewHandler.ListJobReviews)
	reviews.Get("/employer/:employer_id", reviewHandler.ListEmployerReviews)
	reviews.Post("/", authMiddleware.Students(), reviewHandler.CreateReview)

	// Employer reviews routes
	employerReviews := api.Group("/employer-reviews")
	employerReviews.Post("/", authMiddleware.Employers(), employerReviewHandler.CreateEmployerReview)
	employerReviews.Get("/application/:application_id", authMiddleware.Required(), employerReviewHandler.GetApplicationReview)
	employerReviews.Get("/student/:student_id", authMiddleware.Required(), employerReviewHandler.ListStudentReviews)

	// Employers routes
	employers := api.Group("/employers")
	employers.Get("/", employerHandler.ListEmployers)
	employers.Get("/me", authMiddleware.Employers(), employerHandler.GetMyEmployer)
	employers.Put("/me", authMiddleware.Employers(), employerHandler.UpdateMyEmployer)
	employers.Get("/:id", employerHandler.GetEmployer)
	employers.Delete("/:id", authMiddleware.Admins(), employerHandler.DeleteEmployer)

	// Departments routes
	departments := api.Group("/departments")
	departments.Get("/", departmentHandler.ListDepartments)
	departments.Get("/my-department", authMiddleware.Employers(), departmentHandler.GetMyDepartment)
	departments.Put("/my-department", authMiddleware.Employers(), departmentHandler.UpdateMyDepartment)
	departments.Get("/:id", departmentHandler.GetDepartment)
	departments.Post("/", authMiddleware.Admins(), departmentHandler.CreateDepartment)
	departments.Put("/:id", authMiddleware.Admins(), departmentHandler.UpdateDepartment)
	departments.Delete("/:id", authMiddleware.Admins(), departmentHandler.DeleteDepartment)

	// Admin routes
	adminGroup := api.Group("/admin", authMiddleware.Admins())
	adminGroup.Get("/users", userHandler.ListUsers)
	adminGroup.Get("/users/:id", userHandler.GetUser)
	adminGroup.Delete("/users/:id", userHandler.DeleteUser)
}
