package api

import (
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Request bodies may be several times the resume cap so that oversized
// uploads reach the upload gate and fail validation there. Bodies past this
// limit are refused by the transport with 413.
const (
	bodyLimitFactor = 4
	bodySlack       = 1 << 20
)

// BodyLimit returns the request body limit for a given resume cap.
func BodyLimit(maxUploadBytes int64) int {
	return int(maxUploadBytes)*bodyLimitFactor + bodySlack
}

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

// NewAPIServer builds the Fiber app. Internal error causes are only shown
// outside production, and the body limit is derived from the resume cap.
func NewAPIServer(listenAddress string, production bool, maxUploadBytes int64) *APIServer {
	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName:      "campus-jobboard-api",
			ErrorHandler: response.NewErrorHandler(!production),
			BodyLimit:    BodyLimit(maxUploadBytes),
		}),
		listenAddress: listenAddress,
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	log.Info("Starting API Server")
	log.Infof("Listening on %s", s.listenAddress)

	return s.app.Listen(s.listenAddress)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}
