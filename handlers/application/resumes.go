package application

import (
	"fmt"

	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/middleware"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// UploadResume handles POST /api/v1/applications/upload-resume. The file is
// sent as the multipart field "file".
func (h *ApplicationHandler) UploadResume(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return apperror.Validation("No file uploaded", "Send the resume as the multipart form field 'file'").
			WithHelp("Accepted types: .pdf, .doc, .docx")
	}

	result, err := h.resumes.Upload(c.UserContext(), user, fh)
	if err != nil {
		return err
	}

	return response.Created(c, result)
}

// GetResume handles GET /api/v1/applications/resumes/:id
func (h *ApplicationHandler) GetResume(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	resume, data, err := h.resumes.Open(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}

	contentType := resume.ContentType
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", resume.ID))
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")

	return c.Status(fiber.StatusOK).Send(data)
}
