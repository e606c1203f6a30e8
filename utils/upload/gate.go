// Package upload screens resume uploads before anything is stored.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/pdfvalidation"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrEmptyFile       = errors.New("empty file")
	ErrInvalidPDF      = errors.New("invalid pdf")
)

// allowedTypes maps accepted extensions to the content type stored with the
// blob. The client supplied content type is ignored.
var allowedTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// File is an upload that passed every check.
type File struct {
	OriginalName string
	Ext          string
	ContentType  string
	Data         []byte
}

// Size returns the number of bytes read.
func (f *File) Size() int64 { return int64(len(f.Data)) }

// Gate applies the resume upload rules.
type Gate struct {
	limits pdfvalidation.PDFLimits
}

// NewGate creates a gate; non-positive limits fall back to the resume
// defaults.
func NewGate(maxBytes int64, maxPages int) *Gate {
	limits := pdfvalidation.ResumeLimits
	if maxBytes > 0 {
		limits.MaxBytes = maxBytes
	}
	if maxPages > 0 {
		limits.MaxPages = maxPages
	}
	return &Gate{limits: limits}
}

// MaxBytes is the largest accepted upload.
func (g *Gate) MaxBytes() int64 { return g.limits.MaxBytes }

func rejected(label, detail string, cause error) error {
	e := apperror.Validation(label, detail).
		WithHelp("Upload a PDF, DOC or DOCX file no larger than the size limit")
	e.Err = cause
	return e
}

// Accept opens a multipart file and runs Check on it.
func (g *Gate) Accept(fh *multipart.FileHeader) (*File, error) {
	if fh == nil {
		return nil, rejected("No file uploaded", "Send the resume in the 'file' form field", ErrEmptyFile)
	}

	// Type and declared size are judged before the part is opened.
	if _, err := g.extension(fh.Filename); err != nil {
		return nil, err
	}
	if fh.Size > g.limits.MaxBytes {
		return nil, g.tooLarge()
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("open upload: %w", err), "Failed to read upload")
	}
	defer f.Close()

	return g.Check(fh.Filename, fh.Size, f)
}

// Check validates name, declaredSize and the content read from r. At most
// MaxBytes+1 bytes are read from r.
func (g *Gate) Check(name string, declaredSize int64, r io.Reader) (*File, error) {
	ext, err := g.extension(name)
	if err != nil {
		return nil, err
	}

	if declaredSize > g.limits.MaxBytes {
		return nil, g.tooLarge()
	}

	data, err := io.ReadAll(io.LimitReader(r, g.limits.MaxBytes+1))
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("read upload: %w", err), "Failed to read upload")
	}
	if int64(len(data)) > g.limits.MaxBytes {
		return nil, g.tooLarge()
	}
	if len(data) == 0 {
		return nil, rejected("Empty file", "The uploaded file has no content", ErrEmptyFile)
	}

	if ext == ".pdf" {
		result := pdfvalidation.ValidatePDFBytes(data, g.limits)
		if !result.Valid {
			return nil, rejected("Invalid PDF", result.Error, ErrInvalidPDF)
		}
	}

	original := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if len(original) > 255 {
		original = original[len(original)-255:]
	}

	return &File{
		OriginalName: original,
		Ext:          ext,
		ContentType:  allowedTypes[ext],
		Data:         data,
	}, nil
}

func (g *Gate) extension(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedTypes[ext]; !ok {
		return "", rejected("Unsupported file type",
			fmt.Sprintf("File type %q is not allowed; accepted types are .pdf, .doc and .docx", ext),
			ErrUnsupportedType)
	}
	return ext, nil
}

func (g *Gate) tooLarge() error {
	return rejected("File too large",
		fmt.Sprintf("Resumes may be at most %d bytes", g.limits.MaxBytes), ErrTooLarge)
}
