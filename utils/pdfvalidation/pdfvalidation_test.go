package pdfvalidation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePDFBytesAcceptsWellFormedDocument(t *testing.T) {
	result := ValidatePDFBytes(SamplePDF(2), ResumeLimits)
	require.True(t, result.Valid, result.Error)
	assert.Equal(t, 2, result.PageCount)
}

func TestValidatePDFBytesIgnoresTrailingGarbage(t *testing.T) {
	content := append(SamplePDF(1), []byte("garbage after eof")...)
	result := ValidatePDFBytes(content, ResumeLimits)
	assert.True(t, result.Valid, result.Error)
}

func TestValidatePDFBytesRejections(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		limits  PDFLimits
		want    string
	}{
		{"missing header", []byte("MZ\x90\x00 not a pdf"), ResumeLimits, "Invalid PDF file: missing PDF header"},
		{"no pages", SamplePDF(0), ResumeLimits, "PDF has no pages"},
		{"too many pages", SamplePDF(3), PDFLimits{MaxPages: 2, DocumentTypeName: "resume"}, "PDF has 3 pages, which exceeds the maximum of 2 pages for resume"},
		{"too large", SamplePDF(1), PDFLimits{MaxBytes: 10}, "File size exceeds maximum allowed size of 10 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidatePDFBytes(tt.content, tt.limits)
			assert.False(t, result.Valid)
			assert.Equal(t, tt.want, result.Error)
		})
	}
}

func TestValidatePDFBytesRejectsTruncatedDocument(t *testing.T) {
	content := SamplePDF(1)
	result := ValidatePDFBytes(content[:len(content)/2], ResumeLimits)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "Failed to read PDF")
}
