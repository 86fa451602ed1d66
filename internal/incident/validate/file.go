// Package validate checks evidence images before they are embedded into
// the outbound multipart request.
package validate

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/netanyamuni/incident-backend/internal/incident/domain"
)

// MaxFileSize is the attachment ceiling in bytes (10MB).
const MaxFileSize = 10 * 1024 * 1024

// AttachmentFieldName is the multipart field the endpoint expects files on.
const AttachmentFieldName = "attachment"

// supportedFormats is the image MIME type allow-list.
var supportedFormats = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)

// Result reports the outcome of validating one attachment. Errors holds
// every applicable finding, not just the first.
type Result struct {
	Valid  bool
	Errors []string
}

// FileValidator validates image attachments and prepares them for
// multipart embedding.
type FileValidator struct{}

// NewFileValidator creates a file validator.
func NewFileValidator() *FileValidator {
	return &FileValidator{}
}

// Validate runs every check against the attachment and collects all
// failures. Expected validation problems never surface as errors from
// this method.
func (v *FileValidator) Validate(att *domain.ImageAttachment) Result {
	var errs []string

	if !supportedFormats[att.ContentType] {
		errs = append(errs, fmt.Sprintf(
			"Unsupported file format: %s. Supported formats: %s",
			att.ContentType, strings.Join(sortedFormats(), ", ")))
	}

	if att.Size <= 0 || att.Size > MaxFileSize {
		if att.Size == 0 {
			errs = append(errs, "File is empty")
		} else if att.Size < 0 {
			errs = append(errs, fmt.Sprintf("Invalid file size: %d bytes", att.Size))
		} else {
			errs = append(errs, fmt.Sprintf(
				"File size (%d bytes) exceeds maximum allowed size of %dMB",
				att.Size, MaxFileSize/(1024*1024)))
		}
	}

	if !validBase64(att.Data) {
		errs = append(errs, "Invalid base64 encoded data")
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// PrepareMultipartFile decodes a validated attachment into raw bytes for
// the multipart builder. A decode failure here is a hard validation
// error, distinct from the Validate pre-check.
func (v *FileValidator) PrepareMultipartFile(att *domain.ImageAttachment) (*domain.DecodedFile, error) {
	data, err := base64.StdEncoding.DecodeString(att.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare multipart file: %w", err)
	}

	return &domain.DecodedFile{
		FieldName:   AttachmentFieldName,
		Filename:    att.Filename,
		ContentType: att.ContentType,
		Data:        data,
	}, nil
}

func validBase64(data string) bool {
	if data == "" {
		return false
	}
	if !base64Pattern.MatchString(data) {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(data)
	return err == nil
}

func sortedFormats() []string {
	formats := make([]string, 0, len(supportedFormats))
	for f := range supportedFormats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
