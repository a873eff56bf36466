package storage

import (
	"context"
	"io"
)

// Uploader archives an object and returns the key it was stored under.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
	Close() error
}

// ResumeObjectName is the bucket key for an uploaded resume PDF.
func ResumeObjectName(resumeID string) string {
	return "resumes/" + resumeID + ".pdf"
}
