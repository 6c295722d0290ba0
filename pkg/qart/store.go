// Package qart archives rendered job reports in S3-compatible storage.
package qart

import (
	"context"
	"io"
	"time"
)

// ReportFilename is the object name of a report's table inside its prefix.
const ReportFilename = "jobs.tsv"

// Artifact represents a stored report object with metadata.
type Artifact struct {
	Key          string            `json:"key"`    // e.g. "reports/0190f3.../jobs.tsv"
	Bucket       string            `json:"bucket"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"content_type"`
	LastModified time.Time         `json:"last_modified"`
	Metadata     map[string]string `json:"metadata"`
	URL          string            `json:"url,omitempty"` // Presigned URL (when requested)
}

// Store defines the interface for report storage operations.
type Store interface {
	// Upload uploads data to the store.
	// key should be in format "reports/{reportID}/{filename}"
	Upload(ctx context.Context, key string, reader io.Reader, contentType string, metadata map[string]string) (*Artifact, error)

	// Download retrieves an object by key. Returns ErrNotFound if it does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetPresignedURL generates a presigned URL for downloading an object.
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// EnsureBucket ensures the bucket exists, creating it if necessary.
	EnsureBucket(ctx context.Context) error
}

// ReportPrefix returns the S3 prefix for one report.
func ReportPrefix(reportID string) string {
	return "reports/" + reportID + "/"
}

// ReportKey returns the full S3 key for a report file.
func ReportKey(reportID, filename string) string {
	return ReportPrefix(reportID) + filename
}
