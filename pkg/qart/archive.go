package qart

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/quatton/qjob/pkg/jobinfo"
	"github.com/quatton/qjob/pkg/jobrec"
)

const DefaultPresignExpiry = 24 * time.Hour

// ArchiveSink stages each report as a TSV file and uploads it under reports/<reportID>/.
type ArchiveSink struct {
	store  Store
	expiry time.Duration
	logger *slog.Logger
}

func NewArchiveSink(store Store, logger *slog.Logger) *ArchiveSink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ArchiveSink{store: store, expiry: DefaultPresignExpiry, logger: logger}
}

func (a *ArchiveSink) Name() string {
	return "archive"
}

// StagePath is where the report file is written before upload.
func StagePath(tmpDir, reportID string) string {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return filepath.Join(tmpDir, "qjob-"+reportID+".tsv")
}

func (a *ArchiveSink) Publish(ctx context.Context, result *jobinfo.Result) error {
	id := result.ReportID.String()
	path := StagePath(result.TmpDir, id)

	if err := writeReport(path, result.Records); err != nil {
		return err
	}
	defer os.Remove(path)

	if err := a.store.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("ensuring bucket: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	key := ReportKey(id, ReportFilename)
	if _, err := a.store.Upload(ctx, key, f, "text/tab-separated-values", map[string]string{
		"scheduler": string(result.Scheduler),
		"backend":   result.Backend,
		"records":   strconv.Itoa(len(result.Records)),
	}); err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}

	url, err := a.store.GetPresignedURL(ctx, key, a.expiry)
	if err != nil {
		a.logger.Warn("report archived but could not be presigned", "key", key, "error", err)
		return nil
	}
	a.logger.Info("report archived", "key", key, "url", url)
	return nil
}

func writeReport(path string, records []jobrec.JobRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("staging report: %w", err)
	}
	if err := jobrec.NewWriter(f).WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("staging report: %w", err)
	}
	return f.Close()
}

var _ jobinfo.Sink = (*ArchiveSink)(nil)
