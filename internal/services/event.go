package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Lllllllleong/lecturesummary/internal/extraction"
	"github.com/Lllllllleong/lecturesummary/internal/gcp"
	"github.com/Lllllllleong/lecturesummary/internal/models"
)

// ResultSuffix is appended to the source object name for the output JSON.
const ResultSuffix = ".summary.json"

// GCSEvent is the payload of a storage object finalize event.
type GCSEvent struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

// EventFunction summarises lectures dropped into a bucket.
type EventFunction struct {
	runner   *runner
	config   LectureConfig
	download func(ctx context.Context, bucket, object, destPath string) error
	save     func(ctx context.Context, object string, content []byte) error
}

// NewEvent creates the cloud clients for the storage-triggered flow.
func NewEvent(ctx context.Context) (*EventFunction, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if config.ResultsBucket == "" {
		return nil, fmt.Errorf("RESULTS_BUCKET environment variable must be set")
	}
	r, storageClient, err := newRunner(ctx, config)
	if err != nil {
		return nil, err
	}

	results := storageClient.Bucket(config.ResultsBucket)
	f := &EventFunction{
		runner: r,
		config: config,
		download: func(ctx context.Context, bucket, object, destPath string) error {
			return gcp.DownloadObject(ctx, storageClient, bucket, object, destPath)
		},
		save: func(ctx context.Context, object string, content []byte) error {
			return gcp.SaveToGCSAtomically(ctx, results, object, "application/json", content)
		},
	}
	slog.Info("Lecture event logic initialized.", "resultsBucket", config.ResultsBucket)
	return f, nil
}

// Process downloads the object, summarises it with the default audience and
// purpose, and writes <object>.summary.json to the results bucket.
func (f *EventFunction) Process(ctx context.Context, e GCSEvent, executionID string) error {
	logCtx := slog.With("gcsBucket", e.Bucket, "gcsObject", e.Name, "executionId", executionID)

	if strings.HasSuffix(e.Name, ResultSuffix) || extraction.MIMEFromName(e.Name) == "" {
		logCtx.Info("Object is not a lecture file. Skipping.")
		return nil
	}
	logCtx.Info("Processing new GCS object.")

	tempDir, err := os.MkdirTemp("", "lecture-event-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	filename := path.Base(e.Name)
	localPath := filepath.Join(tempDir, filename)
	if err := f.download(ctx, e.Bucket, e.Name, localPath); err != nil {
		logCtx.Error("Failed to download source object", "error", err)
		return err
	}

	resp, err := f.runner.run(ctx, logCtx, &models.LectureRequest{
		Filename:    filename,
		ContentType: e.ContentType,
		LocalPath:   localPath,
		Audience:    models.AudienceNovice,
		Purpose:     models.PurposeUnderstanding,
		Mode:        "auto",
		ExecutionID: executionID,
		SourceURI:   fmt.Sprintf("gs://%s/%s", e.Bucket, e.Name),
	})
	if err != nil {
		return err
	}

	content, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := f.save(ctx, e.Name+ResultSuffix, content); err != nil {
		logCtx.Error("Failed to save result", "error", err)
		return err
	}
	logCtx.Info("Result saved.", "resultObject", e.Name+ResultSuffix)
	return nil
}
