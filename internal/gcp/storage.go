package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// SaveToGCSAtomically writes content to a GCS object only if it doesn't already exist.
// An existing object is not an error: reruns of the same event are idempotent.
func SaveToGCSAtomically(ctx context.Context, bucket *storage.BucketHandle, objectName, contentType string, content []byte) error {
	writer := bucket.Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := writer.Write(content); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 412 {
			slog.Info("Object already exists, skipping.", "gcsObject", objectName)
			return nil
		}
		return fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return nil
}

// RawObjectName returns the object name for an uploaded source file:
// <prefix>/raw/<unix-seconds>_<filename>.
func RawObjectName(prefix, filename string, t time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	return fmt.Sprintf("%s/raw/%d_%s", strings.TrimSuffix(prefix, "/"), t.Unix(), name)
}

// RawUploader stores the original lecture file so the model can read it.
type RawUploader struct {
	client *storage.Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewRawUploader returns an uploader writing under gs://bucket/prefix/raw/.
func NewRawUploader(client *storage.Client, bucket, prefix string) *RawUploader {
	return &RawUploader{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

// UploadRaw uploads localPath and returns its gs:// URI.
func (u *RawUploader) UploadRaw(ctx context.Context, localPath, filename string) (string, error) {
	object := RawObjectName(u.prefix, filename, u.now())
	if err := UploadFile(ctx, u.client.Bucket(u.bucket), localPath, object); err != nil {
		return "", err
	}
	return fmt.Sprintf("gs://%s/%s", u.bucket, object), nil
}

// UploadFile copies a local file to GCS, retrying with exponential backoff.
func UploadFile(ctx context.Context, bucket *storage.BucketHandle, localPath, destObject string) error {
	const maxRetries = 4
	var backoff = 1 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := func() error {
			localFileReader, err := os.Open(localPath)
			if err != nil {
				return fmt.Errorf("could not open local file %s: %w", localPath, err)
			}
			defer localFileReader.Close()

			writeCtx, cancel := context.WithTimeout(ctx, time.Second*50)
			defer cancel()

			gcsWriter := bucket.Object(destObject).NewWriter(writeCtx)
			if _, err := io.Copy(gcsWriter, localFileReader); err != nil {
				_ = gcsWriter.Close()
				return fmt.Errorf("io.Copy to GCS failed: %w", err)
			}
			if err := gcsWriter.Close(); err != nil {
				return fmt.Errorf("failed to close GCS writer (finalize upload): %w", err)
			}
			return nil
		}()
		if err == nil {
			return nil
		}

		lastErr = err
		slog.Warn(
			"Upload failed, will retry.",
			"gcsObject", destObject,
			"attempt", i+1,
			"maxRetries", maxRetries,
			"backoff", backoff.String(),
			"error", err,
		)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("upload for %s failed after all retries: %w", destObject, lastErr)
}

// DownloadObject streams gs://bucket/object into destPath.
func DownloadObject(ctx context.Context, client *storage.Client, bucket, object, destPath string) error {
	gcsReader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to get GCS object reader for gs://%s/%s: %w", bucket, object, err)
	}
	defer gcsReader.Close()

	localFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file at %s: %w", destPath, err)
	}
	defer localFile.Close()

	if _, err := io.Copy(localFile, gcsReader); err != nil {
		return fmt.Errorf("failed to copy GCS object to local file: %w", err)
	}
	return nil
}
