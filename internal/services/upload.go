package services

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lllllllleong/lecturesummary/internal/extraction"
	"github.com/Lllllllleong/lecturesummary/internal/models"
)

// ErrInvalidRequest marks client errors in the upload form.
var ErrInvalidRequest = errors.New("invalid request")

const maxUploadMemory = 32 << 20

// StatusFor maps a processing error to the HTTP status returned to the
// client: 400 for request and file-type problems, 500 otherwise.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, extraction.ErrUnsupportedMIME):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ReadUpload parses the multipart upload form and stores the file in dir.
func ReadUpload(r *http.Request, dir string) (*models.LectureRequest, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	audience := strings.TrimSpace(r.FormValue("audience"))
	if audience != models.AudienceNovice && audience != models.AudienceIntermediate {
		return nil, fmt.Errorf("%w: audience must be %q or %q", ErrInvalidRequest, models.AudienceNovice, models.AudienceIntermediate)
	}
	purpose := strings.TrimSpace(r.FormValue("purpose"))
	if purpose != models.PurposeUnderstanding && purpose != models.PurposeExam {
		return nil, fmt.Errorf("%w: purpose must be %q or %q", ErrInvalidRequest, models.PurposeUnderstanding, models.PurposeExam)
	}
	mode := strings.TrimSpace(r.FormValue("mode"))
	if mode == "" {
		mode = "auto"
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: file is required: %v", ErrInvalidRequest, err)
	}
	defer file.Close()

	filename := filepath.Base(strings.ReplaceAll(header.Filename, "\\", "/"))
	switch filename {
	case "", ".", "..", "/":
		filename = "upload"
	}
	localPath := filepath.Join(dir, filename)
	out, err := os.Create(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	return &models.LectureRequest{
		Filename:    filename,
		ContentType: header.Header.Get("Content-Type"),
		LocalPath:   localPath,
		Audience:    audience,
		Purpose:     purpose,
		Mode:        mode,
	}, nil
}
