package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"

	"github.com/Lllllllleong/lecturesummary/internal/extraction"
	"github.com/Lllllllleong/lecturesummary/internal/gcp"
	"github.com/Lllllllleong/lecturesummary/internal/llm"
	"github.com/Lllllllleong/lecturesummary/internal/models"
	"github.com/Lllllllleong/lecturesummary/internal/pipeline"
)

// Extractor turns a local lecture file into page-level text.
type Extractor interface {
	Extract(ctx context.Context, path, filename string) (*models.Document, error)
}

// SourceStore keeps the original upload where the model can read it.
type SourceStore interface {
	UploadRaw(ctx context.Context, localPath, filename string) (string, error)
}

// JobStore records the progress of each run.
type JobStore interface {
	Create(ctx context.Context, job models.Job) (string, error)
	UpdateStatus(ctx context.Context, jobID, status, errDetails string, pageCount int) error
}

type noopJobs struct{}

func (noopJobs) Create(context.Context, models.Job) (string, error) { return "", nil }
func (noopJobs) UpdateStatus(context.Context, string, string, string, int) error {
	return nil
}

// runner is the extraction → upload → generation flow shared by both
// functions.
type runner struct {
	extractor Extractor
	sources   SourceStore
	jobs      JobStore
	pipeline  *pipeline.Pipeline
}

// newRunner also returns the storage client so callers can reuse it.
func newRunner(ctx context.Context, config LectureConfig) (*runner, *storage.Client, error) {
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	docAI, err := gcp.NewDocumentProcessor(ctx, config.ProjectID, config.DocAILocation, config.ProcessorID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Document AI processor: %w", err)
	}

	var converter extraction.Converter
	if c, err := extraction.NewLibreOfficeConverter(config.LibreOfficePath); err != nil {
		slog.Warn("PowerPoint uploads are disabled.", "error", err)
	} else {
		converter = c
	}

	var jobs JobStore = noopJobs{}
	if config.JobsCollection != "" {
		firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		jobs = gcp.NewJobRecorder(firestoreClient, config.JobsCollection)
	}

	vertex := gcp.NewVertexModel(config.ProjectID, config.VertexLocation, config.modelCandidates()...)
	r := &runner{
		extractor: extraction.New(docAI, converter),
		sources:   gcp.NewRawUploader(storageClient, config.SourceBucket, config.SourcePrefix),
		jobs:      jobs,
		pipeline:  pipeline.New(llm.NewClient(vertex, config.CallTimeout), config.PipelineTimeout),
	}
	return r, storageClient, nil
}

func (r *runner) run(ctx context.Context, logCtx *slog.Logger, req *models.LectureRequest) (*models.LectureResponse, error) {
	jobID := r.createJob(ctx, logCtx, req)
	if jobID != "" {
		logCtx = logCtx.With("documentId", jobID)
	}
	mimeType := attachmentMIME(req)

	r.setStatus(ctx, logCtx, jobID, models.JobStatusExtracting, "", 0)
	var doc *models.Document
	sourceURI := req.SourceURI

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		doc, err = r.extractor.Extract(gctx, req.LocalPath, req.Filename)
		return err
	})
	if sourceURI == "" {
		eg.Go(func() error {
			uri, err := r.sources.UploadRaw(gctx, req.LocalPath, req.Filename)
			if err != nil {
				logCtx.Warn("Raw upload failed; continuing without attachment.", "error", err)
				return nil
			}
			sourceURI = uri
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, r.fail(ctx, logCtx, jobID, "failed to extract document", err)
	}
	logCtx.Info("Document extracted.", "pageCount", len(doc.Pages), "lowTextPages", len(doc.LowTextPages), "sourceUri", sourceURI)

	r.setStatus(ctx, logCtx, jobID, models.JobStatusGenerating, "", len(doc.Pages))
	res := r.pipeline.Run(ctx, logCtx, pipeline.Input{
		FullText:    doc.FullText,
		Audience:    req.Audience,
		Purpose:     req.Purpose,
		Attachments: pipeline.Attachments(sourceURI, mimeType),
	})

	r.setStatus(ctx, logCtx, jobID, models.JobStatusComplete, "", 0)
	logCtx.Info("Lecture processed.", "sections", len(res.Summary.Sections), "terms", len(res.Glossary), "questions", len(res.Questions))
	return models.NewLectureResponse(doc, res), nil
}

// attachmentMIME is the declared content type, else the type implied by the
// filename, else PDF.
func attachmentMIME(req *models.LectureRequest) string {
	if req.ContentType != "" && req.ContentType != "application/octet-stream" {
		return req.ContentType
	}
	if m := extraction.MIMEFromName(req.Filename); m != "" {
		return m
	}
	return extraction.MIMEPDF
}

func (r *runner) createJob(ctx context.Context, logCtx *slog.Logger, req *models.LectureRequest) string {
	id, err := r.jobs.Create(ctx, models.Job{
		OriginalFilename: req.Filename,
		SourceURI:        req.SourceURI,
		Audience:         req.Audience,
		Purpose:          req.Purpose,
		Status:           models.JobStatusReceived,
		ExecutionID:      req.ExecutionID,
		CreatedAt:        time.Now(),
	})
	if err != nil {
		logCtx.Warn("Failed to create job record.", "error", err)
		return ""
	}
	return id
}

func (r *runner) setStatus(ctx context.Context, logCtx *slog.Logger, jobID, status, errDetails string, pageCount int) {
	if jobID == "" {
		return
	}
	if err := r.jobs.UpdateStatus(ctx, jobID, status, errDetails, pageCount); err != nil {
		logCtx.Warn("Failed to update job status.", "status", status, "error", err)
	}
}

func (r *runner) fail(ctx context.Context, logCtx *slog.Logger, jobID, message string, originalErr error) error {
	logCtx.Error(message, "error", originalErr)
	r.setStatus(ctx, logCtx, jobID, models.JobStatusFailed, fmt.Sprintf("%s: %v", message, originalErr), 0)
	return fmt.Errorf("%s: %w", message, originalErr)
}
