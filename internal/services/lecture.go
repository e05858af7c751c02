package services

import (
	"context"
	"log/slog"

	"github.com/Lllllllleong/lecturesummary/internal/models"
)

// LectureFunction serves the upload endpoint.
type LectureFunction struct {
	runner *runner
	config LectureConfig
}

// NewLecture creates the cloud clients for the upload endpoint.
func NewLecture(ctx context.Context) (*LectureFunction, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}
	r, _, err := newRunner(ctx, config)
	if err != nil {
		return nil, err
	}
	slog.Info("Lecture upload logic initialized.", "vertexModel", config.VertexModel, "jobsCollection", config.JobsCollection)
	return &LectureFunction{runner: r, config: config}, nil
}

// Process extracts and summarises one uploaded lecture.
func (f *LectureFunction) Process(ctx context.Context, req *models.LectureRequest) (*models.LectureResponse, error) {
	logCtx := slog.With("filename", req.Filename, "executionId", req.ExecutionID, "audience", req.Audience, "purpose", req.Purpose)
	logCtx.Info("Processing lecture upload.", "mode", req.Mode)
	return f.runner.run(ctx, logCtx, req)
}

// Health reports that the backend is up.
func (f *LectureFunction) Health() models.HealthResponse {
	return models.HealthResponse{Message: "Backend OK", Project: f.config.ProjectID}
}
