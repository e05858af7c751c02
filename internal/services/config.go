package services

import (
	"fmt"
	"time"

	"github.com/Lllllllleong/lecturesummary/internal/gcp"
)

// LectureConfig holds the environment configuration shared by the upload and
// event functions.
type LectureConfig struct {
	ProjectID       string
	VertexLocation  string
	VertexModel     string
	DocAILocation   string
	ProcessorID     string
	SourceBucket    string
	SourcePrefix    string
	LibreOfficePath string
	JobsCollection  string
	ResultsBucket   string
	CallTimeout     time.Duration
	PipelineTimeout time.Duration
}

func loadConfig() (LectureConfig, error) {
	config := LectureConfig{
		ProjectID:       gcp.GetEnv("GOOGLE_CLOUD_PROJECT", ""),
		VertexLocation:  gcp.GetEnv("VERTEX_LOCATION", "us-central1"),
		VertexModel:     gcp.GetEnv("VERTEX_MODEL", gcp.DefaultModels[0]),
		DocAILocation:   gcp.GetEnv("DOC_AI_LOCATION", "us"),
		ProcessorID:     gcp.GetEnv("DOC_AI_PROCESSOR_ID", ""),
		SourceBucket:    gcp.GetEnv("DOC_AI_GCS_BUCKET", ""),
		SourcePrefix:    gcp.GetEnv("DOC_AI_GCS_PREFIX", "docai"),
		LibreOfficePath: gcp.GetEnv("LIBREOFFICE_PATH", "soffice"),
		JobsCollection:  gcp.GetEnv("JOBS_COLLECTION", ""),
		ResultsBucket:   gcp.GetEnv("RESULTS_BUCKET", ""),
		CallTimeout:     gcp.GetDurationEnv("GENERATION_CALL_TIMEOUT", 120*time.Second),
		PipelineTimeout: gcp.GetDurationEnv("PIPELINE_TIMEOUT", 15*time.Minute),
	}
	if config.ProjectID == "" {
		return config, fmt.Errorf("GOOGLE_CLOUD_PROJECT environment variable must be set")
	}
	if config.ProcessorID == "" {
		return config, fmt.Errorf("DOC_AI_PROCESSOR_ID environment variable must be set")
	}
	if config.SourceBucket == "" {
		return config, fmt.Errorf("DOC_AI_GCS_BUCKET environment variable must be set")
	}
	return config, nil
}

// modelCandidates returns the Vertex model priority list: the configured model first,
// then the defaults it does not already name.
func (c LectureConfig) modelCandidates() []string {
	out := []string{c.VertexModel}
	for _, m := range gcp.DefaultModels {
		if m != c.VertexModel {
			out = append(out, m)
		}
	}
	return out
}
