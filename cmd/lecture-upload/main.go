package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/google/uuid"

	"github.com/Lllllllleong/lecturesummary/internal/gcp"
	"github.com/Lllllllleong/lecturesummary/internal/services"
)

var (
	lectureInstance *services.LectureFunction
	once            sync.Once
	initErr         error
)

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cors := services.NewCORS(gcp.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000"))
	functions.HTTP("HandleUpload", cors.Wrap(handleUpload))
	functions.HTTP("HandleHealth", cors.Wrap(handleHealth))
}

// main is required by the Go Functions Framework.
func main() {}

func instance() (*services.LectureFunction, error) {
	once.Do(func() {
		lectureInstance, initErr = services.NewLecture(context.Background())
	})
	return lectureInstance, initErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	f, err := instance()
	if err != nil {
		slog.Error("Critical error during function initialization", "error", err)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	writeJSON(w, f.Health())
}

func handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	f, err := instance()
	if err != nil {
		slog.Error("Critical error during function initialization", "error", err)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	tempDir, err := os.MkdirTemp("", "lecture-upload-*")
	if err != nil {
		slog.Error("Failed to create temp dir", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tempDir)

	req, err := services.ReadUpload(r, tempDir)
	if err != nil {
		writeError(w, err)
		return
	}
	req.ExecutionID = r.Header.Get("Function-Execution-Id")
	if req.ExecutionID == "" {
		req.ExecutionID = uuid.NewString()
	}

	res, err := f.Process(r.Context(), req)
	if err != nil {
		// Already logged with context inside Process.
		writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func writeError(w http.ResponseWriter, err error) {
	status := services.StatusFor(err)
	if status == http.StatusBadRequest {
		http.Error(w, "Bad Request: "+err.Error(), status)
		return
	}
	http.Error(w, "Internal Server Error: processing failed", status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
