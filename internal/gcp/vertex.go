package gcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Lllllllleong/lecturesummary/internal/llm"
)

// DefaultModels is the model priority list used when none is configured.
var DefaultModels = []string{"gemini-2.5-pro", "gemini-2.5-flash"}

// VertexModel is the Gemini-on-Vertex implementation of llm.Model.
//
// The underlying client is created on first use and shared by every call.
// Calls build a fresh GenerativeModel handle, so concurrent requests never
// share sampling settings.
type VertexModel struct {
	projectID  string
	location   string
	candidates []string

	mu        sync.Mutex
	client    *genai.Client
	active    int
	newClient func(ctx context.Context, projectID, location string, opts ...option.ClientOption) (*genai.Client, error)
}

// NewVertexModel returns a lazily initialised model. candidates are tried in
// order; empty names are skipped.
func NewVertexModel(projectID, location string, candidates ...string) *VertexModel {
	var names []string
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			names = append(names, c)
		}
	}
	return &VertexModel{projectID: projectID, location: location, candidates: names, newClient: genai.NewClient}
}

// ensure returns the shared client and the model name currently in use.
func (m *VertexModel) ensure(ctx context.Context) (*genai.Client, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.projectID == "" || m.location == "" {
		return nil, "", llm.ConfigError(errors.New("vertex: GOOGLE_CLOUD_PROJECT and VERTEX_LOCATION must be set"))
	}
	if m.active >= len(m.candidates) {
		return nil, "", llm.ConfigError(errors.New("vertex: no usable model name configured"))
	}
	if m.client == nil {
		// The client outlives the request that happens to create it.
		client, err := m.newClient(context.WithoutCancel(ctx), m.projectID, m.location)
		if err != nil {
			return nil, "", llm.ConfigError(fmt.Errorf("genai.NewClient: %w", err))
		}
		m.client = client
		slog.Info("Vertex AI client initialized.", "model", m.candidates[m.active], "location", m.location)
	}
	return m.client, m.candidates[m.active], nil
}

// demote moves to the next candidate after the region rejected name. The
// last candidate is never demoted.
func (m *VertexModel) demote(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active+1 < len(m.candidates) && m.candidates[m.active] == name {
		m.active++
		slog.Warn("Model unavailable, moving to next candidate.", "model", name, "remaining", len(m.candidates)-m.active)
	}
}

// Generate implements llm.Model.
func (m *VertexModel) Generate(ctx context.Context, req llm.Request) (string, error) {
	client, name, err := m.ensure(ctx)
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(name)
	model.SetTemperature(req.Temperature)
	model.SetTopP(req.TopP)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	parts := []genai.Part{genai.Text(req.Prompt)}
	for _, a := range req.Attachments {
		parts = append(parts, genai.FileData{MIMEType: a.MIMEType, FileURI: a.URI})
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		if modelNotFound(err, name) {
			m.demote(name)
		}
		return "", fmt.Errorf("failed to generate content from %s: %w", name, err)
	}
	return ResponseText(resp), nil
}

// modelNotFound reports whether err is a NotFound that names the model.
func modelNotFound(err error, name string) bool {
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.NotFound {
		return false
	}
	return strings.Contains(st.Message(), name)
}

// Reset closes the shared client so the next call initialises a new one
// starting again from the first candidate.
func (m *VertexModel) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = 0
	if m.client == nil {
		return nil
	}
	err := m.client.Close()
	m.client = nil
	return err
}

// Close releases the shared client.
func (m *VertexModel) Close() error {
	return m.Reset()
}

// ResponseText extracts text from a model response. It prefers the first
// non-empty text part of the first candidate, then any text part of a later
// candidate, and returns "" when the response carries no text at all.
func ResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				if s := strings.TrimSpace(string(txt)); s != "" {
					return s
				}
			}
		}
	}
	return ""
}
