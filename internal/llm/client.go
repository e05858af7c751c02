// Package llm wraps the generative-language collaborator with the fixed
// sampling configuration used by the summary pipeline.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Lllllllleong/lecturesummary/internal/jsonextract"
)

const (
	textTemperature = 0.2
	jsonTemperature = 0.15
	topP            = 0.9
)

// strictJSONPreamble is prepended to every JSON prompt.
const strictJSONPreamble = `Follow these rules without exception.
1) Output JSON only. No markdown, no explanations, no code fences.
2) Use exactly the keys and structure given below and return valid JSON.

[Instruction]
`

// Attachment references the original source file so the model can ground on
// its layout and not only on the extracted text.
type Attachment struct {
	URI      string
	MIMEType string
}

// Request is a single generation call. JSON asks the backend for
// application/json output when it supports it.
type Request struct {
	Prompt      string
	MaxTokens   int32
	Temperature float32
	TopP        float32
	JSON        bool
	Attachments []Attachment
}

// Model is the generative-language collaborator.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Client issues text and JSON generation calls against a Model.
type Client struct {
	model       Model
	callTimeout time.Duration
}

// NewClient returns a Client. A zero callTimeout disables the per-call
// deadline.
func NewClient(model Model, callTimeout time.Duration) *Client {
	return &Client{model: model, callTimeout: callTimeout}
}

// Text returns the raw model text for prompt.
func (c *Client) Text(ctx context.Context, prompt string, maxTokens int32, attachments []Attachment) (string, error) {
	text, err := c.call(ctx, Request{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: textTemperature,
		TopP:        topP,
		Attachments: attachments,
	})
	if err != nil {
		return "", classify(err)
	}
	return text, nil
}

// JSON asks for JSON output and returns the extracted value, which is a
// map[string]any or a []any. A failed call is retried once without
// attachments. The returned error is always an *Error.
func (c *Client) JSON(ctx context.Context, prompt string, maxTokens int32, attachments []Attachment) (any, error) {
	req := Request{
		Prompt:      strictJSONPreamble + prompt,
		MaxTokens:   maxTokens,
		Temperature: jsonTemperature,
		TopP:        topP,
		JSON:        true,
		Attachments: attachments,
	}

	raw, err := c.call(ctx, req)
	if err != nil {
		if IsKind(err, KindConfig) {
			return nil, classify(err)
		}
		slog.Warn("JSON generation failed, retrying without attachments", "error", err, "attachments", len(attachments))
		req.Attachments = nil
		raw, err = c.call(ctx, req)
		if err != nil {
			return nil, classify(err)
		}
	}

	value, ok := jsonextract.Parse(raw)
	if !ok {
		return nil, &Error{Kind: KindMalformed, Err: errors.New("no JSON block in model output")}
	}
	return value, nil
}

func (c *Client) call(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}
	return c.model.Generate(ctx, req)
}
