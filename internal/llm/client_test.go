package llm_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/lecturesummary/internal/llm"
	"github.com/Lllllllleong/lecturesummary/internal/llm/llmtest"
)

var attachment = []llm.Attachment{{URI: "gs://bucket/docai/raw/1_lecture.pdf", MIMEType: "application/pdf"}}

func TestClient_Text(t *testing.T) {
	model := llmtest.Replies("- bullet one\n- bullet two")
	client := llm.NewClient(model, time.Minute)

	text, err := client.Text(context.Background(), "summarise", 700, nil)
	require.NoError(t, err)
	assert.Equal(t, "- bullet one\n- bullet two", text)

	calls := model.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "summarise", calls[0].Prompt)
	assert.EqualValues(t, 700, calls[0].MaxTokens)
	assert.InDelta(t, 0.2, calls[0].Temperature, 1e-6)
	assert.InDelta(t, 0.9, calls[0].TopP, 1e-6)
	assert.False(t, calls[0].JSON)
}

func TestClient_TextFailureIsTransient(t *testing.T) {
	client := llm.NewClient(llmtest.Failing(errors.New("connection reset")), 0)

	_, err := client.Text(context.Background(), "p", 10, nil)
	require.Error(t, err)
	assert.True(t, llm.IsKind(err, llm.KindTransient))
}

func TestClient_JSONStripsFences(t *testing.T) {
	model := llmtest.Replies("```json\n{\"high_level\":\"H\",\"sections\":[]}\n```")
	client := llm.NewClient(model, 0)

	v, err := client.JSON(context.Background(), "schema here", 4096, attachment)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"high_level": "H", "sections": []any{}}, v)

	calls := model.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].JSON)
	assert.InDelta(t, 0.15, calls[0].Temperature, 1e-6)
	assert.True(t, strings.HasSuffix(calls[0].Prompt, "schema here"))
	assert.Contains(t, calls[0].Prompt, "Output JSON only")
	assert.Equal(t, attachment, calls[0].Attachments)
}

func TestClient_JSONRetriesWithoutAttachments(t *testing.T) {
	model := llmtest.New(func(n int, req llm.Request) (string, error) {
		if len(req.Attachments) > 0 {
			return "", errors.New("file not readable")
		}
		return `[{"term":"t"}]`, nil
	})
	client := llm.NewClient(model, 0)

	v, err := client.JSON(context.Background(), "p", 100, attachment)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"term": "t"}}, v)

	calls := model.Calls()
	require.Len(t, calls, 2)
	assert.Len(t, calls[0].Attachments, 1)
	assert.Empty(t, calls[1].Attachments)
	assert.Equal(t, calls[0].Prompt, calls[1].Prompt)
}

func TestClient_JSONBothAttemptsFail(t *testing.T) {
	model := llmtest.Failing(errors.New("503 unavailable"))
	client := llm.NewClient(model, 0)

	v, err := client.JSON(context.Background(), "p", 100, attachment)
	assert.Nil(t, v)
	require.Error(t, err)
	assert.True(t, llm.IsKind(err, llm.KindTransient))
	assert.Len(t, model.Calls(), 2)
}

func TestClient_JSONConfigErrorIsNotRetried(t *testing.T) {
	model := llmtest.Failing(llm.ConfigError(errors.New("GOOGLE_CLOUD_PROJECT is not set")))
	client := llm.NewClient(model, 0)

	_, err := client.JSON(context.Background(), "p", 100, attachment)
	require.Error(t, err)
	assert.True(t, llm.IsKind(err, llm.KindConfig))
	assert.Len(t, model.Calls(), 1)
}

func TestClient_JSONMalformed(t *testing.T) {
	client := llm.NewClient(llmtest.Replies("I could not produce a summary."), 0)

	v, err := client.JSON(context.Background(), "p", 100, nil)
	assert.Nil(t, v)
	require.Error(t, err)
	assert.True(t, llm.IsKind(err, llm.KindMalformed))

	var lerr *llm.Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "malformed", lerr.Kind.String())
}

func TestClient_CancelledContextFailsFast(t *testing.T) {
	model := llmtest.Replies(`{"a":1}`)
	client := llm.NewClient(model, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Text(ctx, "p", 10, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, model.Calls())
}

func TestClient_CallTimeoutApplied(t *testing.T) {
	model := llmtest.New(func(int, llm.Request) (string, error) { return "ok", nil })
	var deadlineSet bool
	wrapped := modelFunc(func(ctx context.Context, req llm.Request) (string, error) {
		_, deadlineSet = ctx.Deadline()
		return model.Generate(ctx, req)
	})

	_, err := llm.NewClient(wrapped, time.Second).Text(context.Background(), "p", 1, nil)
	require.NoError(t, err)
	assert.True(t, deadlineSet)
}

type modelFunc func(ctx context.Context, req llm.Request) (string, error)

func (f modelFunc) Generate(ctx context.Context, req llm.Request) (string, error) { return f(ctx, req) }
