// Package pipeline turns extracted lecture text into a summary, a glossary
// and a quiz. Each of the three stages tries a primary prompt, then a
// simplified prompt, then a deterministic rule-based generator, so a run
// always produces a complete result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lllllllleong/lecturesummary/internal/llm"
	"github.com/Lllllllleong/lecturesummary/internal/models"
)

const (
	chunkSize            = 15000
	chunkMaxTokens       = 700
	summaryMaxTokens     = 4096
	summarySimpleSource  = 12000
	summarySimpleTokens  = 2400
	glossarySource       = 12000
	glossaryMaxTokens    = 3200
	glossarySimpleTokens = 2400
	questionsSource      = 14000
	questionsMaxTokens   = 4096
	questionsSimpleToken = 3200
)

// Input is one pipeline run.
type Input struct {
	FullText    string
	Audience    string
	Purpose     string
	Attachments []llm.Attachment
}

// Attachments returns the source-file attachment, or nil unless both the
// URI and the MIME type are known.
func Attachments(uri, mimeType string) []llm.Attachment {
	if uri == "" || mimeType == "" {
		return nil
	}
	return []llm.Attachment{{URI: uri, MIMEType: mimeType}}
}

// Pipeline runs the summary, glossary and questions stages in order.
type Pipeline struct {
	client  *llm.Client
	timeout time.Duration
}

// New returns a Pipeline. A zero timeout leaves the run bounded only by ctx.
func New(client *llm.Client, timeout time.Duration) *Pipeline {
	return &Pipeline{client: client, timeout: timeout}
}

// Run executes the three stages. It never fails: when the model is
// unreachable or keeps returning unusable output, the rule-based generators
// fill in.
func (p *Pipeline) Run(ctx context.Context, logCtx *slog.Logger, in Input) *models.PipelineResult {
	if logCtx == nil {
		logCtx = slog.Default()
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	start := time.Now()

	summary := p.summarize(ctx, logCtx, in)
	glossary := p.glossary(ctx, logCtx, in, summary)
	questions := p.questions(ctx, logCtx, in, summary)

	logCtx.Info("Pipeline complete.",
		"sections", len(summary.Sections),
		"terms", len(glossary),
		"questions", len(questions),
		"elapsed", time.Since(start).String(),
	)
	return &models.PipelineResult{
		Summary:   summary,
		Glossary:  glossary,
		Questions: questions,
	}
}

type attempt struct {
	name string
	call func() (any, error)
}

// firstValid returns the first attempt whose output decodes.
func firstValid[T any](logCtx *slog.Logger, stage string, decode func(any) (T, error), attempts ...attempt) (T, bool) {
	for _, a := range attempts {
		v, err := a.call()
		if err == nil {
			out, derr := decode(v)
			if derr == nil {
				logCtx.Info("Stage resolved.", "stage", stage, "attempt", a.name)
				return out, true
			}
			err = &llm.Error{Kind: llm.KindMalformed, Err: derr}
		}
		logCtx.Warn("Stage attempt failed.", "stage", stage, "attempt", a.name, "error", err)
	}
	var zero T
	return zero, false
}

func (p *Pipeline) summarize(ctx context.Context, logCtx *slog.Logger, in Input) models.Summary {
	chunks := chunkRunes(in.FullText, chunkSize)
	if len(chunks) == 0 {
		chunks = []string{in.FullText}
	}

	var evidence []string
	for i, chunk := range chunks {
		prompt := fmt.Sprintf(chunkPromptTemplate, in.Audience, in.Purpose, i+1, len(chunks), chunk)
		bullets, err := p.client.Text(ctx, prompt, chunkMaxTokens, nil)
		if err != nil {
			logCtx.Warn("Chunk summary failed.", "chunk", i+1, "chunks", len(chunks), "error", err)
			continue
		}
		if bullets != "" {
			evidence = append(evidence, "- "+bullets)
		}
	}
	joined := strings.Join(evidence, "\n")

	summary, ok := firstValid(logCtx, "summary", decodeSummary,
		attempt{"primary", func() (any, error) {
			prompt := fmt.Sprintf(summaryPromptTemplate, in.Audience, in.Purpose, joined)
			return p.client.JSON(ctx, prompt, summaryMaxTokens, in.Attachments)
		}},
		attempt{"simplified", func() (any, error) {
			prompt := fmt.Sprintf(summarySimplePromptTemplate, truncateRunes(in.FullText, summarySimpleSource))
			return p.client.JSON(ctx, prompt, summarySimpleTokens, nil)
		}},
	)
	if ok {
		return summary
	}
	logCtx.Warn("Using rule-based summary.")
	return FallbackSummary(in.FullText)
}

func (p *Pipeline) glossary(ctx context.Context, logCtx *slog.Logger, in Input, summary models.Summary) []models.GlossaryEntry {
	sctx := summaryContext(summary)

	glossary, ok := firstValid(logCtx, "glossary", decodeGlossary,
		attempt{"primary", func() (any, error) {
			prompt := fmt.Sprintf(glossaryPromptTemplate, in.Audience, in.Purpose, sctx, truncateRunes(in.FullText, glossarySource))
			return p.client.JSON(ctx, prompt, glossaryMaxTokens, in.Attachments)
		}},
		attempt{"simplified", func() (any, error) {
			return p.client.JSON(ctx, fmt.Sprintf(glossarySimplePromptTemplate, sctx), glossarySimpleTokens, nil)
		}},
	)
	if ok {
		return glossary
	}
	logCtx.Warn("Using rule-based glossary.")
	return FallbackGlossary(in.FullText, summary)
}

func (p *Pipeline) questions(ctx context.Context, logCtx *slog.Logger, in Input, summary models.Summary) []models.QuestionItem {
	sctx := summaryContext(summary)

	questions, ok := firstValid(logCtx, "questions", decodeQuestions,
		attempt{"primary", func() (any, error) {
			prompt := fmt.Sprintf(questionsPromptTemplate, in.Audience, in.Purpose, sctx, truncateRunes(in.FullText, questionsSource))
			return p.client.JSON(ctx, prompt, questionsMaxTokens, in.Attachments)
		}},
		attempt{"simplified", func() (any, error) {
			return p.client.JSON(ctx, fmt.Sprintf(questionsSimplePromptTemplate, sctx), questionsSimpleToken, nil)
		}},
	)
	if ok {
		return questions
	}
	// The term pool is rebuilt from the summary, not taken from the glossary stage.
	logCtx.Warn("Using rule-based questions.")
	return FallbackQuestions(summary, FallbackGlossary(in.FullText, summary), in.Purpose)
}
