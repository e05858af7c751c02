package gcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/Lllllllleong/lecturesummary/internal/models"
)

// ErrDocAINotConfigured is returned when the processor cannot be addressed.
var ErrDocAINotConfigured = errors.New("document AI is not configured: GOOGLE_CLOUD_PROJECT and DOC_AI_PROCESSOR_ID are required")

// DocumentProcessor sends PDFs to a Document AI OCR processor online.
type DocumentProcessor struct {
	client  *documentai.DocumentProcessorClient
	name    string
	timeout time.Duration
}

// NewDocumentProcessor connects to the regional Document AI endpoint.
func NewDocumentProcessor(ctx context.Context, projectID, location, processorID string) (*DocumentProcessor, error) {
	if projectID == "" || processorID == "" {
		return nil, ErrDocAINotConfigured
	}
	if location == "" {
		location = "us"
	}
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", location)

	client, err := documentai.NewDocumentProcessorClient(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}
	slog.Info("Document AI initialized.", "endpoint", endpoint)

	return &DocumentProcessor{
		client:  client,
		name:    fmt.Sprintf("projects/%s/locations/%s/processors/%s", projectID, location, processorID),
		timeout: 3 * time.Minute,
	}, nil
}

// Close releases the underlying client.
func (p *DocumentProcessor) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// Process runs OCR on one PDF. imageless excludes text inside images and
// raises the online page limit.
func (p *DocumentProcessor) Process(ctx context.Context, pdf []byte, imageless bool) (*models.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: p.name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdf,
				MimeType: "application/pdf",
			},
		},
		ImagelessMode: imageless,
	})
	if err != nil {
		return nil, fmt.Errorf("documentai ProcessDocument: %w", err)
	}
	return DocumentFromProto(resp.GetDocument()), nil
}

// DocumentFromProto converts a Document AI document into page metadata.
// Text anchors index Unicode code points of doc.Text.
func DocumentFromProto(doc *documentaipb.Document) *models.Document {
	out := &models.Document{Pages: []models.Page{}, LowTextPages: []int{}}
	if doc == nil {
		return out
	}
	out.FullText = doc.GetText()
	full := []rune(out.FullText)

	for idx, page := range doc.GetPages() {
		text := textFromAnchor(full, page.GetLayout().GetTextAnchor())
		charCount := utf8.RuneCountInString(text)
		low := charCount < models.LowTextThreshold

		tables := []string{}
		for _, t := range page.GetTables() {
			out.TablesTotal++
			if md := tableToMarkdown(full, t); md != "" {
				tables = append(tables, md)
			}
		}

		if low {
			out.LowTextPages = append(out.LowTextPages, idx+1)
		}
		out.Pages = append(out.Pages, models.Page{
			Index:          idx + 1,
			Text:           text,
			CharCount:      charCount,
			WordCount:      len(strings.Fields(text)),
			LowText:        low,
			TablesMarkdown: tables,
		})
	}
	return out
}

func textFromAnchor(full []rune, anchor *documentaipb.Document_TextAnchor) string {
	if anchor == nil || len(full) == 0 {
		return ""
	}
	var b strings.Builder
	for _, seg := range anchor.GetTextSegments() {
		start := int(seg.GetStartIndex())
		end := int(seg.GetEndIndex())
		if start < 0 {
			start = 0
		}
		if end > len(full) {
			end = len(full)
		}
		if start >= end {
			continue
		}
		b.WriteString(string(full[start:end]))
	}
	return b.String()
}

func cellText(full []rune, cell *documentaipb.Document_Page_Table_TableCell) string {
	t := textFromAnchor(full, cell.GetLayout().GetTextAnchor())
	return strings.ReplaceAll(strings.TrimSpace(t), "\n", " ")
}

func rowCells(full []rune, row *documentaipb.Document_Page_Table_TableRow) []string {
	cells := make([]string, 0, len(row.GetCells()))
	for _, c := range row.GetCells() {
		cells = append(cells, cellText(full, c))
	}
	return cells
}

// tableToMarkdown renders the first header row, a separator, then the body
// rows (or the remaining header rows when there is no body).
func tableToMarkdown(full []rune, t *documentaipb.Document_Page_Table) string {
	var headers, body [][]string
	for _, r := range t.GetHeaderRows() {
		headers = append(headers, rowCells(full, r))
	}
	for _, r := range t.GetBodyRows() {
		body = append(body, rowCells(full, r))
	}

	var lines []string
	if len(headers) > 0 {
		lines = append(lines, "| "+strings.Join(headers[0], " | ")+" |")
		sep := make([]string, len(headers[0]))
		for i := range sep {
			sep[i] = "---"
		}
		lines = append(lines, "| "+strings.Join(sep, " | ")+" |")
	}
	rows := body
	if len(rows) == 0 && len(headers) > 1 {
		rows = headers[1:]
	}
	for _, r := range rows {
		lines = append(lines, "| "+strings.Join(r, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}
