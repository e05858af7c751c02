// Package extraction turns an uploaded lecture file into page-level text
// using Document AI, splitting long PDFs to stay under the online page limit.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"

	"github.com/Lllllllleong/lecturesummary/internal/models"
)

// PagesPerRequest is the largest page count sent in one online request.
const PagesPerRequest = 15

var (
	ErrUnsupportedMIME = errors.New("unsupported file type")
	ErrNotConfigured   = errors.New("document extraction is not configured")
)

// Processor runs OCR on a single PDF.
type Processor interface {
	Process(ctx context.Context, pdf []byte, imageless bool) (*models.Document, error)
}

// Converter turns a PowerPoint file into a PDF inside outDir.
type Converter interface {
	ConvertToPDF(ctx context.Context, srcPath, outDir string) (string, error)
}

// Extractor produces a models.Document for PDF and PowerPoint uploads.
type Extractor struct {
	processor   Processor
	converter   Converter
	concurrency int
}

// New returns an Extractor. converter may be nil, in which case PowerPoint
// uploads fail with ErrNotConfigured.
func New(processor Processor, converter Converter) *Extractor {
	return &Extractor{processor: processor, converter: converter, concurrency: 4}
}

// Extract reads the file at path. filename is the client-supplied name used
// when the content alone does not identify the type.
func (e *Extractor) Extract(ctx context.Context, path, filename string) (*models.Document, error) {
	if e.processor == nil {
		return nil, fmt.Errorf("%w: no Document AI processor", ErrNotConfigured)
	}

	workDir, err := os.MkdirTemp("", "extract-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	pdfPath, err := e.preparePDF(ctx, path, filename, workDir)
	if err != nil {
		return nil, err
	}

	pageCount, err := api.PageCountFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	slog.Debug("PDF ready for extraction.", "pageCount", pageCount)

	if pageCount <= PagesPerRequest {
		data, err := os.ReadFile(pdfPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read PDF: %w", err)
		}
		return e.processor.Process(ctx, data, false)
	}
	return e.extractSplit(ctx, pdfPath, workDir)
}

func (e *Extractor) preparePDF(ctx context.Context, path, filename, workDir string) (string, error) {
	mime := DetectMIME(path, filename)
	switch {
	case mime == MIMEPDF:
		return path, nil
	case isPowerPoint(mime):
		if e.converter == nil {
			return "", fmt.Errorf("%w: PowerPoint conversion unavailable", ErrNotConfigured)
		}
		// soffice names its output after the input, so give it a stable name.
		src := filepath.Join(workDir, "deck"+filepath.Ext(filename))
		if err := copyFile(path, src); err != nil {
			return "", err
		}
		return e.converter.ConvertToPDF(ctx, src, workDir)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMIME, mime)
	}
}

type chunk struct {
	path        string
	first, last int
}

type part struct {
	doc   *models.Document
	pages int
}

func (e *Extractor) extractSplit(ctx context.Context, pdfPath, workDir string) (*models.Document, error) {
	splitDir := filepath.Join(workDir, "split")
	if err := os.MkdirAll(splitDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create split dir: %w", err)
	}
	optimized := filepath.Join(splitDir, "lecture.pdf")
	if err := optimizePDF(pdfPath, optimized); err != nil {
		return nil, fmt.Errorf("failed to validate/optimize PDF: %w", err)
	}
	if err := api.SplitFile(optimized, splitDir, PagesPerRequest, relaxedConfig()); err != nil {
		return nil, fmt.Errorf("failed to split PDF: %w", err)
	}
	chunks, err := listChunks(splitDir)
	if err != nil {
		return nil, err
	}

	parts := make([]part, len(chunks))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.concurrency)
	for i, c := range chunks {
		eg.Go(func() error {
			data, err := os.ReadFile(c.path)
			if err != nil {
				return fmt.Errorf("pages %d-%d: %w", c.first, c.last, err)
			}
			doc, err := e.processor.Process(gctx, data, false)
			if err != nil {
				return fmt.Errorf("pages %d-%d: %w", c.first, c.last, err)
			}
			parts[i] = part{doc: doc, pages: c.last - c.first + 1}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return mergeDocuments(parts), nil
}

var chunkNameRe = regexp.MustCompile(`_(\d+)(?:-(\d+))?\.pdf$`)

// listChunks returns the split files ordered by their first page.
func listChunks(dir string) ([]chunk, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "lecture_*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("failed to list split files: %w", err)
	}
	var chunks []chunk
	for _, m := range matches {
		c, ok := parseChunkName(m)
		if !ok {
			continue
		}
		chunks = append(chunks, c)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("split produced no files in %s", dir)
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].first < chunks[j].first })
	return chunks, nil
}

func parseChunkName(path string) (chunk, bool) {
	sub := chunkNameRe.FindStringSubmatch(filepath.Base(path))
	if sub == nil {
		return chunk{}, false
	}
	first, _ := strconv.Atoi(sub[1])
	last := first
	if sub[2] != "" {
		last, _ = strconv.Atoi(sub[2])
	}
	return chunk{path: path, first: first, last: last}, true
}

// mergeDocuments concatenates per-chunk results, shifting page indices by
// the number of pages in the preceding chunks.
func mergeDocuments(parts []part) *models.Document {
	merged := &models.Document{Pages: []models.Page{}, LowTextPages: []int{}}
	seen := map[int]bool{}
	offset := 0
	var text []byte
	for _, p := range parts {
		if p.doc != nil {
			text = append(text, p.doc.FullText...)
			for _, pg := range p.doc.Pages {
				pg.Index += offset
				merged.Pages = append(merged.Pages, pg)
			}
			for _, low := range p.doc.LowTextPages {
				if idx := low + offset; !seen[idx] {
					seen[idx] = true
					merged.LowTextPages = append(merged.LowTextPages, idx)
				}
			}
			merged.TablesTotal += p.doc.TablesTotal
		}
		offset += p.pages
	}
	merged.FullText = string(text)
	sort.Ints(merged.LowTextPages)
	return merged
}

func relaxedConfig() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

func optimizePDF(inPath, outPath string) error {
	return api.OptimizeFile(inPath, outPath, relaxedConfig())
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
