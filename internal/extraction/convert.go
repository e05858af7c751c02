package extraction

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// LibreOfficeConverter converts PowerPoint decks to PDF with a headless soffice.
type LibreOfficeConverter struct {
	Binary string
}

// NewLibreOfficeConverter resolves binary on PATH or as a file path.
func NewLibreOfficeConverter(binary string) (*LibreOfficeConverter, error) {
	if binary == "" {
		binary = "soffice"
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: LibreOffice not found at %q (set LIBREOFFICE_PATH): %v", ErrNotConfigured, binary, err)
	}
	return &LibreOfficeConverter{Binary: resolved}, nil
}

// ConvertToPDF writes <outDir>/<base>.pdf and returns its path.
func (c *LibreOfficeConverter) ConvertToPDF(ctx context.Context, srcPath, outDir string) (string, error) {
	cmd := exec.CommandContext(ctx, c.Binary, "--headless", "--norestore", "--convert-to", "pdf", "--outdir", outDir, srcPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("soffice conversion failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	pdfPath := filepath.Join(outDir, base+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("soffice produced no PDF for %s: %w", srcPath, err)
	}
	return pdfPath, nil
}
