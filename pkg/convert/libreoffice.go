package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"report-bot-be/internal/pkg/logger"

	"golang.org/x/sync/semaphore"
)

// Converter shells out to LibreOffice for PDF conversion. The office binary
// is a single external process instance, so at most one conversion runs at a
// time process-wide; additional requests block on the semaphore until the
// slot frees up.
type Converter struct {
	binary string
	slot   *semaphore.Weighted
	logger logger.ILogger

	// overridable in tests
	execute func(ctx context.Context, inputPath, outputDir string) error

	// soffice may return before the output file is flushed to disk.
	pollInterval time.Duration
	maxPolls     int
}

func NewConverter(binary string, log logger.ILogger) *Converter {
	c := &Converter{
		binary:       binary,
		slot:         semaphore.NewWeighted(1),
		logger:       log,
		pollInterval: 500 * time.Millisecond,
		maxPolls:     10,
	}
	c.execute = c.runLibreOffice
	return c
}

func (c *Converter) runLibreOffice(ctx context.Context, inputPath, outputDir string) error {
	cmd := exec.CommandContext(ctx, c.binary,
		"--headless", "--convert-to", "pdf", inputPath, "--outdir", outputDir)
	if out, err := cmd.CombinedOutput(); err != nil {
		c.logger.Error("Converter", "LibreOffice conversion failed", map[string]interface{}{
			"input":  inputPath,
			"output": string(out),
			"error":  err.Error(),
		})
		return fmt.Errorf("libreoffice conversion failed: %w", err)
	}
	return nil
}

// ToPDF converts inputPath into a PDF inside outputDir and returns the
// output path. Waits for the conversion slot; honors ctx while waiting.
func (c *Converter) ToPDF(ctx context.Context, inputPath, outputDir string) (string, error) {
	if err := c.slot.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.slot.Release(1)

	c.logger.Info("Converter", "Starting PDF conversion", map[string]interface{}{
		"input": inputPath,
	})

	if err := c.execute(ctx, inputPath, outputDir); err != nil {
		return "", err
	}

	base := filepath.Base(inputPath)
	pdfName := strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
	pdfPath := filepath.Join(outputDir, pdfName)

	for i := 0; i < c.maxPolls; i++ {
		if _, err := os.Stat(pdfPath); err == nil {
			c.logger.Info("Converter", "PDF conversion finished", map[string]interface{}{
				"output": pdfPath,
			})
			return pdfPath, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	return "", fmt.Errorf("converted PDF never appeared: %s", pdfPath)
}
