package client

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

var pageNumberRegex = regexp.MustCompile(`-(\d+)\.png$`)

// RasterClient renders PDF pages to PNG images with pdftoppm. Rendered
// pages are cached per document under <cacheDir>/<docKey>/ keyed by page
// number; docKey must be unique per document so cache entries never
// collide across documents.
type RasterClient struct {
	pdftoppmPath string
	dpi          int
	cacheDir     string
	runner       Runner
}

func NewRasterClient(pdftoppmPath string, dpi int, cacheDir string, runner Runner) *RasterClient {
	if runner == nil {
		runner = execRunner{}
	}
	return &RasterClient{
		pdftoppmPath: pdftoppmPath,
		dpi:          dpi,
		cacheDir:     cacheDir,
		runner:       runner,
	}
}

// RenderPages rasterizes every page of the PDF at the configured DPI and
// returns the image paths in page order, together with a cleanup func.
// Cached documents are served without invoking pdftoppm again.
func (rc *RasterClient) RenderPages(ctx context.Context, pdfPath, docKey string) ([]string, func(), error) {
	dir := ""
	cleanup := func() {}

	if rc.cacheDir != "" {
		dir = filepath.Join(rc.cacheDir, docKey)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, cleanup, fmt.Errorf("failed to create page cache dir: %w", err)
		}
		if pages := collectPages(dir); len(pages) > 0 {
			log.Printf("Serving %d cached pages for document %s", len(pages), docKey)
			return pages, cleanup, nil
		}
	} else {
		tmp, err := os.MkdirTemp("", "weightcert-pages-*")
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to create temp dir: %w", err)
		}
		dir = tmp
		cleanup = func() { os.RemoveAll(tmp) }
	}

	prefix := filepath.Join(dir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <dir>/page
	_, errb, err := rc.runner.Run(ctx, rc.pdftoppmPath, "-r", strconv.Itoa(rc.dpi), "-png", pdfPath, prefix)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("pdftoppm failed: %w (%s)", err, bytes.TrimSpace(errb))
	}

	pages := collectPages(dir)
	if len(pages) == 0 {
		cleanup()
		return nil, func() {}, fmt.Errorf("pdftoppm produced no images")
	}
	return pages, cleanup, nil
}

// collectPages globs page-*.png and orders them by page number (pdftoppm
// zero-pads inconsistently, so lexicographic order is not enough).
func collectPages(dir string) []string {
	matches, _ := filepath.Glob(filepath.Join(dir, "page-*.png"))
	sort.Slice(matches, func(i, j int) bool {
		return pageNumberOf(matches[i]) < pageNumberOf(matches[j])
	})
	return matches
}

func pageNumberOf(path string) int {
	m := pageNumberRegex.FindStringSubmatch(path)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
