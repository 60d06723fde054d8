package client

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner fakes pdftoppm: it writes empty page PNGs at the output
// prefix instead of invoking the binary.
type stubRunner struct {
	pages  int
	called int
	fail   bool
}

func (s *stubRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	s.called++
	if s.fail {
		return nil, []byte("pdftoppm: command not found"), os.ErrNotExist
	}
	prefix := args[len(args)-1]
	for i := 1; i <= s.pages; i++ {
		if err := os.WriteFile(prefix+"-"+strconv.Itoa(i)+".png", []byte("png"), 0o644); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

func TestRenderPagesOrdersByPageNumber(t *testing.T) {
	runner := &stubRunner{pages: 12}
	rc := NewRasterClient("pdftoppm", 300, "", runner)

	pages, cleanup, err := rc.RenderPages(context.Background(), "cert.pdf", "doc1")
	require.NoError(t, err)
	defer cleanup()

	require.Len(t, pages, 12)
	// numeric order, not lexicographic: page-2 before page-10
	assert.Contains(t, pages[1], "page-2.png")
	assert.Contains(t, pages[9], "page-10.png")
}

func TestRenderPagesUsesCache(t *testing.T) {
	cacheDir := t.TempDir()
	runner := &stubRunner{pages: 2}
	rc := NewRasterClient("pdftoppm", 300, cacheDir, runner)

	first, _, err := rc.RenderPages(context.Background(), "cert.pdf", "doc-abc")
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, runner.called)

	// second render of the same document is served from the cache
	second, _, err := rc.RenderPages(context.Background(), "cert.pdf", "doc-abc")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, runner.called)

	// a different document never collides with the cached one
	_, _, err = rc.RenderPages(context.Background(), "cert.pdf", "doc-xyz")
	require.NoError(t, err)
	assert.Equal(t, 2, runner.called)
}

func TestRenderPagesFailure(t *testing.T) {
	rc := NewRasterClient("pdftoppm", 300, "", &stubRunner{fail: true})

	_, _, err := rc.RenderPages(context.Background(), "cert.pdf", "doc1")
	assert.Error(t, err)
}

func TestRenderPagesEmptyOutput(t *testing.T) {
	rc := NewRasterClient("pdftoppm", 300, "", &stubRunner{pages: 0})

	_, _, err := rc.RenderPages(context.Background(), "cert.pdf", "doc1")
	assert.Error(t, err)
}

func TestCollectPagesIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page-1.png"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	pages := collectPages(dir)
	require.Len(t, pages, 1)
	assert.Contains(t, pages[0], "page-1.png")
}
