package texcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Cache compiles LaTeX source to PDF with pdflatex and keeps the compiled
// artifact on disk keyed by a content hash of the source. It is constructed
// once at startup and shared by reference; the only shared state is the cache
// directory itself, which is append-mostly (artifacts are written once per
// distinct hash, never mutated in place).
type Cache struct {
	dir     string
	tmpRoot string
	bin     string
	timeout time.Duration
	// slots bounds concurrent pdflatex invocations so compilation cannot
	// starve request handling.
	slots chan struct{}
}

var (
	// ErrToolMissing: the pdflatex binary could not be located. A deployment
	// problem, not a document problem.
	ErrToolMissing = errors.New("pdflatex not found")
	// ErrTimeout: the compilation pass exceeded the configured wall clock.
	ErrTimeout = errors.New("latex compilation timed out")
	// ErrInvalidKey: a cache key was not a sha256 hex digest. Should never
	// happen; guards path construction against key derivation bugs.
	ErrInvalidKey = errors.New("invalid cache key")
)

// CompileError means pdflatex ran and rejected the document. It carries the
// tail of the tool output for diagnostics.
type CompileError struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("latex compilation failed (exit %d)", e.ExitCode)
}

const (
	sourceName   = "resume.tex"
	artifactName = "resume.pdf"
	// logTail is how much of each output stream a CompileError keeps.
	logTail = 1500
)

var keyPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// New prepares the cache directory and its workspace root.
func New(dir, bin string, timeout time.Duration, workers int) (*Cache, error) {
	if workers < 1 {
		workers = 1
	}
	tmpRoot := filepath.Join(dir, "tmp")
	if err := os.MkdirAll(tmpRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Cache{
		dir:     dir,
		tmpRoot: tmpRoot,
		bin:     bin,
		timeout: timeout,
		slots:   make(chan struct{}, workers),
	}, nil
}

// Key returns the cache key for a piece of LaTeX source: the hex sha256 of
// its UTF-8 bytes.
func Key(tex string) string {
	sum := sha256.Sum256([]byte(tex))
	return hex.EncodeToString(sum[:])
}

// artifactPath validates the key shape before building any path from it.
func (c *Cache) artifactPath(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	return filepath.Join(c.dir, key+".pdf"), nil
}

// GetOrCompile returns the compiled PDF for the given source, reusing the
// cached artifact when one exists. Two concurrent misses for the same source
// may both compile; the atomic rename in the cache write makes that safe,
// merely wasteful, since both produce equivalent bytes.
func (c *Cache) GetOrCompile(ctx context.Context, tex string) ([]byte, error) {
	path, err := c.artifactPath(Key(tex))
	if err != nil {
		return nil, err
	}
	// Serve the cached artifact only when it is a regular file; a symlink at
	// the artifact path is never followed.
	if fi, lerr := os.Lstat(path); lerr == nil && fi.Mode().IsRegular() {
		return os.ReadFile(path)
	}

	pdf, err := c.Compile(ctx, tex)
	if err != nil {
		return nil, err
	}
	if werr := c.writeArtifact(path, pdf); werr != nil {
		// The caller still gets a valid document; only reuse is lost.
		log.Printf("warning: cache write failed: %v", werr)
	}
	return pdf, nil
}

// Compile runs one non-interactive pdflatex pass over the source in a fresh
// uniquely named workspace. The workspace is removed on every exit path.
func (c *Cache) Compile(ctx context.Context, tex string) ([]byte, error) {
	select {
	case c.slots <- struct{}{}:
		defer func() { <-c.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	workspace := filepath.Join(c.tmpRoot, uuid.NewString())
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	defer os.RemoveAll(workspace)

	if err := os.WriteFile(filepath.Join(workspace, sourceName), []byte(tex), 0o644); err != nil {
		return nil, fmt.Errorf("write source: %w", err)
	}

	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, c.bin, "-interaction=nonstopmode", sourceName)
	cmd.Dir = workspace
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if cctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("after %s: %w", c.timeout, ErrTimeout)
	}
	if runErr != nil {
		if errors.Is(runErr, exec.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", c.bin, ErrToolMissing)
		}
		// pdflatex exits non-zero for warnings too; the run only failed if no
		// artifact was produced.
		if _, statErr := os.Stat(filepath.Join(workspace, artifactName)); statErr != nil {
			exitCode := -1
			var exitErr *exec.ExitError
			if errors.As(runErr, &exitErr) {
				exitCode = exitErr.ExitCode()
			} else {
				return nil, fmt.Errorf("run %s: %w", c.bin, runErr)
			}
			return nil, &CompileError{
				ExitCode: exitCode,
				Stdout:   tail(stdout.String()),
				Stderr:   tail(stderr.String()),
			}
		}
	}

	pdf, err := os.ReadFile(filepath.Join(workspace, artifactName))
	if err != nil {
		// Clean exit but no artifact; treat like a compilation failure.
		return nil, &CompileError{
			ExitCode: 0,
			Stdout:   tail(stdout.String()),
			Stderr:   tail(stderr.String()),
		}
	}
	return pdf, nil
}

// writeArtifact lands the artifact with a temp-file-plus-rename so no reader
// ever observes a partial write. A symlink occupying the destination is
// removed rather than written through.
func (c *Cache) writeArtifact(dest string, data []byte) error {
	if fi, err := os.Lstat(dest); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		if rmErr := os.Remove(dest); rmErr != nil {
			return fmt.Errorf("remove symlink at artifact path: %w", rmErr)
		}
	}
	tmp, err := os.CreateTemp(c.dir, ".artifact-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func tail(s string) string {
	if len(s) <= logTail {
		return s
	}
	return s[len(s)-logTail:]
}
