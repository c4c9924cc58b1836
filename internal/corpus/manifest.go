package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/DjordjeVuckovic/indexbench/pkg/stringsutil"
)

// ConfigureChunks points the corpus at docs/<folder>. An empty manifest name
// becomes <folder>_manifest.txt. A missing manifest is generated by listing
// every file under the chunks folder; an existing one is never rewritten.
// A failed listing removes the partial manifest so the next call retries it.
func (c *Corpus) ConfigureChunks(folder, manifest string) error {
	c.layout = c.layout.withChunks(folder, manifest)

	if Exists(c.layout.Manifest) {
		c.Skip(component, "manifest", c.layout.Manifest)
		return nil
	}

	cmd := fmt.Sprintf("find %s -type f > %s", c.layout.ChunksFolder, c.layout.Manifest)
	res, err := c.RunStage(c.experiment, component, "manifest", cmd, "")
	if res.Outcome == Failed {
		if rmErr := os.Remove(c.layout.Manifest); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			slog.Warn("remove partial manifest", "path", c.layout.Manifest, "error", rmErr)
		}
	}
	return err
}

// ManifestFromPattern is ConfigureChunks with an in-process listing that
// keeps only chunk files whose base name matches pattern.
func (c *Corpus) ManifestFromPattern(folder, manifest, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("compile chunk pattern: %w", err)
	}

	c.layout = c.layout.withChunks(folder, manifest)
	if Exists(c.layout.Manifest) {
		c.Skip(component, "manifest", c.layout.Manifest)
		return nil
	}

	var chunks []string
	err = filepath.WalkDir(c.layout.ChunksFolder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && re.MatchString(d.Name()) {
			chunks = append(chunks, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk chunks folder: %w", err)
	}

	slog.Info("writing manifest", "path", c.layout.Manifest, "chunks", len(chunks))
	started := c.now()
	if err := WriteManifest(c.layout.Manifest, chunks); err != nil {
		return err
	}
	c.ledger.Append(Result{
		Component: component,
		Stage:     "manifest",
		Outcome:   Succeeded,
		Started:   started,
		Duration:  c.now().Sub(started),
	})
	return nil
}

func WriteManifest(path string, chunks []string) error {
	var b strings.Builder
	for _, chunk := range chunks {
		b.WriteString(chunk)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest returns the chunk paths listed in a manifest, skipping blank lines.
func ReadManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return stringsutil.NonEmptyLines(string(data)), nil
}

// Exists reports whether a build artifact is present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
