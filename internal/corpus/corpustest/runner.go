// Package corpustest provides a recording command runner for engine tests.
package corpustest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
	"github.com/DjordjeVuckovic/indexbench/internal/procexec"
)

// Runner records every command instead of running it. Hook, when set,
// simulates the side effects of a command and chooses its exit code.
type Runner struct {
	Commands []procexec.Command
	Hook     func(cmd procexec.Command) int
}

func (r *Runner) Run(cmd procexec.Command) (int, error) {
	r.Commands = append(r.Commands, cmd)
	if cmd.LogPath != "" {
		if err := os.WriteFile(cmd.LogPath, []byte("Running "+cmd.Line+"\n"), 0o644); err != nil {
			return -1, err
		}
	}
	if r.Hook != nil {
		return r.Hook(cmd), nil
	}
	return 0, nil
}

// Lines returns the command lines in the order they were run.
func (r *Runner) Lines() []string {
	lines := make([]string, 0, len(r.Commands))
	for _, c := range r.Commands {
		lines = append(lines, c.Line)
	}
	return lines
}

// Reset forgets recorded commands.
func (r *Runner) Reset() {
	r.Commands = nil
}

// NewCorpus returns a corpus rooted in a temp folder whose default chunks
// folder and manifest already exist on disk.
func NewCorpus(t *testing.T, runner *Runner, opts ...corpus.Option) *corpus.Corpus {
	t.Helper()

	data := t.TempDir()
	layout := corpus.NewLayout(data)
	if err := os.MkdirAll(layout.ChunksFolder, 0o755); err != nil {
		t.Fatalf("create chunks folder: %v", err)
	}
	if err := corpus.WriteManifest(layout.Manifest, []string{filepath.Join(layout.ChunksFolder, "chunk-0")}); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	c, err := corpus.New(data, append([]corpus.Option{corpus.WithRunner(runner)}, opts...)...)
	if err != nil {
		t.Fatalf("create corpus: %v", err)
	}
	return c
}

// Touch creates an empty file, and its parents, to stand in for an artifact.
func Touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

// Contains reports whether a command line contains every fragment.
func Contains(line string, fragments ...string) bool {
	for _, f := range fragments {
		if !strings.Contains(line, f) {
			return false
		}
	}
	return true
}
