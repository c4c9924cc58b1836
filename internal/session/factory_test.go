package session

import (
	"io"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
	"github.com/DjordjeVuckovic/indexbench/internal/corpus/corpustest"
	"github.com/DjordjeVuckovic/indexbench/internal/procexec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	runner := &corpustest.Runner{}
	maxThreads := 2
	s := &Session{
		Data:       t.TempDir(),
		Experiment: "run1",
		Policy:     "abort",
		Chunks:     ChunksConfig{Folder: corpus.DefaultChunksFolder, Manifest: corpus.DefaultManifest},
		Engines: []Engine{
			{Type: "bitfunnel", Executable: "bf"},
			{Type: "mg4j", Workbench: "/w"},
			{Type: "pef", BinDir: "/p", Workbench: "/w"},
			{Type: "mg4j", Workbench: "/other", Heap: "4g"},
		},
		Queries: QueriesConfig{Log: "q.txt", MinThreads: 1, MaxThreads: &maxThreads},
	}

	c, err := Open(s, corpus.WithRunner(runner))
	require.NoError(t, err)

	assert.Equal(t, corpus.AbortOnFailure, c.Policy())
	assert.Equal(t, "run1", c.Experiment().Name)
	assert.DirExists(t, filepath.Join(s.Data, "run1"))

	engines := c.Engines()
	require.Len(t, engines, 3)
	assert.Equal(t, corpus.KindBitFunnel, engines[0].Kind())
	assert.Equal(t, corpus.KindMG4J, engines[1].Kind())
	assert.Equal(t, corpus.KindPEF, engines[2].Kind())

	runner.Reset()
	_, err = c.RunQueries(s.Queries.Log, s.Queries.Threads())
	require.NoError(t, err)
	// one repl for bitfunnel, two thread counts each for mg4j and pef
	require.Len(t, runner.Commands, 5)
	assert.Contains(t, runner.Commands[1].Line, "-Xmx4g")
}

func TestOpen_CopyChunks(t *testing.T) {
	runner := &corpustest.Runner{}
	s := &Session{
		Data:       t.TempDir(),
		Experiment: corpus.DefaultExperiment,
		Chunks:     ChunksConfig{Folder: corpus.DefaultChunksFolder, Manifest: corpus.DefaultManifest},
		CopyChunks: &CopyConfig{Folder: "small", Filter: "-count 10"},
		Engines:    []Engine{{Type: "bitfunnel", Executable: "bf"}},
	}

	c, err := Open(s, corpus.WithRunner(runner))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(s.Data, "small"), c.Layout().DocsFolder)
	found := false
	for _, line := range runner.Lines() {
		if corpustest.Contains(line, "bf filter", "-count 10") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestOpen_CustomChunksFolderOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skip on windows: requires find")
	}

	for _, policy := range []string{"abort", "continue"} {
		t.Run(policy, func(t *testing.T) {
			data := t.TempDir()
			layout := corpus.NewLayout(data)
			chunk := filepath.Join(layout.DocsFolder, "filtered", "c1")
			corpustest.Touch(t, chunk)

			s := &Session{
				Data:       data,
				Experiment: corpus.DefaultExperiment,
				Policy:     policy,
				Chunks:     ChunksConfig{Folder: "filtered", Manifest: "filtered.txt"},
				Engines:    []Engine{{Type: "mg4j", Workbench: "/w"}},
			}

			c, err := Open(s, corpus.WithRunner(&procexec.Runner{Live: io.Discard}))
			require.NoError(t, err)

			assert.Zero(t, c.Ledger().Count(corpus.Failed))
			assert.Equal(t, 1, c.Ledger().Count(corpus.Succeeded))
			assert.NoFileExists(t, layout.Manifest, "default manifest is never listed")

			listed, err := corpus.ReadManifest(c.Layout().Manifest)
			require.NoError(t, err)
			assert.Equal(t, []string{chunk}, listed)
		})
	}
}

func TestOpen_PatternWithDefaultManifest(t *testing.T) {
	runner := &corpustest.Runner{}
	data := t.TempDir()
	chunks := corpus.NewLayout(data).ChunksFolder
	corpustest.Touch(t, filepath.Join(chunks, "a.chunk"))
	corpustest.Touch(t, filepath.Join(chunks, "notes.txt"))

	s, err := Parse([]byte("data: " + data + "\nchunks:\n  pattern: \\.chunk$\nengines:\n  - type: mg4j\n    workbench: /w\n"))
	require.NoError(t, err)

	c, err := Open(s, corpus.WithRunner(runner))
	require.NoError(t, err)
	assert.Empty(t, runner.Commands)

	listed, err := corpus.ReadManifest(c.Layout().Manifest)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(chunks, "a.chunk")}, listed)
	assert.Equal(t, filepath.Join(c.Layout().DocsFolder, corpus.DefaultManifest), c.Layout().Manifest)
}
