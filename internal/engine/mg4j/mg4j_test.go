package mg4j

import (
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
	"github.com/DjordjeVuckovic/indexbench/internal/corpus/corpustest"
	"github.com/DjordjeVuckovic/indexbench/internal/procexec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolkit_Command(t *testing.T) {
	tk := NewToolkit("/src/mg4j-workbench", "")
	assert.Equal(t,
		"java -cp /src/mg4j-workbench/target/mg4j-1.0-SNAPSHOT.jar -Dfile.encoding=UTF-8 -Xmx16g Main arg",
		tk.Command("Main arg"))

	tk = NewToolkit("/w", "4g")
	assert.Contains(t, tk.Command("X"), "-Xmx4g X")
}

func TestBuildIndex(t *testing.T) {
	runner := &corpustest.Runner{}
	c := corpustest.NewCorpus(t, runner)
	e := New(c, NewToolkit("/w", ""))
	runner.Hook = func(procexec.Command) int {
		corpustest.Touch(t, e.Basename()+"-text.properties")
		return 0
	}

	results, err := e.BuildIndex()
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, corpus.Succeeded, results[0].Outcome)

	require.Len(t, runner.Commands, 1)
	index := filepath.Join(c.Layout().DocsFolder, "mg4jindex")
	assert.Equal(t,
		"java -cp /w/target/mg4j-1.0-SNAPSHOT.jar -Dfile.encoding=UTF-8 -Xmx16g it.unimi.di.big.mg4j.tool.IndexBuilder "+
			"-o \"org.bitfunnel.reproducibility.ChunkManifestDocumentSequence("+c.Layout().Manifest+")\" "+
			filepath.Join(index, "index"),
		runner.Commands[0].Line)
	assert.Equal(t, filepath.Join(c.Experiment().Dir, "mg4j_build_index.log"), runner.Commands[0].LogPath)
	assert.DirExists(t, index)

	runner.Reset()
	results, err = e.BuildIndex()
	require.NoError(t, err)
	assert.Empty(t, runner.Commands)
	assert.Equal(t, corpus.Skipped, results[0].Outcome)
}

func TestBuildIndex_FailedBuildIsRetried(t *testing.T) {
	runner := &corpustest.Runner{Hook: func(procexec.Command) int { return 1 }}
	c := corpustest.NewCorpus(t, runner)
	e := New(c, NewToolkit("/w", ""))

	results, err := e.BuildIndex()
	require.NoError(t, err)
	assert.Equal(t, corpus.Failed, results[0].Outcome)
	assert.DirExists(t, e.IndexFolder())
	assert.False(t, e.Built())

	runner.Hook = nil
	results, err = e.BuildIndex()
	require.NoError(t, err)
	assert.Len(t, runner.Commands, 2)
	assert.Equal(t, corpus.Succeeded, results[0].Outcome)
}

func TestForcedStagesAlwaysRun(t *testing.T) {
	runner := &corpustest.Runner{}
	c := corpustest.NewCorpus(t, runner)
	e := New(c, NewToolkit("/w", ""))
	corpustest.Touch(t, e.Basename()+"-text.properties")
	require.True(t, e.Built())

	res, err := e.RunIndexBuilder()
	require.NoError(t, err)
	assert.Equal(t, corpus.Succeeded, res.Outcome)
	require.Len(t, runner.Commands, 1)
	assert.Contains(t, runner.Commands[0].Line, "IndexBuilder")
}

func TestRunQueries(t *testing.T) {
	runner := &corpustest.Runner{}
	c := corpustest.NewCorpus(t, runner)
	require.NoError(t, c.SetExperiment("test"))
	c.Register(New(c, NewToolkit("/w", "")))

	_, err := c.RunQueries("logs/q.txt", corpus.Sweep(1, 2))
	require.NoError(t, err)
	require.Len(t, runner.Commands, 2)

	data := c.Layout().DataFolder
	basename := filepath.Join(c.Layout().DocsFolder, "mg4jindex", "index")
	for i, threads := range []string{"1", "2"} {
		dir := filepath.Join(data, "test_"+threads)
		assert.Equal(t,
			"java -cp /w/target/mg4j-1.0-SNAPSHOT.jar -Dfile.encoding=UTF-8 -Xmx16g org.bitfunnel.reproducibility.QueryLogRunner mg4j "+
				basename+" "+filepath.Join(data, "logs/q.txt")+" "+filepath.Join(dir, "mgj4results.csv")+" "+threads,
			runner.Commands[i].Line)
		assert.Equal(t, filepath.Join(dir, "mg4j_run_queries.log"), runner.Commands[i].LogPath)
	}
}
