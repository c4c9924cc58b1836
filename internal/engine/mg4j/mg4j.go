// Package mg4j drives the MG4J index builder and query runner through the
// mg4j-workbench jar.
package mg4j

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
)

const (
	IndexFolderName = "mg4jindex"
	IndexBasename   = "index"
	ResultsFile     = "mgj4results.csv"

	DefaultJar  = "target/mg4j-1.0-SNAPSHOT.jar"
	DefaultHeap = "16g"

	buildLog   = "mg4j_build_index.log"
	queriesLog = "mg4j_run_queries.log"
)

// Toolkit builds java command lines for classes in the workbench jar.
type Toolkit struct {
	Jar  string
	Heap string
}

func NewToolkit(workbench, heap string) Toolkit {
	if heap == "" {
		heap = DefaultHeap
	}
	return Toolkit{
		Jar:  filepath.Join(workbench, DefaultJar),
		Heap: heap,
	}
}

func (t Toolkit) Command(args string) string {
	return fmt.Sprintf("java -cp %s -Dfile.encoding=UTF-8 -Xmx%s %s", t.Jar, t.Heap, args)
}

type Engine struct {
	corpus  *corpus.Corpus
	toolkit Toolkit
}

func New(c *corpus.Corpus, toolkit Toolkit) *Engine {
	return &Engine{corpus: c, toolkit: toolkit}
}

func (e *Engine) Kind() corpus.Kind {
	return corpus.KindMG4J
}

func (e *Engine) IndexFolder() string {
	return e.corpus.Layout().IndexFolder(IndexFolderName)
}

// Basename is the path prefix shared by every file of the MG4J index.
func (e *Engine) Basename() string {
	return filepath.Join(e.IndexFolder(), IndexBasename)
}

// Built reports whether the index builder finished, i.e. left a
// <basename>*.properties file behind. The folder alone is not enough: it is
// created before the builder runs.
func (e *Engine) Built() bool {
	matches, err := filepath.Glob(e.Basename() + "*.properties")
	return err == nil && len(matches) > 0
}

// BuildIndex builds the index from the manifest unless a finished index is present.
func (e *Engine) BuildIndex() ([]corpus.Result, error) {
	if e.Built() {
		return []corpus.Result{e.corpus.Skip(e.Kind().String(), "index", e.IndexFolder())}, nil
	}
	res, err := e.RunIndexBuilder()
	return []corpus.Result{res}, err
}

// RunIndexBuilder always runs IndexBuilder over the current manifest.
func (e *Engine) RunIndexBuilder() (corpus.Result, error) {
	if err := os.MkdirAll(e.IndexFolder(), 0o755); err != nil {
		return corpus.Result{}, fmt.Errorf("create mg4j index folder: %w", err)
	}

	args := fmt.Sprintf("it.unimi.di.big.mg4j.tool.IndexBuilder "+
		"-o \"org.bitfunnel.reproducibility.ChunkManifestDocumentSequence(%s)\" %s",
		e.corpus.Layout().Manifest, e.Basename())
	return e.corpus.RunStage(e.corpus.Experiment(), e.Kind().String(), "index", e.toolkit.Command(args), buildLog)
}

func (e *Engine) RunQueries(exp corpus.Experiment, queryLog string, threads corpus.ThreadRange) ([]corpus.Result, error) {
	args := fmt.Sprintf("org.bitfunnel.reproducibility.QueryLogRunner mg4j %s %s %s %d",
		e.Basename(),
		e.corpus.Layout().QueryLog(queryLog),
		filepath.Join(exp.Dir, ResultsFile),
		threads.Min)
	res, err := e.corpus.RunStage(exp, e.Kind().String(), "queries", e.toolkit.Command(args), queriesLog)
	return []corpus.Result{res}, err
}
