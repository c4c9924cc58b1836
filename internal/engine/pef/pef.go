// Package pef drives the partitioned Elias-Fano index tools. Its index is
// exported from the MG4J index, so MG4J must be built first.
package pef

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
	"github.com/DjordjeVuckovic/indexbench/internal/engine/mg4j"
)

const (
	IndexFolderName  = "pefindex"
	DefaultIndexType = "opt"
	ResultsFile      = "pefresults.csv"

	creatorBinary = "create_freq_index"
	runnerBinary  = "Runner"

	collectionLog = "pef_build_collection.log"
	buildLog      = "pef_build_index.log"
	queriesLog    = "pef_run_queries.log"
)

type Config struct {
	// BinDir holds create_freq_index and Runner.
	BinDir    string
	IndexType string
	Toolkit   mg4j.Toolkit
}

type Engine struct {
	corpus *corpus.Corpus
	cfg    Config
}

func New(c *corpus.Corpus, cfg Config) *Engine {
	if cfg.IndexType == "" {
		cfg.IndexType = DefaultIndexType
	}
	return &Engine{corpus: c, cfg: cfg}
}

func (e *Engine) Kind() corpus.Kind {
	return corpus.KindPEF
}

func (e *Engine) IndexFolder() string {
	return e.corpus.Layout().IndexFolder(IndexFolderName)
}

func (e *Engine) collection() string {
	return filepath.Join(e.IndexFolder(), "index")
}

// IndexFile is the final PEF index, index.<type>.
func (e *Engine) IndexFile() string {
	return filepath.Join(e.IndexFolder(), "index."+e.cfg.IndexType)
}

// CollectionDocs is the docs file of the exported collection. Its presence
// marks a finished export.
func (e *Engine) CollectionDocs() string {
	return e.collection() + ".docs"
}

// BuildIndex exports the MG4J index as a collection and compresses it into a
// PEF index. Each stage is skipped when its output file exists.
func (e *Engine) BuildIndex() ([]corpus.Result, error) {
	name := e.Kind().String()
	var results []corpus.Result

	if docs := e.CollectionDocs(); corpus.Exists(docs) {
		results = append(results, e.corpus.Skip(name, "export", docs))
	} else {
		res, err := e.ExportCollection()
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}

	if index := e.IndexFile(); corpus.Exists(index) {
		return append(results, e.corpus.Skip(name, "index", index)), nil
	}
	res, err := e.CreateIndex()
	return append(results, res), err
}

// ExportCollection always exports the MG4J index into the pefindex folder.
func (e *Engine) ExportCollection() (corpus.Result, error) {
	if err := os.MkdirAll(e.IndexFolder(), 0o755); err != nil {
		return corpus.Result{}, fmt.Errorf("create pef index folder: %w", err)
	}

	mg4jBasename := filepath.Join(e.corpus.Layout().IndexFolder(mg4j.IndexFolderName), mg4j.IndexBasename)
	cmd := e.cfg.Toolkit.Command(fmt.Sprintf("org.bitfunnel.reproducibility.IndexExporter %s %s --index",
		mg4jBasename, e.collection()))
	return e.corpus.RunStage(e.corpus.Experiment(), e.Kind().String(), "export", cmd, collectionLog)
}

// CreateIndex always compresses the exported collection into index.<type>.
func (e *Engine) CreateIndex() (corpus.Result, error) {
	cmd := fmt.Sprintf("%s %s %s %s",
		filepath.Join(e.cfg.BinDir, creatorBinary), e.cfg.IndexType, e.collection(), e.IndexFile())
	return e.corpus.RunStage(e.corpus.Experiment(), e.Kind().String(), "index", cmd, buildLog)
}

func (e *Engine) RunQueries(exp corpus.Experiment, queryLog string, threads corpus.ThreadRange) ([]corpus.Result, error) {
	cmd := fmt.Sprintf("%s %s %s %s %d %s",
		filepath.Join(e.cfg.BinDir, runnerBinary),
		e.cfg.IndexType,
		e.IndexFile(),
		e.corpus.Layout().QueryLog(queryLog),
		threads.Min,
		filepath.Join(exp.Dir, ResultsFile))
	res, err := e.corpus.RunStage(exp, e.Kind().String(), "queries", cmd, queriesLog)
	return []corpus.Result{res}, err
}
