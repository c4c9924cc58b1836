// Package bitfunnel drives the BitFunnel executable: corpus statistics,
// term table construction, chunk filtering and the scripted query repl.
package bitfunnel

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
)

const (
	DefaultDensity   = 0.15
	DefaultTreatment = "Optimal"

	DocFreqTable = "DocFreqTable-0.csv"
	TermTable    = "TermTable-0.bin"
	ScriptName   = "repl.script"
	ChunkList    = "Manifest.txt"

	statisticsLog = "bf_run_statistics.log"
	termTablesLog = "bf_build_termtables.log"
	queriesLog    = "bf_run_queries.log"
	copyChunksLog = "bf_copy_chunks.log"
)

type Config struct {
	Executable string
	// Memory is passed as -memory when set.
	Memory    string
	Density   float64
	Treatment string
}

type Engine struct {
	corpus *corpus.Corpus
	cfg    Config
}

func New(c *corpus.Corpus, cfg Config) *Engine {
	if cfg.Density <= 0 {
		cfg.Density = DefaultDensity
	}
	if cfg.Treatment == "" {
		cfg.Treatment = DefaultTreatment
	}
	return &Engine{corpus: c, cfg: cfg}
}

func (e *Engine) Kind() corpus.Kind {
	return corpus.KindBitFunnel
}

func (e *Engine) name() string {
	return e.Kind().String()
}

func (e *Engine) configFolder() string {
	return e.corpus.Layout().ConfigFolder()
}

// BuildIndex collects statistics and then builds term tables, each only
// when its artifact is missing from the config folder.
func (e *Engine) BuildIndex() ([]corpus.Result, error) {
	config := e.configFolder()
	var results []corpus.Result

	docFreq := filepath.Join(config, DocFreqTable)
	if corpus.Exists(docFreq) {
		results = append(results, e.corpus.Skip(e.name(), "statistics", docFreq))
	} else {
		res, err := e.RunStatistics()
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}

	termTable := filepath.Join(config, TermTable)
	if corpus.Exists(termTable) {
		results = append(results, e.corpus.Skip(e.name(), "termtable", termTable))
		return results, nil
	}
	res, err := e.BuildTermTables()
	results = append(results, res)
	return results, err
}

// RunStatistics always runs, even when statistics were collected before.
func (e *Engine) RunStatistics() (corpus.Result, error) {
	config := e.configFolder()
	if err := os.MkdirAll(config, 0o755); err != nil {
		return corpus.Result{}, fmt.Errorf("create config folder: %w", err)
	}

	cmd := fmt.Sprintf("%s statistics %s %s -text", e.cfg.Executable, e.corpus.Layout().Manifest, config)
	return e.corpus.RunStage(e.corpus.Experiment(), e.name(), "statistics", cmd, statisticsLog)
}

// BuildTermTables always runs, even when term tables were built before.
func (e *Engine) BuildTermTables() (corpus.Result, error) {
	cmd := fmt.Sprintf("%s termtable %s %g %s", e.cfg.Executable, e.configFolder(), e.cfg.Density, e.cfg.Treatment)
	return e.corpus.RunStage(e.corpus.Experiment(), e.name(), "termtable", cmd, termTablesLog)
}

// RunQueries writes a repl script covering every thread count of threads and
// runs it in a single invocation. For a sweep each count gets its own
// <experiment>_<threads> folder.
func (e *Engine) RunQueries(exp corpus.Experiment, queryLog string, threads corpus.ThreadRange) ([]corpus.Result, error) {
	layout := e.corpus.Layout()

	script := Script{
		LoadThreads: threads.Max,
		Manifest:    layout.Manifest,
		QueryLog:    layout.QueryLog(queryLog),
	}
	for _, t := range threads.Counts() {
		dir := exp.Dir
		if threads.IsSweep() {
			sub := exp.WithThreads(t)
			if err := sub.Ensure(); err != nil {
				return nil, err
			}
			dir = sub.Dir
		}
		script.Steps = append(script.Steps, Step{Threads: t, Dir: dir})
	}

	path := filepath.Join(exp.Dir, ScriptName)
	if err := script.Save(path); err != nil {
		return nil, err
	}

	cmd := fmt.Sprintf("%s repl %s -script %s", e.cfg.Executable, e.configFolder(), path)
	if e.cfg.Memory != "" {
		cmd += " -memory " + e.cfg.Memory
	}
	res, err := e.corpus.RunStage(exp, e.name(), "queries", cmd, queriesLog)
	return []corpus.Result{res}, err
}

// CopyChunks writes a filtered copy of the current chunks into
// <data>/<folder>/chunks and makes it the active docs folder. Filter is passed
// to "bitfunnel filter" verbatim, e.g. "-size 256 4095" or "-random 4301 0.25".
// When annotate is set it names the writer that injects shard terms.
// Nothing is copied if the folder already exists.
func (e *Engine) CopyChunks(folder, filter, annotate string) (corpus.Result, error) {
	layout := e.corpus.Layout()
	docs := filepath.Join(layout.DataFolder, folder)
	chunks := filepath.Join(docs, corpus.DefaultChunksFolder)

	var (
		res corpus.Result
		err error
	)
	if corpus.Exists(docs) {
		res = e.corpus.Skip(e.name(), "copy-chunks", docs)
	} else {
		if err := os.MkdirAll(chunks, 0o755); err != nil {
			return corpus.Result{}, fmt.Errorf("create chunks folder: %w", err)
		}
		cmd := fmt.Sprintf("%s filter %s %s %s", e.cfg.Executable, layout.Manifest, chunks, filter)
		if annotate != "" {
			cmd += " -writer " + annotate
		}
		res, err = e.corpus.RunStage(e.corpus.Experiment(), e.name(), "copy-chunks", cmd, copyChunksLog)
		if err != nil {
			return res, err
		}
	}

	e.corpus.UseDocsFolder(folder)
	if err := e.corpus.ConfigureChunks(corpus.DefaultChunksFolder, filepath.Join(corpus.DefaultChunksFolder, ChunkList)); err != nil {
		return res, err
	}
	return res, nil
}
