package session

import "github.com/DjordjeVuckovic/indexbench/internal/corpus"

type Session struct {
	Data       string        `yaml:"data"`
	Experiment string        `yaml:"experiment"`
	Policy     string        `yaml:"policy"`
	Chunks     ChunksConfig  `yaml:"chunks"`
	CopyChunks *CopyConfig   `yaml:"copy_chunks,omitempty"`
	Engines    []Engine      `yaml:"engines"`
	Queries    QueriesConfig `yaml:"queries"`
}

type ChunksConfig struct {
	Folder   string `yaml:"folder"`
	Manifest string `yaml:"manifest"`
	// Pattern, when set, builds the manifest from chunk files whose name matches it.
	Pattern string `yaml:"pattern,omitempty"`
}

type CopyConfig struct {
	Folder   string `yaml:"folder"`
	Filter   string `yaml:"filter"`
	Annotate string `yaml:"annotate,omitempty"`
}

type Engine struct {
	Type string `yaml:"type"`

	// bitfunnel
	Executable string  `yaml:"executable,omitempty"`
	Memory     string  `yaml:"memory,omitempty"`
	Density    float64 `yaml:"density,omitempty"`
	Treatment  string  `yaml:"treatment,omitempty"`

	// mg4j and pef
	Workbench string `yaml:"workbench,omitempty"`
	Heap      string `yaml:"heap,omitempty"`

	// pef
	BinDir    string `yaml:"bin_dir,omitempty"`
	IndexType string `yaml:"index_type,omitempty"`
}

type QueriesConfig struct {
	Log        string `yaml:"log"`
	MinThreads int    `yaml:"min_threads"`
	MaxThreads *int   `yaml:"max_threads,omitempty"`
}

func (q QueriesConfig) Threads() corpus.ThreadRange {
	if q.MaxThreads == nil {
		return corpus.Single(q.MinThreads)
	}
	return corpus.Sweep(q.MinThreads, *q.MaxThreads)
}
