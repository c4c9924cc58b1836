package session

import (
	"fmt"
	"os"
	"regexp"

	"github.com/DjordjeVuckovic/indexbench/internal/apperr"
	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
	"gopkg.in/yaml.v3"
)

// Override adjusts a decoded session before it is validated, e.g. with
// command line flags.
type Override func(*Session)

func LoadFromFile(path string, overrides ...Override) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return Parse(data, overrides...)
}

func Parse(data []byte, overrides ...Override) (*Session, error) {
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session YAML: %w", err)
	}
	for _, o := range overrides {
		o(&s)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func validate(s *Session) error {
	if s.Data == "" {
		return apperr.NewValidation("session has no data folder")
	}
	if len(s.Engines) == 0 {
		return apperr.NewValidation("session has no engines")
	}
	if _, err := corpus.ParsePolicy(s.Policy); err != nil {
		return apperr.NewValidationWrap("invalid policy", err)
	}

	hasBitFunnel := false
	for i, eng := range s.Engines {
		if eng.Type == "" {
			return apperr.NewValidation(fmt.Sprintf("engine at index %d has no type", i))
		}
		kind, err := corpus.ParseKind(eng.Type)
		if err != nil {
			return apperr.NewValidationWrap(fmt.Sprintf("engine at index %d", i), err)
		}
		switch kind {
		case corpus.KindBitFunnel:
			hasBitFunnel = true
			if eng.Executable == "" {
				return apperr.NewValidation("bitfunnel engine has no executable")
			}
			if eng.Density < 0 || eng.Density > 1 {
				return apperr.NewValidation(fmt.Sprintf("bitfunnel density %g is outside [0, 1]", eng.Density))
			}
		case corpus.KindMG4J:
			if eng.Workbench == "" {
				return apperr.NewValidation("mg4j engine has no workbench")
			}
		case corpus.KindPEF:
			if eng.BinDir == "" {
				return apperr.NewValidation("pef engine has no bin_dir")
			}
			if eng.Workbench == "" {
				return apperr.NewValidation("pef engine has no workbench")
			}
		}
	}

	if s.CopyChunks != nil {
		if !hasBitFunnel {
			return apperr.NewValidation("copy_chunks requires a bitfunnel engine")
		}
		if s.CopyChunks.Folder == "" {
			return apperr.NewValidation("copy_chunks has no folder")
		}
	}

	if s.Experiment == "" {
		s.Experiment = corpus.DefaultExperiment
	}
	if s.Chunks.Folder == "" {
		s.Chunks.Folder = corpus.DefaultChunksFolder
	}
	if s.Chunks.Pattern != "" {
		if _, err := regexp.Compile(s.Chunks.Pattern); err != nil {
			return apperr.NewValidationWrap("invalid chunks.pattern", err)
		}
	}
	if s.Chunks.Manifest == "" && s.Chunks.Folder == corpus.DefaultChunksFolder {
		s.Chunks.Manifest = corpus.DefaultManifest
	}
	if s.Queries.MinThreads <= 0 {
		s.Queries.MinThreads = 1
	}
	if s.Queries.MaxThreads != nil && *s.Queries.MaxThreads < s.Queries.MinThreads {
		return apperr.NewValidation(fmt.Sprintf("max_threads %d is below min_threads %d", *s.Queries.MaxThreads, s.Queries.MinThreads))
	}
	return nil
}
