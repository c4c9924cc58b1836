package session

import (
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
	"github.com/DjordjeVuckovic/indexbench/internal/engine/bitfunnel"
	"github.com/DjordjeVuckovic/indexbench/internal/engine/mg4j"
	"github.com/DjordjeVuckovic/indexbench/internal/engine/pef"
)

// Open builds the corpus described by s: experiment folder, chunks and
// manifest, the optional filtered chunk copy, and every engine registered in
// file order.
func Open(s *Session, opts ...corpus.Option) (*corpus.Corpus, error) {
	policy, err := corpus.ParsePolicy(s.Policy)
	if err != nil {
		return nil, err
	}

	c, err := corpus.New(s.Data, append([]corpus.Option{corpus.WithPolicy(policy)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	if err := c.SetExperiment(s.Experiment); err != nil {
		return nil, err
	}

	if s.Chunks.Pattern != "" {
		err = c.ManifestFromPattern(s.Chunks.Folder, s.Chunks.Manifest, s.Chunks.Pattern)
	} else {
		err = c.ConfigureChunks(s.Chunks.Folder, s.Chunks.Manifest)
	}
	if err != nil {
		return nil, fmt.Errorf("configure chunks: %w", err)
	}

	var bf *bitfunnel.Engine
	for _, eng := range s.Engines {
		e, err := newEngine(c, eng)
		if err != nil {
			return nil, err
		}
		if b, ok := e.(*bitfunnel.Engine); ok {
			bf = b
		}
		c.Register(e)
		slog.Info("engine registered", "kind", e.Kind())
	}

	if s.CopyChunks != nil {
		if _, err := bf.CopyChunks(s.CopyChunks.Folder, s.CopyChunks.Filter, s.CopyChunks.Annotate); err != nil {
			return nil, fmt.Errorf("copy chunks: %w", err)
		}
	}

	return c, nil
}

func newEngine(c *corpus.Corpus, eng Engine) (corpus.Engine, error) {
	kind, err := corpus.ParseKind(eng.Type)
	if err != nil {
		return nil, err
	}

	switch kind {
	case corpus.KindBitFunnel:
		return bitfunnel.New(c, bitfunnel.Config{
			Executable: eng.Executable,
			Memory:     eng.Memory,
			Density:    eng.Density,
			Treatment:  eng.Treatment,
		}), nil
	case corpus.KindMG4J:
		return mg4j.New(c, mg4j.NewToolkit(eng.Workbench, eng.Heap)), nil
	case corpus.KindPEF:
		return pef.New(c, pef.Config{
			BinDir:    eng.BinDir,
			IndexType: eng.IndexType,
			Toolkit:   mg4j.NewToolkit(eng.Workbench, eng.Heap),
		}), nil
	default:
		return nil, fmt.Errorf("unsupported engine kind %s", kind)
	}
}
