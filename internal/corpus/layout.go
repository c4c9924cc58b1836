package corpus

import "path/filepath"

// Folder names shared by every engine. Engines discover each other's
// artifacts through these conventions, so they are fixed.
const (
	DocsFolderName      = "docs"
	ConfigFolderName    = "config"
	DefaultChunksFolder = "chunks"
	DefaultManifest     = "manifest.txt"
	DefaultExperiment   = "experiment"
	manifestSuffix      = "_manifest.txt"
)

// Layout holds the path conventions of a corpus:
//
//	<data>
//	|-- docs
//	|   |-- manifest.txt
//	|   |-- chunks
//	|   |-- config
//	|   |-- <engine>index
//	|-- <experiment>[_<threads>]
type Layout struct {
	DataFolder   string
	DocsFolder   string
	ChunksFolder string
	Manifest     string
}

func NewLayout(dataFolder string) Layout {
	docs := filepath.Join(dataFolder, DocsFolderName)
	return Layout{
		DataFolder:   dataFolder,
		DocsFolder:   docs,
		ChunksFolder: filepath.Join(docs, DefaultChunksFolder),
		Manifest:     filepath.Join(docs, DefaultManifest),
	}
}

func (l Layout) ConfigFolder() string {
	return filepath.Join(l.DocsFolder, ConfigFolderName)
}

func (l Layout) IndexFolder(name string) string {
	return filepath.Join(l.DocsFolder, name)
}

// QueryLog resolves a query log given relative to the data folder.
func (l Layout) QueryLog(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(l.DataFolder, rel)
}

func (l Layout) withChunks(folder, manifest string) Layout {
	if manifest == "" {
		manifest = folder + manifestSuffix
	}
	l.ChunksFolder = filepath.Join(l.DocsFolder, folder)
	l.Manifest = filepath.Join(l.DocsFolder, manifest)
	return l
}
