package stage

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed stages/*.yaml
var embedded embed.FS

// Loader loads stage definitions from a file system.
type Loader struct {
	fsys fs.FS
	root string
}

// NewLoader creates a loader reading YAML files under dir on disk.
func NewLoader(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir), root: "."}
}

// EmbeddedLoader returns a loader for the built-in stages.
func EmbeddedLoader() *Loader {
	return &Loader{fsys: embedded, root: "stages"}
}

// LoadAll scans the loader root recursively and loads every stage file.
// Unlike a best-effort scan, an invalid file fails the whole load so that
// broken stage data is never silently skipped.
// Results are sorted by stage index, then id.
func (l *Loader) LoadAll() ([]Definition, error) {
	var defs []Definition

	err := fs.WalkDir(l.fsys, l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isStageFile(p) {
			return nil
		}
		def, err := l.LoadFile(p)
		if err != nil {
			return err
		}
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("stage: load %s: %w", l.root, err)
	}

	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Index != defs[j].Index {
			return defs[i].Index < defs[j].Index
		}
		return defs[i].ID < defs[j].ID
	})
	return defs, nil
}

// LoadFile loads and validates a single stage file.
func (l *Loader) LoadFile(p string) (Definition, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Definition{}, fmt.Errorf("reading file %s: %w", p, err)
	}
	def, err := Parse(data)
	if err != nil {
		return Definition{}, fmt.Errorf("parsing file %s: %w", p, err)
	}
	return def, nil
}

// Parse decodes one stage document, expands its authoring shortcuts and
// validates the result.
func Parse(data []byte) (Definition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Definition{}, err
	}
	def := doc.build()
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

func isStageFile(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return ext == ".yaml" || ext == ".yml"
}
