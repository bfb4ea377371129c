package phrasekit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Loader discovers and parses the raw trees backing a logical source name
// under a locale. Implementations must return trees in a deterministic order,
// since the order defines merge precedence, and must return (nil, nil) when
// nothing matches. Returned trees are owned by the caller afterwards.
type Loader interface {
	Load(locale, source string) ([]Tree, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc func(locale, source string) ([]Tree, error)

// Load calls f.
func (f LoaderFunc) Load(locale, source string) ([]Tree, error) {
	return f(locale, source)
}

// sourceExts lists the recognized file extensions in discovery order.
var sourceExts = []string{".json", ".yaml", ".yml", ".toml"}

// DirLoader loads message sources from one or more filesystem roots.
// File convention: {locale}/{source}.{json,yaml,yml,toml}
//
// Example structure:
//
//	en/validation.yaml
//	en/errors.json
//	fr-FR/validation.yaml
//
// Discovery walks the roots in the order given, and within a root tries the
// extensions in a fixed order, so overriding roots should be listed last.
type DirLoader struct {
	roots []fs.FS
}

// NewDirLoader creates a DirLoader over the given filesystem roots.
// Use os.DirFS for directories on disk or an embed.FS subtree.
func NewDirLoader(roots ...fs.FS) *DirLoader {
	return &DirLoader{roots: roots}
}

// Load reads every file matching {locale}/{source}.{ext} across the roots,
// in discovery order.
func (l *DirLoader) Load(locale, source string) ([]Tree, error) {
	var found []Tree

	for _, root := range l.roots {
		for _, ext := range sourceExts {
			filePath := path.Join(locale, source+ext)

			data, err := fs.ReadFile(root, filePath)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("reading %q: %w", filePath, err)
			}

			var raw map[string]any
			if err := unmarshalSource(ext, data, &raw); err != nil {
				return nil, fmt.Errorf("%w: parsing %q: %s", ErrMalformedSource, filePath, err)
			}

			tree, err := normalizeTree(raw)
			if err != nil {
				return nil, fmt.Errorf("%w in %q", err, filePath)
			}

			found = append(found, tree)
		}
	}

	return found, nil
}

func unmarshalSource(ext string, data []byte, v *map[string]any) error {
	switch ext {
	case ".json":
		return json.Unmarshal(data, v)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	case ".toml":
		return toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported extension %q", ext)
	}
}
