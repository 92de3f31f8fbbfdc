package core

import (
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"skerry/internal/ports"
	"skerry/internal/types"
)

// importKey is the reserved directive that pulls foreign fragments into
// a section before parsing.
const importKey = "_import"

// fragment is one resolved unit of composed source: either a loaded
// document node or the failure that stands in for it.  Failures are
// per-fragment so one bad path never hides its siblings.
type fragment struct {
	node *yaml.Node
	path string
	err  error
}

// importResolver expands _import directives against a document loader.
// It remembers which files it has loaded so chained imports cannot loop.
type importResolver struct {
	loader  ports.DocumentLoader
	visited map[string]struct{}
}

func newImportResolver(loader ports.DocumentLoader) *importResolver {
	return &importResolver{
		loader:  loader,
		visited: make(map[string]struct{}),
	}
}

// resolve returns the fragments imported by node, in declaration order.
// The node's own body is not included; callers parse it first, then the
// imports, because later declarations may override earlier ones.
func (r *importResolver) resolve(node *yaml.Node, baseDir string) ([]fragment, error) {
	if !isMapping(node) {
		return nil, types.ErrInvalidInputSource
	}
	value := deref(mappingValue(node, importKey))
	if value == nil {
		return nil, nil
	}
	switch value.Kind {
	case yaml.ScalarNode:
		path, ok := scalarString(value)
		if !ok {
			return []fragment{{err: types.ErrInvalidImportValue}}, nil
		}
		return r.load(baseDir, path), nil
	case yaml.SequenceNode:
		var frags []fragment
		for _, item := range value.Content {
			path, ok := scalarString(item)
			if !ok {
				frags = append(frags, fragment{err: types.ErrInvalidImportValue})
				continue
			}
			frags = append(frags, r.load(baseDir, path)...)
		}
		return frags, nil
	default:
		return []fragment{{err: types.ErrInvalidImportValue}}, nil
	}
}

// load reads one imported file and follows any _import directive it
// carries in turn.  The imported fragment comes first, its own imports
// after it, preserving declaration order across the chain.
func (r *importResolver) load(baseDir, rel string) []fragment {
	full := filepath.Join(baseDir, rel)
	if _, seen := r.visited[full]; seen {
		log.Debug().Str("path", full).Msg("import already loaded, skipping")
		return nil
	}
	r.visited[full] = struct{}{}
	node, err := r.loader.Load(full)
	if err != nil {
		return []fragment{{path: full, err: &types.ImportReadError{Path: full, Err: err}}}
	}
	log.Debug().Str("path", full).Msg("import resolved")
	out := []fragment{{node: node, path: full}}
	if isMapping(node) && hasMappingKey(node, importKey) {
		nested, err := r.resolve(node, filepath.Dir(full))
		if err == nil {
			out = append(out, nested...)
		}
	}
	return out
}
