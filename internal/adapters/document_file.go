package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// DocumentFileAdapter implements ports.DocumentLoader on top of local
// YAML files.
type DocumentFileAdapter struct{}

func NewDocumentFileAdapter() DocumentFileAdapter {
	return DocumentFileAdapter{}
}

// Load reads and parses one YAML document, returning its root content
// node so callers never deal with the document wrapper.
func (a DocumentFileAdapter) Load(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read schema document: " + path).
			WithCause(err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse schema document: " + path).
			WithCause(err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("schema document is empty: " + path)
		}
		root = root.Content[0]
	}
	if root.Kind == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema document is empty: " + path)
	}
	log.Debug().
		Str("path", path).
		Int("bytes", len(data)).
		Msg("document loaded")
	return root, nil
}
