package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// docNode parses a YAML snippet and returns its root content node, the
// same shape the document loader hands to the parsers.
func docNode(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	require.NotEmpty(t, doc.Content)
	return doc.Content[0]
}

// fakeLoader serves documents from memory so import resolution tests
// never touch the filesystem.
type fakeLoader struct {
	docs map[string]string
}

func (f fakeLoader) Load(path string) (*yaml.Node, error) {
	src, ok := f.docs[path]
	if !ok {
		return nil, fmt.Errorf("no such document: %s", path)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document: %s", path)
	}
	return doc.Content[0], nil
}
