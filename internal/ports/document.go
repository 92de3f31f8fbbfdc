package ports

import "gopkg.in/yaml.v3"

// DocumentLoader turns a file path into a hierarchical document tree.
// The returned node is the root content of the document (mapping,
// sequence, or scalar), never the surrounding document node.
//
// Parsers only consume the node tree; where the bytes come from is the
// adapter's concern, which keeps import resolution testable without a
// filesystem.
type DocumentLoader interface {
	Load(path string) (*yaml.Node, error)
}
