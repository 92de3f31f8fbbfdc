package core

import "gopkg.in/yaml.v3"

// deref follows alias nodes so parsers only ever see concrete kinds.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isMapping(n *yaml.Node) bool {
	n = deref(n)
	return n != nil && n.Kind == yaml.MappingNode
}

func isSequence(n *yaml.Node) bool {
	n = deref(n)
	return n != nil && n.Kind == yaml.SequenceNode
}

// scalarString returns the value of a string scalar.  Scalars with a
// non-string tag (numbers, booleans) do not qualify.
func scalarString(n *yaml.Node) (string, bool) {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", false
	}
	if n.Tag != "" && n.Tag != "!!str" {
		return "", false
	}
	return n.Value, true
}

// scalarKey returns the textual form of a mapping key that may be
// written as a string or an integer, e.g. response status codes.
func scalarKey(n *yaml.Node) (string, bool) {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", false
	}
	switch n.Tag {
	case "", "!!str", "!!int":
		return n.Value, true
	default:
		return "", false
	}
}

// mappingValue returns the value node for key, or nil when the mapping
// has no such key.  n must be a mapping node.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k, ok := scalarString(n.Content[i]); ok && k == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func hasMappingKey(n *yaml.Node, key string) bool {
	return mappingValue(n, key) != nil
}

// Section returns the named top-level section of a schema document.
func Section(root *yaml.Node, name string) (*yaml.Node, bool) {
	section := mappingValue(root, name)
	if section == nil {
		return nil, false
	}
	return section, true
}

// mappingPairs iterates a mapping in source order.  The callback gets
// the raw key node so callers decide how strict to be about key kinds.
func mappingPairs(n *yaml.Node, fn func(key, value *yaml.Node) error) error {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i], n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
