package core

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"skerry/internal/types"
)

// typeParser turns type declaration groups into TypeDecls, recording
// every named reference in the shared usage tracker.  It is reused by
// the interface parser for query/body/response property lists.
type typeParser struct {
	tracker *usageTracker
}

// parseFragment parses one composed fragment of the types section into
// per-declaration results.  A malformed declaration becomes one failed
// result; a fragment that is not a mapping at all aborts the fragment.
func (p *typeParser) parseFragment(node *yaml.Node, out *[]types.TypeResult) error {
	if !isMapping(node) {
		return types.ErrUnsupportedTypeDeclaration
	}
	return mappingPairs(node, func(key, value *yaml.Node) error {
		name, ok := scalarString(key)
		if !ok {
			return types.ErrUnsupportedKeyType
		}
		if name == importKey {
			return nil
		}
		site := types.UsageSite{Context: types.UsageTypeBody, Decl: name}
		decl, err := p.parseDecl(name, value, site, 0)
		if err != nil {
			*out = append(*out, types.TypeResult{Err: err})
			return nil
		}
		// The declaration overrides any unresolved-reference records
		// accumulated for this exact name.
		p.tracker.recordDeclaration(name)
		*out = append(*out, types.TypeResult{Decl: decl})
		return nil
	})
}

// parseDecl parses one declaration group: a mapping of property name to
// type expression or nested record.  Property failures are captured per
// property; only structural problems fail the whole declaration.
func (p *typeParser) parseDecl(name string, node *yaml.Node, site types.UsageSite, depth int) (types.TypeDecl, error) {
	if depth > maxNestingDepth {
		return types.TypeDecl{}, types.ErrNestingTooDeep
	}
	if !isMapping(node) {
		return types.TypeDecl{}, types.ErrUnsupportedTypeDeclaration
	}
	decl := types.TypeDecl{Name: name}
	err := mappingPairs(node, func(key, value *yaml.Node) error {
		propName, ok := scalarString(key)
		if !ok {
			return types.ErrUnsupportedKeyType
		}
		propSite := site
		propSite.Property = propName
		prop := types.PropertyDecl{Name: propName}
		typeDecl, err := p.parseProperty(propName, value, propSite, depth)
		if err != nil {
			prop.Err = err
		} else {
			prop.Type = typeDecl
		}
		decl.Properties = append(decl.Properties, prop)
		return nil
	})
	if err != nil {
		return types.TypeDecl{}, err
	}
	return decl, nil
}

// parseProperty resolves one property's type node: a string runs through
// the expression grammar, a nested mapping becomes an inline record that
// is always required.
func (p *typeParser) parseProperty(name string, node *yaml.Node, site types.UsageSite, depth int) (types.DataTypeDecl, error) {
	node = deref(node)
	if node == nil {
		return types.DataTypeDecl{}, types.ErrUnsupportedTypeDeclaration
	}
	switch node.Kind {
	case yaml.MappingNode:
		if len(node.Content) == 0 {
			return types.DataTypeDecl{}, types.ErrEmptyTypeDeclaration
		}
		inner, err := p.parseDecl(name, node, site, depth+1)
		if err != nil {
			return types.DataTypeDecl{}, fmt.Errorf("%w: %v", types.ErrUnsupportedTypeDeclaration, err)
		}
		return types.DataTypeDecl{
			Type:     types.InlineType{Decl: inner},
			Required: true,
		}, nil
	case yaml.ScalarNode:
		expr, ok := scalarString(node)
		if !ok {
			return types.DataTypeDecl{}, types.ErrUnsupportedTypeDeclaration
		}
		return parseTypeExpr(expr, func(refName string) {
			p.tracker.recordReference(refName, site)
		})
	default:
		return types.DataTypeDecl{}, types.ErrUnsupportedTypeDeclaration
	}
}
