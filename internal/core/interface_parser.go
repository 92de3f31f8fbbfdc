package core

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"skerry/internal/types"
)

// interfaceParser parses interface declarations against the set of type
// declarations produced by the earlier phase.  Named responses resolve
// immediately; interfaces always parse after all types.
type interfaceParser struct {
	tracker  *usageTracker
	declared []types.TypeResult
}

// parseFragment walks one composed fragment of the interfaces section.
// A fragment is either a bare sequence of declarations (imported files)
// or a mapping carrying a "declarations" sequence.
func (p *interfaceParser) parseFragment(node *yaml.Node, out *[]types.InterfaceResult) error {
	node = deref(node)
	var items []*yaml.Node
	switch {
	case isSequence(node):
		items = node.Content
	case isMapping(node):
		decls := deref(mappingValue(node, "declarations"))
		if decls == nil {
			return nil
		}
		if decls.Kind != yaml.SequenceNode {
			return types.ErrInvalidInterfaceDeclaration
		}
		items = decls.Content
	default:
		return types.ErrInvalidInputSource
	}
	for _, item := range items {
		item = deref(item)
		if isMapping(item) && hasMappingKey(item, importKey) {
			continue
		}
		decl, err := p.parse(item)
		if err != nil {
			*out = append(*out, types.InterfaceResult{Err: err})
			continue
		}
		*out = append(*out, types.InterfaceResult{Decl: decl})
	}
	return nil
}

func (p *interfaceParser) parse(node *yaml.Node) (types.InterfaceDecl, error) {
	if !isMapping(node) {
		return types.InterfaceDecl{}, types.ErrInvalidInterfaceDeclaration
	}
	path, ok := scalarString(mappingValue(node, "path"))
	if !ok {
		return types.InterfaceDecl{}, types.ErrInvalidPath
	}
	params, err := pathParams(path)
	if err != nil {
		return types.InterfaceDecl{}, err
	}
	method, err := parseMethod(node)
	if err != nil {
		return types.InterfaceDecl{}, err
	}
	payload, err := p.parsePayload(method, path, node)
	if err != nil {
		return types.InterfaceDecl{}, err
	}
	responses, err := p.parseResponses(path, node)
	if err != nil {
		return types.InterfaceDecl{}, err
	}
	return types.InterfaceDecl{
		Path:   path,
		Params: params,
		Spec: types.APISpec{
			Method:    method,
			Payload:   payload,
			Responses: responses,
		},
	}, nil
}

// pathParams extracts the ordered {param} captures from a path template.
// Captures do not nest; an empty capture is an error.
func pathParams(path string) ([]string, error) {
	var params []string
	var current strings.Builder
	reading := false
	for _, r := range path {
		switch r {
		case '{':
			reading = true
		case '}':
			if current.Len() == 0 {
				return nil, types.ErrEmptyPathParam
			}
			params = append(params, current.String())
			current.Reset()
			reading = false
		default:
			if reading {
				current.WriteRune(r)
			}
		}
	}
	return params, nil
}

func parseMethod(node *yaml.Node) (types.HTTPMethod, error) {
	raw, ok := scalarString(mappingValue(node, "method"))
	if !ok {
		return "", &types.InvalidMethodError{}
	}
	switch types.HTTPMethod(raw) {
	case types.MethodGet, types.MethodPost, types.MethodPut,
		types.MethodDelete, types.MethodPatch, types.MethodHead:
		return types.HTTPMethod(raw), nil
	default:
		return "", &types.InvalidMethodError{Method: raw}
	}
}

// parsePayload applies the method-dependent legality rules.  For delete
// the query check runs first, so an interface carrying both illegal keys
// reports query-not-allowed.
func (p *interfaceParser) parsePayload(method types.HTTPMethod, path string, node *yaml.Node) (*types.HTTPPayload, error) {
	switch method {
	case types.MethodGet, types.MethodHead:
		if hasMappingKey(node, "body") {
			return nil, types.ErrBodyNotAllowed
		}
		return p.payloadIfPresent(node, path, types.PayloadQuery, types.ErrInvalidQuery)
	case types.MethodPost, types.MethodPut, types.MethodPatch:
		if hasMappingKey(node, "query") {
			return nil, types.ErrQueryNotAllowed
		}
		return p.payloadIfPresent(node, path, types.PayloadBody, types.ErrInvalidBody)
	default: // delete
		if hasMappingKey(node, "query") {
			return nil, types.ErrQueryNotAllowed
		}
		if hasMappingKey(node, "body") {
			return nil, types.ErrBodyNotAllowed
		}
		return nil, nil
	}
}

func (p *interfaceParser) payloadIfPresent(node *yaml.Node, path string, kind types.PayloadKind, invalid error) (*types.HTTPPayload, error) {
	value := mappingValue(node, string(kind))
	if value == nil {
		return nil, nil
	}
	if !isMapping(value) {
		return nil, invalid
	}
	parser := &typeParser{tracker: p.tracker}
	site := types.UsageSite{Context: types.UsagePayload, Decl: path}
	decl, err := parser.parseDecl(string(kind), value, site, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", invalid, err)
	}
	return &types.HTTPPayload{Kind: kind, Properties: decl.Properties}, nil
}

// parseResponses handles the three legal response shapes: absent, a bare
// string naming a declared type, or a mapping that is either status-coded
// or itself the implicit 200 body.
func (p *interfaceParser) parseResponses(path string, node *yaml.Node) (map[types.StatusCode]types.TypeDecl, error) {
	value := deref(mappingValue(node, "response"))
	if value == nil {
		return nil, nil
	}
	switch value.Kind {
	case yaml.ScalarNode:
		name, ok := scalarString(value)
		if !ok {
			return nil, types.ErrInvalidResponse
		}
		decl, found := p.lookupType(name)
		if !found {
			return nil, &types.TypeNotFoundError{Name: name}
		}
		return map[types.StatusCode]types.TypeDecl{types.Fixed(200): decl}, nil
	case yaml.MappingNode:
		if !hasStatusKeys(value) {
			decl, err := p.responseBody(path, types.Fixed(200), value)
			if err != nil {
				return nil, err
			}
			return map[types.StatusCode]types.TypeDecl{types.Fixed(200): decl}, nil
		}
		return p.statusCodedResponses(path, value)
	default:
		return nil, types.ErrInvalidResponse
	}
}

// hasStatusKeys reports whether any key of the mapping looks like a
// status-code pattern, i.e. starts with a digit.
func hasStatusKeys(node *yaml.Node) bool {
	found := false
	_ = mappingPairs(node, func(key, _ *yaml.Node) error {
		if text, ok := scalarKey(key); ok && text != "" && text[0] >= '0' && text[0] <= '9' {
			found = true
		}
		return nil
	})
	return found
}

func (p *interfaceParser) statusCodedResponses(path string, node *yaml.Node) (map[types.StatusCode]types.TypeDecl, error) {
	responses := make(map[types.StatusCode]types.TypeDecl)
	err := mappingPairs(node, func(key, value *yaml.Node) error {
		text, ok := scalarKey(key)
		if !ok {
			return types.ErrInvalidStatusKey
		}
		code, err := parseStatusKey(text)
		if err != nil {
			return err
		}
		decl, err := p.responseValue(path, code, value)
		if err != nil {
			return err
		}
		responses[code] = decl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// parseStatusKey accepts exactly a 3-digit fixed code ("404") or a
// single digit followed by literal "xx" ("4xx").
func parseStatusKey(text string) (types.StatusCode, error) {
	if len(text) != 3 {
		return types.StatusCode{}, types.ErrInvalidStatusCode
	}
	if text[0] < '0' || text[0] > '9' {
		return types.StatusCode{}, types.ErrInvalidStatusCode
	}
	if text[1] == 'x' && text[2] == 'x' {
		return types.Prefix(uint16(text[0] - '0')), nil
	}
	var code uint16
	for i := 0; i < 3; i++ {
		if text[i] < '0' || text[i] > '9' {
			return types.StatusCode{}, types.ErrInvalidStatusCode
		}
		code = code*10 + uint16(text[i]-'0')
	}
	return types.Fixed(code), nil
}

// responseValue resolves one status-coded response value: a nested
// property mapping or the name of a declared type.
func (p *interfaceParser) responseValue(path string, code types.StatusCode, node *yaml.Node) (types.TypeDecl, error) {
	node = deref(node)
	if node == nil {
		return types.TypeDecl{}, types.ErrInvalidResponse
	}
	switch node.Kind {
	case yaml.MappingNode:
		return p.responseBody(path, code, node)
	case yaml.ScalarNode:
		name, ok := scalarString(node)
		if !ok {
			return types.TypeDecl{}, types.ErrInvalidResponse
		}
		decl, found := p.lookupType(name)
		if !found {
			return types.TypeDecl{}, &types.TypeNotFoundError{Name: name}
		}
		return decl, nil
	default:
		return types.TypeDecl{}, types.ErrInvalidResponse
	}
}

// responseBody parses an anonymous response record named after its
// status key.
func (p *interfaceParser) responseBody(path string, code types.StatusCode, node *yaml.Node) (types.TypeDecl, error) {
	parser := &typeParser{tracker: p.tracker}
	site := types.UsageSite{Context: types.UsageResponse, Decl: path, Status: code}
	decl, err := parser.parseDecl(code.Key(), node, site, 0)
	if err != nil {
		return types.TypeDecl{}, fmt.Errorf("%w: %v", types.ErrInvalidResponse, err)
	}
	return decl, nil
}

// lookupType finds a previously declared type by exact name.  The copy
// keeps the caller's name so aliased declarations render consistently.
func (p *interfaceParser) lookupType(name string) (types.TypeDecl, bool) {
	for _, result := range p.declared {
		if result.Err == nil && result.Decl.Name == name {
			return types.TypeDecl{Name: name, Properties: result.Decl.Properties}, true
		}
	}
	return types.TypeDecl{}, false
}
