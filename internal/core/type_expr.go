package core

import (
	"unicode"

	"skerry/internal/types"
)

// maxNestingDepth bounds bracket and inline-record recursion so a
// pathological input cannot exhaust the stack.
const maxNestingDepth = 32

var primitives = map[string]types.Primitive{
	"str":    types.PrimitiveStr,
	"bool":   types.PrimitiveBool,
	"int":    types.PrimitiveInt,
	"double": types.PrimitiveDouble,
}

// primitiveAliases are convenience names that lower to primitives.
var primitiveAliases = map[string]types.Primitive{
	"date_iso8601": types.PrimitiveStr,
	"url":          types.PrimitiveStr,
	"uuid":         types.PrimitiveStr,
	"timestamp":    types.PrimitiveInt,
}

// parseTypeExpr parses one textual type expression, e.g.
// "dict[int, array[user]]?".  ref is invoked for every named reference
// encountered anywhere in the expression.
func parseTypeExpr(expr string, ref func(name string)) (types.DataTypeDecl, error) {
	if expr == "" {
		return types.DataTypeDecl{}, types.ErrEmptyTypeDeclaration
	}
	cur := &exprCursor{input: []rune(expr)}
	shape, err := cur.parseShape(0, ref)
	if err != nil {
		return types.DataTypeDecl{}, err
	}
	required := true
	if cur.peek() == '?' {
		required = false
		cur.pos++
	}
	// Anything after the optionality marker is ignored; the grammar
	// leaves trailing garbage undefined rather than rejecting it.
	return types.DataTypeDecl{Type: shape, Required: required}, nil
}

// exprCursor walks an expression rune by rune.  Commas only split
// subtypes at bracket depth zero, so a regexp cannot do this job.
type exprCursor struct {
	input []rune
	pos   int
}

func (c *exprCursor) peek() rune {
	if c.pos < len(c.input) {
		return c.input[c.pos]
	}
	return 0
}

// readName consumes a maximal [A-Za-z_][A-Za-z0-9_]* run.
func (c *exprCursor) readName() string {
	start := c.pos
	for c.pos < len(c.input) {
		r := c.input[c.pos]
		if r == '_' || unicode.IsLetter(r) || (c.pos > start && unicode.IsDigit(r)) {
			c.pos++
			continue
		}
		break
	}
	return string(c.input[start:c.pos])
}

// parseShape parses a name with an optional bracketed subtype group and
// resolves it to a DataType.
func (c *exprCursor) parseShape(depth int, ref func(string)) (types.DataType, error) {
	if depth > maxNestingDepth {
		return nil, types.ErrNestingTooDeep
	}
	name := c.readName()
	if name == "" {
		return nil, types.ErrEmptyTypeDeclaration
	}
	var subtypes []string
	if c.peek() == '[' {
		var err error
		subtypes, err = c.readSubtypes()
		if err != nil {
			return nil, err
		}
	}
	return resolveShape(name, subtypes, depth, ref)
}

// readSubtypes splits a balanced bracket group on top-level commas.  The
// grammar fixes the separator as ", ": exactly one space is skipped
// after each splitting comma.
func (c *exprCursor) readSubtypes() ([]string, error) {
	c.pos++ // opening bracket
	braceDepth := 1
	var parts []string
	var part []rune
	closed := false
	for c.pos < len(c.input) && !closed {
		r := c.input[c.pos]
		switch {
		case r == '[':
			braceDepth++
			part = append(part, r)
			c.pos++
		case r == ']':
			braceDepth--
			if braceDepth == 0 {
				parts = append(parts, string(part))
				c.pos++
				closed = true
				break
			}
			part = append(part, r)
			c.pos++
		case r == ',' && braceDepth == 1:
			parts = append(parts, string(part))
			part = nil
			c.pos++
			if c.pos < len(c.input) && c.input[c.pos] == ' ' {
				c.pos++
			}
		default:
			part = append(part, r)
			c.pos++
		}
	}
	if !closed {
		return nil, types.ErrMalformedSubtypeList
	}
	for _, p := range parts {
		if p == "" {
			return nil, types.ErrMalformedSubtypeList
		}
	}
	return parts, nil
}

// resolveShape turns a name plus its subtype strings into a DataType.
// Subtype strings are themselves shape expressions and recurse through a
// fresh cursor.
func resolveShape(name string, subtypes []string, depth int, ref func(string)) (types.DataType, error) {
	if p, ok := primitives[name]; ok {
		return p, nil
	}
	if p, ok := primitiveAliases[name]; ok {
		return p, nil
	}
	switch name {
	case "array":
		if len(subtypes) != 1 {
			return nil, types.ErrMalformedSubtypeList
		}
		elem, err := parseShapeString(subtypes[0], depth+1, ref)
		if err != nil {
			return nil, err
		}
		return types.Array{Elem: elem}, nil
	case "dict":
		if len(subtypes) != 2 {
			return nil, types.ErrMalformedSubtypeList
		}
		key, ok := primitives[subtypes[0]]
		if !ok {
			return nil, &types.UnsupportedPrimitiveError{Name: subtypes[0]}
		}
		value, err := parseShapeString(subtypes[1], depth+1, ref)
		if err != nil {
			return nil, err
		}
		return types.Dict{Key: key, Value: value}, nil
	default:
		ref(name)
		return types.TypeRef(name), nil
	}
}

func parseShapeString(expr string, depth int, ref func(string)) (types.DataType, error) {
	cur := &exprCursor{input: []rune(expr)}
	return cur.parseShape(depth, ref)
}
