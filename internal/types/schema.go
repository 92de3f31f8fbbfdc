package types

import (
	"fmt"
	"strings"
)

// Primitive is one of the built-in scalar types of the schema language.
type Primitive string

const (
	PrimitiveInt    Primitive = "int"
	PrimitiveDouble Primitive = "double"
	PrimitiveBool   Primitive = "bool"
	PrimitiveStr    Primitive = "str"
)

// DataType is the shape of a property: a primitive, a container, a
// reference to a named type, or an anonymous inline record.  The set of
// implementations is closed.
type DataType interface {
	fmt.Stringer
	isDataType()
}

func (Primitive) isDataType() {}

func (p Primitive) String() string { return string(p) }

// Array is an ordered collection of a single element shape.
type Array struct {
	Elem DataType
}

func (Array) isDataType() {}

func (a Array) String() string { return "array[" + a.Elem.String() + "]" }

// Dict maps primitive keys to values of an arbitrary shape.  Keys are
// restricted to primitives; values recurse.
type Dict struct {
	Key   Primitive
	Value DataType
}

func (Dict) isDataType() {}

func (d Dict) String() string {
	return "dict[" + d.Key.String() + ", " + d.Value.String() + "]"
}

// TypeRef is a reference to a type declared elsewhere in the schema,
// possibly in a fragment that has not been parsed yet.
type TypeRef string

func (TypeRef) isDataType() {}

func (r TypeRef) String() string { return string(r) }

// InlineType is an anonymous record literal nested under a property.
type InlineType struct {
	Decl TypeDecl
}

func (InlineType) isDataType() {}

func (i InlineType) String() string { return i.Decl.render(1) }

// DataTypeDecl is a parsed type expression: the shape plus whether the
// property is required.  Required is false only when the expression
// carried a trailing '?'.
type DataTypeDecl struct {
	Type     DataType
	Required bool
}

func (d DataTypeDecl) String() string {
	if d.Type == nil {
		return ""
	}
	out := d.Type.String()
	if !d.Required {
		out += "?"
	}
	return out
}

// PropertyDecl is one property of a record type.  Type resolution is
// per-property: Err is set and Type is zero when this property's
// expression failed to parse, without affecting sibling properties.
type PropertyDecl struct {
	Name string
	Type DataTypeDecl
	Err  error
}

// TypeDecl is one named record type.  Properties keep source declaration
// order; display and any future codegen depend on it.
type TypeDecl struct {
	Name       string
	Properties []PropertyDecl
}

func (t TypeDecl) String() string {
	return "type " + t.Name + " " + t.render(1)
}

func (t TypeDecl) render(indent int) string {
	pad := strings.Repeat("  ", indent)
	var b strings.Builder
	b.WriteString("{\n")
	for _, prop := range t.Properties {
		b.WriteString(pad)
		b.WriteString(prop.Name)
		b.WriteString(": ")
		if prop.Err != nil {
			b.WriteString("<error: " + prop.Err.Error() + ">")
		} else {
			b.WriteString(prop.Type.String())
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("  ", indent-1))
	b.WriteString("}")
	return b.String()
}

// TypeResult is the outcome of parsing one type declaration.  A failed
// declaration never aborts its siblings; callers inspect Err per item.
type TypeResult struct {
	Decl TypeDecl
	Err  error
}

// Host binds an environment name to a base address.
type Host struct {
	Env     string
	Address string
}

// VersioningFormat selects how API versions are negotiated.
type VersioningFormat string

const VersioningHeaders VersioningFormat = "headers"

// Versioning is the schema's API versioning policy.
type Versioning struct {
	Format VersioningFormat
	Header string
}

// Schema is the fully assembled result of one parse run: flat host and
// versioning sections plus per-item outcomes for types and interfaces.
type Schema struct {
	Hosts      []Host
	Versioning Versioning
	Types      []TypeResult
	Interfaces []InterfaceResult
}
