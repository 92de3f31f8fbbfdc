package types

import (
	"fmt"
	"sort"
	"strings"
)

// HTTPMethod is the verb of an interface declaration, as written in the
// source document.
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "get"
	MethodPost   HTTPMethod = "post"
	MethodPut    HTTPMethod = "put"
	MethodDelete HTTPMethod = "delete"
	MethodPatch  HTTPMethod = "patch"
	MethodHead   HTTPMethod = "head"
)

// PayloadKind distinguishes query-string payloads from request bodies.
type PayloadKind string

const (
	PayloadQuery PayloadKind = "query"
	PayloadBody  PayloadKind = "body"
)

// HTTPPayload is the parsed query or body property list of an interface.
// Which kind is legal depends on the method; the parser enforces that.
type HTTPPayload struct {
	Kind       PayloadKind
	Properties []PropertyDecl
}

func (p HTTPPayload) String() string {
	parts := make([]string, 0, len(p.Properties))
	for _, prop := range p.Properties {
		if prop.Err != nil {
			parts = append(parts, prop.Name+": <error>")
			continue
		}
		parts = append(parts, prop.Name+": "+prop.Type.String())
	}
	return string(p.Kind) + " { " + strings.Join(parts, ", ") + " }"
}

// StatusCodeKind tags a StatusCode as exact or class-prefix.
type StatusCodeKind uint8

const (
	// StatusFixed matches one exact HTTP status, e.g. 404.
	StatusFixed StatusCodeKind = iota
	// StatusPrefix matches a whole class, e.g. 4xx.
	StatusPrefix
)

// StatusCode keys one response declaration.  Fixed and prefix codes with
// the same leading digit are distinct keys.
type StatusCode struct {
	Kind StatusCodeKind
	Code uint16
}

// Fixed returns the exact-status key for code.
func Fixed(code uint16) StatusCode { return StatusCode{Kind: StatusFixed, Code: code} }

// Prefix returns the class key for a single leading digit ("Nxx").
func Prefix(class uint16) StatusCode { return StatusCode{Kind: StatusPrefix, Code: class} }

// Key renders the status code the way it is written in source documents:
// "404" for fixed codes, "4xx" for class prefixes.
func (c StatusCode) Key() string {
	if c.Kind == StatusPrefix {
		return fmt.Sprintf("%dxx", c.Code)
	}
	return fmt.Sprintf("%d", c.Code)
}

// APISpec is the method, optional payload, and optional status-coded
// responses of one interface declaration.
type APISpec struct {
	Method    HTTPMethod
	Payload   *HTTPPayload
	Responses map[StatusCode]TypeDecl
}

// InterfaceDecl is one parsed HTTP interface: the raw path template, the
// ordered {param} names extracted from it, and the request/response spec.
type InterfaceDecl struct {
	Path   string
	Params []string
	Spec   APISpec
}

func (d InterfaceDecl) String() string {
	var b strings.Builder
	b.WriteString(d.Path)
	b.WriteString(" {\n  method: ")
	b.WriteString(string(d.Spec.Method))
	b.WriteString("\n")
	if d.Spec.Payload != nil {
		b.WriteString("  ")
		b.WriteString(d.Spec.Payload.String())
		b.WriteString("\n")
	}
	if d.Spec.Responses != nil {
		keys := make([]StatusCode, 0, len(d.Spec.Responses))
		for key := range d.Spec.Responses {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].Key() < keys[j].Key() })
		for _, key := range keys {
			decl := d.Spec.Responses[key]
			b.WriteString("  ")
			b.WriteString(key.Key())
			b.WriteString(": ")
			b.WriteString(decl.render(2))
			b.WriteString("\n")
		}
	}
	b.WriteString("}")
	return b.String()
}

// InterfaceResult is the outcome of parsing one interface declaration.
type InterfaceResult struct {
	Decl InterfaceDecl
	Err  error
}
