package types

import (
	"errors"
	"fmt"
	"strings"
)

// Import resolution failures.
var (
	// ErrInvalidInputSource reports a section node that is not a mapping.
	ErrInvalidInputSource = errors.New("input source must be a mapping")

	// ErrInvalidImportValue reports an _import value that is neither a
	// path string nor a list of path strings.
	ErrInvalidImportValue = errors.New("_import must be a path or a list of paths")
)

// ImportReadError wraps the loader failure for one import path.  One bad
// path does not abort resolution of sibling imports.
type ImportReadError struct {
	Path string
	Err  error
}

func (e *ImportReadError) Error() string {
	return fmt.Sprintf("reading import %q: %v", e.Path, e.Err)
}

func (e *ImportReadError) Unwrap() error { return e.Err }

// Type declaration failures.
var (
	ErrUnsupportedTypeDeclaration = errors.New("unsupported type declaration")
	ErrUnsupportedKeyType         = errors.New("declaration keys must be strings")
	ErrEmptyTypeDeclaration       = errors.New("empty type declaration")
	ErrMalformedSubtypeList       = errors.New("malformed subtype list")
	ErrNestingTooDeep             = errors.New("type expression nesting too deep")
)

// UnsupportedPrimitiveError reports a name used where only a primitive is
// legal, e.g. a dict key.
type UnsupportedPrimitiveError struct {
	Name string
}

func (e *UnsupportedPrimitiveError) Error() string {
	return fmt.Sprintf("%q is not a primitive type", e.Name)
}

// Interface declaration failures.
var (
	ErrInvalidInterfaceDeclaration = errors.New("interface declaration must be a mapping")
	ErrInvalidPath                 = errors.New("interface path must be a string")
	ErrEmptyPathParam              = errors.New("empty path parameter")
	ErrBodyNotAllowed              = errors.New("body is not allowed for this method")
	ErrQueryNotAllowed             = errors.New("query is not allowed for this method")
	ErrInvalidQuery                = errors.New("invalid query declaration")
	ErrInvalidBody                 = errors.New("invalid body declaration")
	ErrInvalidResponse             = errors.New("invalid response declaration")
	ErrInvalidStatusKey            = errors.New("response keys must be strings or integers")
	ErrInvalidStatusCode           = errors.New("response keys must be a 3-digit status or a Nxx prefix")
)

// InvalidMethodError reports a missing or unknown HTTP method.
type InvalidMethodError struct {
	Method string
}

func (e *InvalidMethodError) Error() string {
	if e.Method == "" {
		return "interface method is missing"
	}
	return fmt.Sprintf("unknown interface method %q", e.Method)
}

// TypeNotFoundError reports a response naming a type that is not among
// the declared types.  Interfaces parse strictly after all types, so this
// is a hard failure rather than a deferred reference.
type TypeNotFoundError struct {
	Name string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("type %q not found", e.Name)
}

// Hosts and versioning failures.
var (
	ErrHostsNotFound        = errors.New("no hosts were specified")
	ErrMissingHostEnv       = errors.New("missing environment key for host")
	ErrVersioningNotFound   = errors.New("versioning info was not found in schema")
	ErrMissingVersionHeader = errors.New("missing 'header' key inside 'versioning'")
)

// MissingHostAddressError reports a host entry without an address value.
type MissingHostAddressError struct {
	Env string
}

func (e *MissingHostAddressError) Error() string {
	return fmt.Sprintf("missing address value for environment %q", e.Env)
}

// UnsupportedVersioningFormatError reports an unknown versioning format.
type UnsupportedVersioningFormatError struct {
	Format string
}

func (e *UnsupportedVersioningFormatError) Error() string {
	return fmt.Sprintf("%q format is not supported for versioning", e.Format)
}

// UsageContext says where a type name was referenced.
type UsageContext string

const (
	UsageTypeBody UsageContext = "type"
	UsagePayload  UsageContext = "payload"
	UsageResponse UsageContext = "response"
)

// UsageSite is one place a type name was referenced while not (yet)
// declared.  Decl is the enclosing type name or interface path.
type UsageSite struct {
	Context  UsageContext
	Decl     string
	Property string
	Status   StatusCode
}

func (s UsageSite) String() string {
	switch s.Context {
	case UsagePayload:
		return fmt.Sprintf("payload of %s, property %q", s.Decl, s.Property)
	case UsageResponse:
		return fmt.Sprintf("response %s of %s, property %q", s.Status.Key(), s.Decl, s.Property)
	default:
		return fmt.Sprintf("type %s, property %q", s.Decl, s.Property)
	}
}

// UnresolvedRef is one dangling reference surfaced at end of run.
type UnresolvedRef struct {
	Name string
	Site UsageSite
}

// UnresolvedTypesError aggregates every dangling type reference of a run
// so a single pass surfaces all of them at once.
type UnresolvedTypesError struct {
	Refs []UnresolvedRef
}

func (e *UnresolvedTypesError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d unresolved type reference(s):", len(e.Refs)))
	for _, ref := range e.Refs {
		b.WriteString(fmt.Sprintf("\n  %q referenced in %s", ref.Name, ref.Site))
	}
	return b.String()
}
