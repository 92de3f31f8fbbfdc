package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"skerry/internal/core"
	"skerry/internal/types"
)

// DefaultMainFile is the entry document of a schema directory.
const DefaultMainFile = "main.yaml"

type ParseRequest struct {
	// Dir is the schema directory; imports resolve relative to it.
	Dir string

	// Main overrides the entry document file name.
	Main string
}

type ParseResult struct {
	Schema types.Schema
}

// Parse runs the full pipeline: load the entry document, extract hosts
// and versioning, then types, then interfaces, then reconcile type
// references.  A run either yields a full Schema with per-item outcomes
// embedded or fails with a single terminal error.
func (s Service) Parse(ctx context.Context, req ParseRequest) (ParseResult, error) {
	dir := strings.TrimSpace(req.Dir)
	if dir == "" {
		return ParseResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema directory is required")
	}
	main := req.Main
	if main == "" {
		main = DefaultMainFile
	}
	assert.NotEmpty(ctx, main, "main document name must be set")

	root, err := s.Documents.Load(filepath.Join(dir, main))
	if err != nil {
		return ParseResult{}, err
	}
	hosts, err := core.ParseHosts(root)
	if err != nil {
		return ParseResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid hosts section").
			WithCause(err)
	}
	versioning, err := core.ParseVersioning(root)
	if err != nil {
		return ParseResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid versioning section").
			WithCause(err)
	}

	typesSection, ok := core.Section(root, "types")
	if !ok {
		return ParseResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema is missing a types section")
	}
	interfacesSection, ok := core.Section(root, "interfaces")
	if !ok {
		return ParseResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema is missing an interfaces section")
	}

	resolver := core.NewResolver(s.Documents)
	if err := resolver.ParseTypes(typesSection, dir); err != nil {
		return ParseResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid types section").
			WithCause(err)
	}
	if err := resolver.ParseInterfaces(interfacesSection, dir); err != nil {
		return ParseResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid interfaces section").
			WithCause(err)
	}
	typeResults, interfaceResults, err := resolver.Finish()
	if err != nil {
		return ParseResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("unresolved type references").
			WithCause(err)
	}

	log.Ctx(ctx).Debug().
		Int("hosts", len(hosts)).
		Int("types", len(typeResults)).
		Int("interfaces", len(interfaceResults)).
		Msg("schema parsed")

	return ParseResult{Schema: types.Schema{
		Hosts:      hosts,
		Versioning: versioning,
		Types:      typeResults,
		Interfaces: interfaceResults,
	}}, nil
}

type ValidateRequest struct {
	Dir  string
	Main string
}

type ValidateResult struct {
	Hosts      int
	Types      int
	Interfaces int
	Failures   []string
}

// Validate parses the schema and reports every per-item failure the
// embedded outcomes carry.  Failures surface as one error after the
// whole schema has been inspected.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	parsed, err := s.Parse(ctx, ParseRequest{Dir: req.Dir, Main: req.Main})
	if err != nil {
		return ValidateResult{}, err
	}
	schema := parsed.Schema
	result := ValidateResult{
		Hosts:      len(schema.Hosts),
		Types:      len(schema.Types),
		Interfaces: len(schema.Interfaces),
	}
	for i, item := range schema.Types {
		if item.Err != nil {
			result.Failures = append(result.Failures,
				fmt.Sprintf("type declaration %d: %v", i, item.Err))
			continue
		}
		for _, prop := range item.Decl.Properties {
			if prop.Err != nil {
				result.Failures = append(result.Failures,
					fmt.Sprintf("type %s, property %s: %v", item.Decl.Name, prop.Name, prop.Err))
			}
		}
	}
	for i, item := range schema.Interfaces {
		if item.Err != nil {
			result.Failures = append(result.Failures,
				fmt.Sprintf("interface declaration %d: %v", i, item.Err))
		}
	}
	if len(result.Failures) > 0 {
		return result, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("schema has %d invalid declaration(s)", len(result.Failures)))
	}
	return result, nil
}
