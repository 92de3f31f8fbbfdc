package core

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"skerry/internal/ports"
	"skerry/internal/types"
)

// Resolver drives the two-phase parse pipeline for one run: types first,
// then interfaces, then end-of-run reconciliation of type references.
// It owns the usage tracker; parsers only ever borrow it down the call
// chain, so the tracker is never shared across runs.
type Resolver struct {
	imports    *importResolver
	tracker    *usageTracker
	types      []types.TypeResult
	interfaces []types.InterfaceResult
}

func NewResolver(loader ports.DocumentLoader) *Resolver {
	return &Resolver{
		imports: newImportResolver(loader),
		tracker: newUsageTracker(),
	}
}

// ParseTypes parses the types section plus everything it imports.  The
// section's own body parses before imported fragments; within a list
// import, fragments parse in array order.  Imports are resolved
// exhaustively before any parsing starts.
func (r *Resolver) ParseTypes(section *yaml.Node, baseDir string) error {
	frags, err := r.imports.resolve(section, baseDir)
	if err != nil {
		return err
	}
	sources := append([]fragment{{node: section}}, frags...)
	parser := &typeParser{tracker: r.tracker}
	for _, frag := range sources {
		if frag.err != nil {
			r.types = append(r.types, types.TypeResult{Err: fmt.Errorf("import failure: %w", frag.err)})
			continue
		}
		if err := parser.parseFragment(frag.node, &r.types); err != nil {
			r.types = append(r.types, types.TypeResult{Err: err})
		}
	}
	log.Debug().Int("types", len(r.types)).Msg("types section parsed")
	return nil
}

// ParseInterfaces parses the interfaces section plus its imports.  It
// must run after ParseTypes: named responses resolve against the types
// parsed so far.
func (r *Resolver) ParseInterfaces(section *yaml.Node, baseDir string) error {
	frags, err := r.imports.resolve(section, baseDir)
	if err != nil {
		return err
	}
	sources := append([]fragment{{node: section}}, frags...)
	parser := &interfaceParser{tracker: r.tracker, declared: r.types}
	for _, frag := range sources {
		if frag.err != nil {
			r.interfaces = append(r.interfaces, types.InterfaceResult{Err: fmt.Errorf("import failure: %w", frag.err)})
			continue
		}
		if err := parser.parseFragment(frag.node, &r.interfaces); err != nil {
			r.interfaces = append(r.interfaces, types.InterfaceResult{Err: err})
		}
	}
	log.Debug().Int("interfaces", len(r.interfaces)).Msg("interfaces section parsed")
	return nil
}

// Finish reconciles the usage tracker.  Any reference that never matched
// a declaration anywhere in the run fails the whole run with a single
// aggregate error; per-item outcomes are returned otherwise.
func (r *Resolver) Finish() ([]types.TypeResult, []types.InterfaceResult, error) {
	if refs := r.tracker.unresolved(); len(refs) > 0 {
		return nil, nil, &types.UnresolvedTypesError{Refs: refs}
	}
	return r.types, r.interfaces, nil
}
