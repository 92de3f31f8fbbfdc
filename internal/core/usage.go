package core

import (
	"sort"

	"skerry/internal/types"
)

// usageEntry is the lifecycle of one type name across a run: the sites
// that referenced it while it was still undeclared, and whether a
// declaration has been seen.
type usageEntry struct {
	declared bool
	sites    []types.UsageSite
}

// usageTracker is the run-scoped table shared by the type and interface
// parsers.  The resolver holds the only handle and passes it down the
// call chain, so no locking is needed.
type usageTracker struct {
	entries map[string]*usageEntry
	order   []string
}

func newUsageTracker() *usageTracker {
	return &usageTracker{entries: make(map[string]*usageEntry)}
}

// recordReference notes one use of name at site.  References seen after
// the name is declared are dropped; references can legitimately precede
// declarations when documents import out of dependency order.
func (t *usageTracker) recordReference(name string, site types.UsageSite) {
	entry, ok := t.entries[name]
	if !ok {
		t.entries[name] = &usageEntry{sites: []types.UsageSite{site}}
		t.order = append(t.order, name)
		return
	}
	if entry.declared {
		return
	}
	entry.sites = append(entry.sites, site)
}

// recordDeclaration marks name as declared, clearing any accumulated
// reference sites for that exact name.
func (t *usageTracker) recordDeclaration(name string) {
	entry, ok := t.entries[name]
	if !ok {
		t.entries[name] = &usageEntry{declared: true}
		t.order = append(t.order, name)
		return
	}
	entry.declared = true
	entry.sites = nil
}

// unresolved returns every reference that never matched a declaration,
// in first-seen order per name so error output is deterministic.
func (t *usageTracker) unresolved() []types.UnresolvedRef {
	names := make([]string, 0, len(t.order))
	for _, name := range t.order {
		if entry := t.entries[name]; !entry.declared && len(entry.sites) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	var refs []types.UnresolvedRef
	for _, name := range names {
		for _, site := range t.entries[name].sites {
			refs = append(refs, types.UnresolvedRef{Name: name, Site: site})
		}
	}
	return refs
}
