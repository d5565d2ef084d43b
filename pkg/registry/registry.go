// Package registry owns the set of backing hives in composed
// (multi-store) mode, indexed by (root group, store name).
//
// All loading happens sequentially at startup; afterwards the registry
// is never mutated, so concurrent lookups need no locking.
package registry

import (
	"fmt"
	"path/filepath"

	"github.com/marmos91/hivefs/internal/logger"
	"github.com/marmos91/hivefs/pkg/hive"
)

// RootGroups is the fixed set of top-level namespace buckets, in the
// order they appear in root listings.
//
//	Registry Key       Filesystem Location (Win7)
//	----------------------------------------------------------------------
//	HKCR               (Composite of \Software\Classes from HKCU and HKLM)
//	HKCU               (Link to current user's key under HKU)
//	HKLM\SAM           %WINDIR%\system32\config\SAM
//	HKLM\SECURITY      %WINDIR%\system32\config\SECURITY
//	HKLM\SOFTWARE      %WINDIR%\system32\config\software
//	HKLM\SYSTEM        %WINDIR%\system32\config\system
//	HKU\.DEFAULT       %WINDIR%\system32\config\default
//	HKU\<SID>          %USERPROFILE%\NTUSER.DAT
var RootGroups = []string{"HKCR", "HKCU", "HKLM", "HKU", "HKCC"}

// Registry maps (root group, store name) to loaded backends. A store
// that failed an auxiliary load keeps its name slot with a nil backend:
// it still occupies namespace (listings show it) but every path into it
// reports not-found.
type Registry struct {
	open   hive.Opener
	groups map[string]*group
}

type group struct {
	order  []string
	stores map[string]hive.Backend // nil entry = load failed
}

// New creates a registry with all root groups empty. The opener loads
// hive files; pass nil to use hive.Open.
func New(open hive.Opener) *Registry {
	if open == nil {
		open = hive.Open
	}
	r := &Registry{open: open, groups: make(map[string]*group, len(RootGroups))}
	for _, name := range RootGroups {
		r.groups[name] = &group{stores: make(map[string]hive.Backend)}
	}
	return r
}

// LoadPrimary loads a mandatory hive. A failure here is fatal to
// initialization and is propagated to the caller.
func (r *Registry) LoadPrimary(groupName, storeName, path string) error {
	g, ok := r.groups[groupName]
	if !ok {
		return fmt.Errorf("unknown root group %q", groupName)
	}
	backend, err := r.open(path)
	if err != nil {
		return fmt.Errorf("loading primary hive %s/%s: %w", groupName, storeName, err)
	}
	g.register(storeName, backend)
	logger.Info("Loaded hive %s/%s from %s", groupName, storeName, path)
	return nil
}

// LoadAuxiliary loads a non-mandatory hive. On failure the slot is
// recorded as permanently absent and loading continues; a single
// malformed auxiliary file must not prevent mounting the rest of the
// namespace.
func (r *Registry) LoadAuxiliary(groupName, storeName, path string) {
	g, ok := r.groups[groupName]
	if !ok {
		logger.Warn("Skipping hive %s: unknown root group %q", path, groupName)
		return
	}
	backend, err := r.open(path)
	if err != nil {
		logger.Warn("Hive %s/%s failed to load, mounting without it: %v", groupName, storeName, err)
		g.register(storeName, nil)
		return
	}
	g.register(storeName, backend)
	logger.Info("Loaded hive %s/%s from %s", groupName, storeName, path)
}

func (g *group) register(storeName string, backend hive.Backend) {
	if _, exists := g.stores[storeName]; !exists {
		g.order = append(g.order, storeName)
	}
	g.stores[storeName] = backend
}

// Lookup returns the backend for (group, store). The second return is
// false when the pair is unknown or the store failed to load.
func (r *Registry) Lookup(groupName, storeName string) (hive.Backend, bool) {
	g, ok := r.groups[groupName]
	if !ok {
		return nil, false
	}
	backend, ok := g.stores[storeName]
	if !ok || backend == nil {
		return nil, false
	}
	return backend, true
}

// HasGroup reports whether groupName is one of the root groups.
func (r *Registry) HasGroup(groupName string) bool {
	_, ok := r.groups[groupName]
	return ok
}

// Groups returns the root group names in listing order. All groups are
// listed whether or not any store is loaded under them.
func (r *Registry) Groups() []string {
	names := make([]string, len(RootGroups))
	copy(names, RootGroups)
	return names
}

// Stores returns the store names registered under a group, in
// registration order. Names that failed to load are included: they
// still occupy namespace slots, with degraded (empty) content. The
// second return is false for an unknown group.
func (r *Registry) Stores(groupName string) ([]string, bool) {
	g, ok := r.groups[groupName]
	if !ok {
		return nil, false
	}
	names := make([]string, len(g.order))
	copy(names, g.order)
	return names, true
}

// Close releases every loaded backend.
func (r *Registry) Close() {
	for _, name := range RootGroups {
		g := r.groups[name]
		for _, storeName := range g.order {
			if backend := g.stores[storeName]; backend != nil {
				backend.Close()
			}
		}
	}
}

// LoadConfigDir loads a %WINDIR%\system32\config directory using the
// conventional file-to-store mapping: HKLM gets SYSTEM (mandatory),
// SAM, SECURITY, and SOFTWARE; HKU gets .DEFAULT. Missing or corrupt
// auxiliary files leave absent slots.
func (r *Registry) LoadConfigDir(dir string) error {
	if err := r.LoadPrimary("HKLM", "SYSTEM", filepath.Join(dir, "system")); err != nil {
		return fmt.Errorf("directory given, but the system hive could not be loaded: %w", err)
	}
	r.LoadAuxiliary("HKLM", "SAM", filepath.Join(dir, "SAM"))
	r.LoadAuxiliary("HKLM", "SECURITY", filepath.Join(dir, "SECURITY"))
	r.LoadAuxiliary("HKLM", "SOFTWARE", filepath.Join(dir, "software"))
	r.LoadAuxiliary("HKU", ".DEFAULT", filepath.Join(dir, "default"))
	return nil
}
