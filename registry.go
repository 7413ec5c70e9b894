package reshape

import (
	"context"
	"sort"
	"sync"
)

// Table maps aliases to implementation identifiers, e.g. "BASE64" -> "base64".
type Table map[string]string

// Descriptor is the registry entry for one alias.
type Descriptor struct {
	Alias        Alias
	ID           string
	Capabilities Capabilities
	New          Factory
}

// Registry maps aliases to modifier descriptors.
// A Registry is immutable once built and safe for concurrent lookups
// without locking.
type Registry struct {
	entries map[Alias]Descriptor
}

// NewRegistry binds each alias of table to the implementation whose ID it
// names. Aliases naming an unknown identifier, implementations with no role,
// and malformed aliases are reported through SignalAliasRejected and left out;
// they never fail construction.
func NewRegistry(ctx context.Context, table Table, impls ...Implementation) *Registry {
	catalog := make(map[string]Implementation, len(impls))
	for _, impl := range impls {
		catalog[impl.ID] = impl
	}

	b := NewBuilder()
	aliases := make([]string, 0, len(table))
	for alias := range table {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	for _, alias := range aliases {
		id := table[alias]
		impl, ok := catalog[id]
		if !ok {
			emitAliasRejected(ctx, alias, id, "unknown identifier")
			continue
		}
		b.Register(ctx, alias, impl)
	}
	return b.Build()
}

// Builder assembles a Registry. Register calls are serialized so a builder
// may be shared by initialization code running on several goroutines.
type Builder struct {
	mu      sync.Mutex
	entries map[Alias]Descriptor
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[Alias]Descriptor)}
}

// Register binds alias to impl. A later registration for the same alias
// replaces the earlier one and is reported through SignalAliasReplaced.
// Returns false if the alias was rejected.
func (b *Builder) Register(ctx context.Context, alias string, impl Implementation) bool {
	a, err := ParseAlias(alias)
	if err != nil {
		emitAliasRejected(ctx, alias, impl.ID, "invalid alias")
		return false
	}
	if impl.New == nil || impl.Capabilities.Empty() {
		emitAliasRejected(ctx, alias, impl.ID, "implementation supports no role")
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if prev, ok := b.entries[a]; ok {
		emitAliasReplaced(ctx, alias, prev.ID, impl.ID)
	} else {
		emitAliasRegistered(ctx, alias, impl.ID)
	}
	b.entries[a] = Descriptor{
		Alias:        a,
		ID:           impl.ID,
		Capabilities: impl.Capabilities,
		New:          impl.New,
	}
	return true
}

// Build returns a registry holding a snapshot of the registered aliases.
// The builder stays usable; later registrations do not affect the result.
func (b *Builder) Build() *Registry {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := make(map[Alias]Descriptor, len(b.entries))
	for a, d := range b.entries {
		entries[a] = d
	}
	return &Registry{entries: entries}
}

// Lookup returns the descriptor registered for alias.
func (r *Registry) Lookup(alias Alias) (Descriptor, bool) {
	d, ok := r.entries[alias]
	return d, ok
}

// Len returns the number of registered aliases.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Aliases returns the registered aliases in sorted order.
func (r *Registry) Aliases() []Alias {
	aliases := make([]Alias, 0, len(r.entries))
	for a := range r.entries {
		aliases = append(aliases, a)
	}
	sort.Slice(aliases, func(i, j int) bool { return aliases[i] < aliases[j] })
	return aliases
}

// Shared builds a registry at most once and hands the same instance to
// every caller. Jobs running concurrently share it read-only.
type Shared struct {
	build func() *Registry

	mu       sync.RWMutex
	registry *Registry
}

// NewShared returns a Shared that runs build on first use.
func NewShared(build func() *Registry) *Shared {
	return &Shared{build: build}
}

// Get returns the registry, building it on the first call.
func (s *Shared) Get() *Registry {
	// Fast path: read-lock check
	s.mu.RLock()
	if r := s.registry; r != nil {
		s.mu.RUnlock()
		return r
	}
	s.mu.RUnlock()

	// Slow path: build with write-lock
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check pattern
	if s.registry != nil {
		return s.registry
	}
	s.registry = s.build()
	return s.registry
}

// Reset discards the built registry so the next Get rebuilds it.
// This is primarily useful for test isolation.
func (s *Shared) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = nil
}
