package reshape

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry(context.Background(), Table{
		"A":       "tag",
		"UP":      "upper",
		"LOW":     "lower",
		"MISSING": "nonexistent",
		"9bad":    "tag",
	}, testImplementations()...)

	if diff := cmp.Diff([]Alias{"A", "LOW", "UP"}, reg.Aliases()); diff != "" {
		t.Errorf("Aliases() mismatch (-want +got):\n%s", diff)
	}
	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}

	d, ok := reg.Lookup("UP")
	if !ok {
		t.Fatal("Lookup(UP) missing")
	}
	if d.ID != "upper" || d.Alias != "UP" {
		t.Errorf("descriptor = %+v", d)
	}
	if d.Capabilities.Has(ReadsInput) || !d.Capabilities.Has(WritesOutput) {
		t.Errorf("UP capabilities = %s, want write", d.Capabilities)
	}

	if _, ok := reg.Lookup("MISSING"); ok {
		t.Error("alias with unknown identifier should be skipped")
	}
}

func TestBuilderReplacement(t *testing.T) {
	ctx := context.Background()
	b := NewBuilder()
	impls := testImplementations()

	if !b.Register(ctx, "X", impls[0]) {
		t.Fatal("first registration rejected")
	}
	if !b.Register(ctx, "X", impls[1]) {
		t.Fatal("replacement rejected")
	}
	d, _ := b.Build().Lookup("X")
	if d.ID != impls[1].ID {
		t.Errorf("ID = %q, want last registration %q", d.ID, impls[1].ID)
	}
}

func TestBuilderReplacementSignal(t *testing.T) {
	ctx := context.Background()
	impls := testImplementations()
	b := NewBuilder()
	b.Register(ctx, "X", impls[0])

	events := captureSignal(SignalAliasReplaced, func() {
		b.Register(ctx, "X", impls[1])
	})
	if len(events) != 1 {
		t.Fatalf("got %d %s events, want 1", len(events), SignalAliasReplaced.Name())
	}
	fields := events[0].Fields
	if got := KeyAlias.ExtractFromFields(fields); got != "X" {
		t.Errorf("alias = %q, want X", got)
	}
	if got := KeyPrevious.ExtractFromFields(fields); got != impls[0].ID {
		t.Errorf("previous = %q, want %q", got, impls[0].ID)
	}
	if got := KeyIdentifier.ExtractFromFields(fields); got != impls[1].ID {
		t.Errorf("identifier = %q, want %q", got, impls[1].ID)
	}
}

func TestNewRegistryRejectsSignal(t *testing.T) {
	events := captureSignal(SignalAliasRejected, func() {
		NewRegistry(context.Background(), Table{"MISSING": "nonexistent"}, testImplementations()...)
	})
	if len(events) != 1 {
		t.Fatalf("got %d %s events, want 1", len(events), SignalAliasRejected.Name())
	}
	if got := KeyReason.ExtractFromFields(events[0].Fields); got != "unknown identifier" {
		t.Errorf("reason = %q, want unknown identifier", got)
	}
}

func TestBuilderRejects(t *testing.T) {
	ctx := context.Background()
	b := NewBuilder()

	if b.Register(ctx, "not valid", testImplementations()[0]) {
		t.Error("invalid alias should be rejected")
	}
	noRole := Provide("neither", NoParameter(func() neither { return neither{} }))
	if b.Register(ctx, "N", noRole) {
		t.Error("implementation with no role should be rejected")
	}
	if b.Build().Len() != 0 {
		t.Error("rejected aliases should not be registered")
	}
}

func TestBuildSnapshot(t *testing.T) {
	ctx := context.Background()
	b := NewBuilder()
	b.Register(ctx, "A", testImplementations()[0])
	reg := b.Build()
	b.Register(ctx, "B", testImplementations()[0])

	if reg.Len() != 1 {
		t.Errorf("snapshot Len() = %d, want 1", reg.Len())
	}
}

func TestBuilderConcurrentRegister(t *testing.T) {
	ctx := context.Background()
	b := NewBuilder()
	impl := testImplementations()[0]

	var wg sync.WaitGroup
	for _, alias := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		wg.Add(1)
		go func(alias string) {
			defer wg.Done()
			b.Register(ctx, alias, impl)
		}(alias)
	}
	wg.Wait()

	if got := b.Build().Len(); got != 8 {
		t.Errorf("Len() = %d, want 8", got)
	}
}

func TestShared(t *testing.T) {
	builds := 0
	var mu sync.Mutex
	s := NewShared(func() *Registry {
		mu.Lock()
		builds++
		mu.Unlock()
		return NewRegistry(context.Background(), Table{"A": "tag"}, testImplementations()...)
	})

	var wg sync.WaitGroup
	results := make([]*Registry, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Get()
		}(i)
	}
	wg.Wait()

	if builds != 1 {
		t.Errorf("built %d times, want 1", builds)
	}
	for i, r := range results {
		if r != results[0] {
			t.Errorf("Get() #%d returned a different registry", i)
		}
	}

	s.Reset()
	if s.Get() == results[0] {
		t.Error("Reset() should force a rebuild")
	}
	if builds != 2 {
		t.Errorf("built %d times after Reset, want 2", builds)
	}
}
