package reshape

import (
	"context"
	"io"
	"slices"
)

const defaultContentType = "application/octet-stream"

// Step is one resolved modifier of a chain.
type Step struct {
	Declaration  Declaration
	Capabilities Capabilities
	Modifier     Modifier
}

// ResolvedChain is the ordered, registry-matched modifiers of one job.
//
// Input is in declared order: the first-declared modifier sits closest to
// the source. Output is in reverse declared order: the last-declared modifier
// sits closest to the sink, and wrapping starts at the sink.
//
// A ResolvedChain is immutable and may wrap any number of streams; every
// wrap builds fresh decorator state.
type ResolvedChain struct {
	Input  []Step
	Output []Step
}

// Resolve matches decl against the registry. Unknown aliases are reported
// through SignalAliasUnknown and dropped. A factory rejecting a declared
// parameter fails resolution with a DeclarationError wrapping
// ErrInvalidParameter.
func (r *Registry) Resolve(ctx context.Context, decl ChainDeclaration) (*ResolvedChain, error) {
	chain := &ResolvedChain{}
	dropped := 0
	declText := decl.String()

	for _, d := range decl.Entries {
		desc, ok := r.Lookup(d.Alias)
		if !ok {
			emitAliasUnknown(ctx, string(d.Alias), declText)
			dropped++
			continue
		}

		m, err := desc.New(d.Parameter)
		if err != nil {
			return nil, &DeclarationError{
				Err:   ErrInvalidParameter,
				Input: declText,
				Token: d.String(),
				Cause: err,
			}
		}

		step := Step{Declaration: d, Capabilities: desc.Capabilities, Modifier: m}
		if _, ok := m.(InputModifier); ok && desc.Capabilities.Has(ReadsInput) {
			chain.Input = append(chain.Input, step)
		}
		if _, ok := m.(OutputModifier); ok && desc.Capabilities.Has(WritesOutput) {
			chain.Output = append(chain.Output, step)
		}
	}

	slices.Reverse(chain.Output)

	emitChainResolved(ctx, declText, len(chain.Input), len(chain.Output), dropped)
	return chain, nil
}

// Empty returns true if neither side has a modifier.
func (c *ResolvedChain) Empty() bool {
	return len(c.Input) == 0 && len(c.Output) == 0
}

// WrapReader applies the input modifiers to r in declared order.
// With no input modifiers r is returned as is, gaining only a no-op Close
// when it lacks one. On error the wrappers already built are closed and the
// caller still owns r.
func (c *ResolvedChain) WrapReader(r io.Reader, params Params) (io.ReadCloser, error) {
	if len(c.Input) == 0 {
		return ReadCloser(r), nil
	}
	guard := &readGuard{Reader: r}
	var current io.ReadCloser = guard
	for _, step := range c.Input {
		var next io.ReadCloser
		var err error
		if in, ok := step.Modifier.(InputModifier); ok {
			next, err = in.WrapReader(current, params)
		} else {
			err = unsupported(step)
		}
		if err != nil {
			guard.detached = true
			if current != guard {
				_ = current.Close()
			}
			return nil, err
		}
		current = next
	}
	return current, nil
}

// WrapWriter applies the output modifiers starting from w. The returned
// writer must be closed to finalize every modifier; closing it closes w
// when w is an io.Closer. On error the wrappers already built are closed
// and the caller still owns w.
func (c *ResolvedChain) WrapWriter(w io.Writer, params Params) (io.WriteCloser, error) {
	if len(c.Output) == 0 {
		return NopWriteCloser(w), nil
	}
	guard := &writeGuard{Writer: w}
	var current io.WriteCloser = guard
	for _, step := range c.Output {
		var next io.WriteCloser
		var err error
		if out, ok := step.Modifier.(OutputModifier); ok {
			next, err = out.WrapWriter(current, params)
		} else {
			err = unsupported(step)
		}
		if err != nil {
			guard.detached = true
			if current != guard {
				_ = current.Close()
			}
			return nil, err
		}
		current = next
	}
	return current, nil
}

// readGuard sits between the caller's source and the first input modifier.
// Available and Close reach the source; once detached, Close leaves it open.
type readGuard struct {
	io.Reader
	detached bool
}

// Available defers to the source's Available or Buffered method.
func (g *readGuard) Available() int {
	switch src := g.Reader.(type) {
	case interface{ Available() int }:
		return src.Available()
	case interface{ Buffered() int }:
		return src.Buffered()
	default:
		return 0
	}
}

func (g *readGuard) Close() error {
	if g.detached {
		return nil
	}
	return CloseUnderlying(g.Reader)
}

// writeGuard sits between the caller's sink and the first output modifier.
// Flush and Close reach the sink. Once detached it discards whatever the
// modifiers being released still emit, and Close leaves the sink open.
type writeGuard struct {
	io.Writer
	detached bool
}

func (g *writeGuard) Write(p []byte) (int, error) {
	if g.detached {
		return len(p), nil
	}
	return g.Writer.Write(p)
}

func (g *writeGuard) Flush() error {
	if g.detached {
		return nil
	}
	if f, ok := g.Writer.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func (g *writeGuard) Close() error {
	if g.detached {
		return nil
	}
	return CloseUnderlying(g.Writer)
}

// ContentType returns the MIME type of the bytes reaching the sink: that of
// the output modifier closest to it that names one, or
// application/octet-stream.
func (c *ResolvedChain) ContentType() string {
	for _, step := range c.Output {
		if ct := step.Modifier.ContentType(); ct != "" {
			return ct
		}
	}
	return defaultContentType
}

// Extension returns the extension hints of the output side in the order the
// payload passes through them, e.g. ".b64.xml" for "BASE64>>Envelope(SOAP_1_1)".
func (c *ResolvedChain) Extension() string {
	var ext string
	for i := len(c.Output) - 1; i >= 0; i-- {
		ext += c.Output[i].Modifier.Extension()
	}
	return ext
}

func unsupported(step Step) error {
	return &DeclarationError{Err: ErrUnsupported, Token: step.Declaration.String()}
}
