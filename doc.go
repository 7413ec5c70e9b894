// Package reshape modifies report output on its way to a distribution target.
//
// A job names the modifications to apply in a chain declaration, resolves the
// names against a Registry, and wraps each file it sends: the read side pulls
// cached output through the input modifiers, the write side pushes it through
// the output modifiers into the transport.
//
// # Chain Declarations
//
// A declaration lists modifier aliases, each with an optional parameter,
// joined by one separator:
//
//	BASE64>>Envelope(SOAP_1_1)
//	Envelope(SOAP_1_1)<<BASE64
//
// Both forms are equivalent. ">>" lists modifiers first to last, "<<" last to
// first; ParseChain normalizes either to the same canonical order. Mixing the
// separators is a configuration error. An empty declaration is an empty chain.
//
// # Registry
//
// A Registry binds aliases to implementations. It is built once at startup
// from an alias table and a catalog of implementations, and is read-only
// afterwards:
//
//	reg := reshape.NewRegistry(ctx, reshape.Table{
//	    "BASE64":   "base64",
//	    "Envelope": "soap",
//	}, base64.Provider(), soap.Provider())
//
// Each implementation declares its roles through the interfaces its type
// satisfies: InputModifier for pull mode, OutputModifier for push mode.
//
// # Resolution and Ordering
//
// Resolving a declaration yields two chains:
//
//   - Input: modifiers that read, in declared order. The first-declared
//     modifier sits closest to the source.
//   - Output: modifiers that write, in reverse declared order. The
//     last-declared modifier sits closest to the sink, and wrapping starts
//     at the sink.
//
// Aliases missing from the registry are reported through SignalAliasUnknown
// and dropped.
//
// # Decorators
//
// Decorators frame a stream without altering its bytes. A header adds a
// prefix; an envelope adds a prefix and a suffix. Content is produced lazily
// by a ContentFunc from the job's Params.
//
//   - NewHeaderReader, NewEnvelopeReader: pull mode
//   - NewHeaderWriter, NewEnvelopeWriter: push mode
//   - NewSizedHeaderWriter: push mode, prefix built from the payload length
//
// Every decorator owns per-stream state; build a fresh one for each file.
// Close is safe in any state and idempotent.
//
// # Spill Buffer
//
// A SizedHeaderWriter holds the payload in a SpillBuffer, in memory up to
// DefaultSpillThreshold bytes and in a temporary file beyond that.
//
// # Jobs
//
// NewJob ties parsing, resolution and parameters together and reports every
// failure as a *JobError:
//
//	job, err := reshape.NewJob(ctx, reg, "BASE64>>Envelope(SOAP_1_1)", params)
//	if err != nil {
//	    return err // errors.Is(err, reshape.ErrConfig)
//	}
//	n, err := job.Send(ctx, transport, cached)
//
// # Signals
//
// Registry, resolution, spill and send events are emitted through capitan.
package reshape
