package reshape

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for pipeline events.
var (
	SignalAliasRegistered    = capitan.NewSignal("reshape.registry.registered", "Alias bound to a modifier implementation")
	SignalAliasReplaced      = capitan.NewSignal("reshape.registry.replaced", "Alias re-registered, previous binding discarded")
	SignalAliasRejected      = capitan.NewSignal("reshape.registry.rejected", "Alias skipped during registry construction")
	SignalAliasUnknown       = capitan.NewSignal("reshape.resolve.unknown", "Declared alias not found in registry, entry dropped")
	SignalChainResolved      = capitan.NewSignal("reshape.resolve.complete", "Declaration resolved into input and output chains")
	SignalSpilled            = capitan.NewSignal("reshape.spill.migrated", "Spill buffer migrated from memory to a temporary file")
	SignalSpillCleanupFailed = capitan.NewSignal("reshape.spill.cleanup_failed", "Temporary spill file could not be removed")
	SignalJobCreated         = capitan.NewSignal("reshape.job.created", "Job configured")
	SignalSendStart          = capitan.NewSignal("reshape.send.start", "Send operation beginning")
	SignalSendComplete       = capitan.NewSignal("reshape.send.complete", "Send operation finished")
)

// Keys for typed event data.
var (
	KeyAlias        = capitan.NewStringKey("alias")
	KeyPrevious     = capitan.NewStringKey("previous")
	KeyIdentifier   = capitan.NewStringKey("identifier")
	KeyDeclaration  = capitan.NewStringKey("declaration")
	KeyJobID        = capitan.NewStringKey("job_id")
	KeyContentType  = capitan.NewStringKey("content_type")
	KeyPath         = capitan.NewStringKey("path")
	KeyReason       = capitan.NewStringKey("reason")
	KeyInputCount   = capitan.NewIntKey("input_count")
	KeyOutputCount  = capitan.NewIntKey("output_count")
	KeyDroppedCount = capitan.NewIntKey("dropped_count")
	KeySize         = capitan.NewIntKey("size")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeyError        = capitan.NewErrorKey("error")
)

func emitAliasRegistered(ctx context.Context, alias, id string) {
	capitan.Emit(ctx, SignalAliasRegistered,
		KeyAlias.Field(alias),
		KeyIdentifier.Field(id),
	)
}

func emitAliasReplaced(ctx context.Context, alias, previous, id string) {
	capitan.Emit(ctx, SignalAliasReplaced,
		KeyAlias.Field(alias),
		KeyPrevious.Field(previous),
		KeyIdentifier.Field(id),
	)
}

func emitAliasRejected(ctx context.Context, alias, id, reason string) {
	capitan.Emit(ctx, SignalAliasRejected,
		KeyAlias.Field(alias),
		KeyIdentifier.Field(id),
		KeyReason.Field(reason),
	)
}

func emitAliasUnknown(ctx context.Context, alias, declaration string) {
	capitan.Emit(ctx, SignalAliasUnknown,
		KeyAlias.Field(alias),
		KeyDeclaration.Field(declaration),
	)
}

func emitChainResolved(ctx context.Context, declaration string, inputs, outputs, dropped int) {
	capitan.Emit(ctx, SignalChainResolved,
		KeyDeclaration.Field(declaration),
		KeyInputCount.Field(inputs),
		KeyOutputCount.Field(outputs),
		KeyDroppedCount.Field(dropped),
	)
}

func emitSpilled(ctx context.Context, path string, size int64) {
	capitan.Emit(ctx, SignalSpilled,
		KeyPath.Field(path),
		KeySize.Field(int(size)),
	)
}

func emitSpillCleanupFailed(ctx context.Context, path string, err error) {
	capitan.Error(ctx, SignalSpillCleanupFailed,
		KeyPath.Field(path),
		KeyError.Field(err),
	)
}

func emitJobCreated(ctx context.Context, jobID, declaration string, inputs, outputs int) {
	capitan.Emit(ctx, SignalJobCreated,
		KeyJobID.Field(jobID),
		KeyDeclaration.Field(declaration),
		KeyInputCount.Field(inputs),
		KeyOutputCount.Field(outputs),
	)
}

func emitSendStart(ctx context.Context, jobID, contentType string) {
	capitan.Emit(ctx, SignalSendStart,
		KeyJobID.Field(jobID),
		KeyContentType.Field(contentType),
	)
}

func emitSendComplete(ctx context.Context, jobID, contentType string, size int64, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyJobID.Field(jobID),
		KeyContentType.Field(contentType),
		KeySize.Field(int(size)),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSendComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalSendComplete, fields...)
	}
}
