// Package builtin assembles the modifiers shipped with reshape into a
// catalog and a default alias table.
package builtin

import (
	"context"

	"github.com/zoobzio/reshape"
	"github.com/zoobzio/reshape/age"
	"github.com/zoobzio/reshape/base64"
	"github.com/zoobzio/reshape/charset"
	"github.com/zoobzio/reshape/compress"
	"github.com/zoobzio/reshape/digest"
	"github.com/zoobzio/reshape/meta"
	"github.com/zoobzio/reshape/soap"
)

// Implementations returns every built-in implementation. Settings supply
// the spill buffer configuration of deferred-size headers.
func Implementations(settings reshape.Settings) []reshape.Implementation {
	return []reshape.Implementation{
		base64.Provider(),
		compress.Gzip(),
		compress.Zstd(),
		compress.LZ4(),
		charset.Provider(),
		age.Provider(),
		digest.Provider(),
		soap.Provider(),
		meta.HeaderProvider(),
		meta.SizedProvider(settings.SpillOptions()...),
	}
}

// DefaultTable returns the default alias table.
func DefaultTable() reshape.Table {
	return reshape.Table{
		"BASE64":      base64.ID,
		"GZIP":        compress.GzipID,
		"ZSTD":        compress.ZstdID,
		"LZ4":         compress.LZ4ID,
		"Charset":     charset.ID,
		"AGE":         age.ID,
		"Digest":      digest.ID,
		"Envelope":    soap.ID,
		"Header":      meta.HeaderID,
		"SizedHeader": meta.SizedID,
	}
}

// Registry builds a registry of the built-in implementations. A non-empty
// settings.TablePath replaces the default alias table.
func Registry(ctx context.Context, settings reshape.Settings) (*reshape.Registry, error) {
	table, err := tableFor(settings)
	if err != nil {
		return nil, err
	}
	return reshape.NewRegistry(ctx, table, Implementations(settings)...), nil
}

// Shared returns a reshape.Shared that builds the built-in registry once,
// on first use, for every job of the process. The alias table is loaded
// here so a bad table path fails before any job starts.
func Shared(ctx context.Context, settings reshape.Settings) (*reshape.Shared, error) {
	table, err := tableFor(settings)
	if err != nil {
		return nil, err
	}
	impls := Implementations(settings)
	return reshape.NewShared(func() *reshape.Registry {
		return reshape.NewRegistry(ctx, table, impls...)
	}), nil
}

func tableFor(settings reshape.Settings) (reshape.Table, error) {
	if settings.TablePath == "" {
		return DefaultTable(), nil
	}
	return reshape.LoadTable(settings.TablePath)
}
