package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/zoobzio/reshape"
	"github.com/zoobzio/reshape/builtin"
)

// globalFlags override the environment settings.
type globalFlags struct {
	table          string
	spillThreshold int64
	spillDir       string

	shared *reshape.Shared
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.table, "table", "", "Alias table file (.yaml, .yml, .json, .jsonc); overrides RESHAPE_TABLE")
	fs.Int64Var(&g.spillThreshold, "spill-threshold", 0, "In-memory limit of deferred-size buffers in bytes; overrides RESHAPE_SPILL_THRESHOLD")
	fs.StringVar(&g.spillDir, "spill-dir", "", "Directory for spill files; overrides RESHAPE_SPILL_DIR")
}

// settings merges the environment with flags set on the command line.
func (g *globalFlags) settings(fs *pflag.FlagSet) (reshape.Settings, error) {
	s, err := reshape.LoadSettings()
	if err != nil {
		return reshape.Settings{}, err
	}
	if fs.Changed("table") {
		s.TablePath = g.table
	}
	if fs.Changed("spill-threshold") {
		if g.spillThreshold < 0 {
			return reshape.Settings{}, fmt.Errorf("%w: --spill-threshold must not be negative", reshape.ErrConfig)
		}
		s.SpillThreshold = g.spillThreshold
	}
	if fs.Changed("spill-dir") {
		s.SpillDir = g.spillDir
	}
	return s, nil
}

// registry returns the process registry, built once from the settings in
// force at the first call.
func (g *globalFlags) registry(ctx context.Context, cmd *cobra.Command) (*reshape.Registry, error) {
	if g.shared == nil {
		s, err := g.settings(cmd.Flags())
		if err != nil {
			return nil, err
		}
		shared, err := builtin.Shared(ctx, s)
		if err != nil {
			return nil, err
		}
		g.shared = shared
	}
	return g.shared.Get(), nil
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "reshape",
		Short:         "Reshape report output on its way to a distribution target",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	g.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newApplyCmd(g), newAliasesCmd(g))
	return rootCmd
}
