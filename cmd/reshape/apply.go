package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zoobzio/reshape"
)

// Modes of the apply command.
const (
	modeWrite = "write"
	modeRead  = "read"
	modeSend  = "send"
)

type applyFlags struct {
	chain  string
	in     string
	out    string
	mode   string
	params []string
	jobID  string
	info   bool
}

func newApplyCmd(g *globalFlags) *cobra.Command {
	f := &applyFlags{}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a chain declaration to a file",
		Long: `Apply a chain declaration to a file.

The write mode pushes the input through the output side of the chain, the
read mode pulls it through the input side, and the send mode does both, as a
distribution job does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApply(cmd, g, f)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.chain, "chain", "c", "", "Chain declaration, e.g. BASE64>>Envelope(SOAP_1_1)")
	fs.StringVarP(&f.in, "in", "i", "-", "Input file, - for stdin")
	fs.StringVarP(&f.out, "out", "o", "-", "Output file, - for stdout")
	fs.StringVarP(&f.mode, "mode", "m", modeWrite, "write, read or send")
	fs.StringArrayVarP(&f.params, "param", "p", nil, "Job parameter key=value (repeatable)")
	fs.StringVar(&f.jobID, "job-id", "", "Job identifier; generated when empty")
	fs.BoolVar(&f.info, "info", false, "Print job id, content type and extension to stderr")
	return cmd
}

func runApply(cmd *cobra.Command, g *globalFlags, f *applyFlags) error {
	ctx := cmd.Context()
	switch f.mode {
	case modeWrite, modeRead, modeSend:
	default:
		return fmt.Errorf("%w: unknown mode %q", reshape.ErrConfig, f.mode)
	}
	params, err := parseParams(f.params)
	if err != nil {
		return err
	}
	reg, err := g.registry(ctx, cmd)
	if err != nil {
		return err
	}
	job, err := reshape.NewJob(ctx, reg, f.chain, params, reshape.WithJobID(f.jobID))
	if err != nil {
		return err
	}

	src, err := openInput(cmd, f.in)
	if err != nil {
		return err
	}
	dst, err := openOutput(cmd, f.out)
	if err != nil {
		_ = src.Close()
		return err
	}

	switch f.mode {
	case modeSend:
		_, err = job.Send(ctx, dst, src)
	case modeWrite:
		err = push(job, dst, src)
	case modeRead:
		err = pull(job, dst, src)
	}
	if err != nil {
		return err
	}

	if f.info {
		fmt.Fprintf(cmd.ErrOrStderr(), "job=%s content-type=%s extension=%q\n", job.ID(), job.ContentType(), job.Extension())
	}
	return nil
}

// push copies src into the output side; the writer owns dst.
func push(job *reshape.Job, dst io.WriteCloser, src io.ReadCloser) error {
	defer func() { _ = src.Close() }()
	w, err := job.Writer(dst)
	if err != nil {
		_ = dst.Close()
		return err
	}
	if _, err := io.Copy(w, src); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// pull copies the input side into dst; the reader owns src.
func pull(job *reshape.Job, dst io.WriteCloser, src io.ReadCloser) error {
	defer func() { _ = dst.Close() }()
	r, err := job.Reader(src)
	if err != nil {
		_ = src.Close()
		return err
	}
	if _, err := io.Copy(dst, r); err != nil {
		_ = r.Close()
		return err
	}
	return r.Close()
}

func parseParams(pairs []string) (reshape.Params, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return reshape.Params{}, fmt.Errorf("%w: --param %q: want key=value", reshape.ErrConfig, pair)
		}
		values[k] = v
	}
	return reshape.NewParams(values), nil
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	return f, nil
}

func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloseWriter{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output %s: %w", path, err)
	}
	return f, nil
}

// nopCloseWriter keeps stdout open when the chain closes its sink.
type nopCloseWriter struct {
	io.Writer
}

func (nopCloseWriter) Close() error { return nil }
