package reshape

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Job applies one resolved chain to the files of one distribution job.
// A Job is used from a single goroutine; build one per job.
type Job struct {
	id          string
	declaration ChainDeclaration
	chain       *ResolvedChain
	params      Params
}

// JobOption configures a Job.
type JobOption func(*Job)

// WithJobID overrides the generated job identifier.
func WithJobID(id string) JobOption {
	return func(j *Job) {
		if id != "" {
			j.id = id
		}
	}
}

// NewJob parses declaration, resolves it against reg and binds params.
// An empty declaration yields a job whose streams pass through untouched.
// Failures are configuration errors: the returned *JobError matches ErrConfig.
func NewJob(ctx context.Context, reg *Registry, declaration string, params Params, opts ...JobOption) (*Job, error) {
	j := &Job{
		id:     uuid.NewString(),
		params: params,
	}
	for _, opt := range opts {
		opt(j)
	}

	decl, err := ParseChain(declaration)
	if err != nil {
		return nil, newJobError(j.id, "configure", err)
	}
	chain, err := reg.Resolve(ctx, decl)
	if err != nil {
		return nil, newJobError(j.id, "configure", err)
	}
	j.declaration = decl
	j.chain = chain

	emitJobCreated(ctx, j.id, decl.String(), len(chain.Input), len(chain.Output))
	return j, nil
}

// ID returns the job identifier.
func (j *Job) ID() string { return j.id }

// Declaration returns the parsed declaration.
func (j *Job) Declaration() ChainDeclaration { return j.declaration }

// Chain returns the resolved chain.
func (j *Job) Chain() *ResolvedChain { return j.chain }

// Params returns the parameter bag.
func (j *Job) Params() Params { return j.params }

// ContentType returns the MIME type of the bytes the job delivers.
func (j *Job) ContentType() string { return j.chain.ContentType() }

// Extension returns the file-extension hint of the bytes the job delivers.
func (j *Job) Extension() string { return j.chain.Extension() }

// Reader wraps r with the input side of the chain. Errors produced while
// reading or closing are returned as *JobError; io.EOF is passed through.
func (j *Job) Reader(r io.Reader) (io.ReadCloser, error) {
	rc, err := j.chain.WrapReader(r, j.params)
	if err != nil {
		return nil, newJobError(j.id, "read", err)
	}
	return &jobReader{id: j.id, rc: rc}, nil
}

// Writer wraps w with the output side of the chain. The returned writer
// must be closed to emit trailing framing. Errors are returned as *JobError.
func (j *Job) Writer(w io.Writer) (io.WriteCloser, error) {
	wc, err := j.chain.WrapWriter(w, j.params)
	if err != nil {
		return nil, newJobError(j.id, "write", err)
	}
	return &jobWriter{id: j.id, wc: wc}, nil
}

// Send moves one file from src to dst through both sides of the chain and
// closes the wrapped streams. It returns the number of bytes read from the
// input side.
func (j *Job) Send(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	start := time.Now()
	emitSendStart(ctx, j.id, j.ContentType())

	var retErr error
	var retSize int64
	defer func() {
		emitSendComplete(ctx, j.id, j.ContentType(), retSize, time.Since(start), retErr)
	}()

	in, err := j.Reader(src)
	if err != nil {
		retErr = err
		return 0, retErr
	}
	out, err := j.Writer(dst)
	if err != nil {
		_ = in.Close()
		retErr = err
		return 0, retErr
	}

	retSize, err = io.Copy(out, in)
	// Close both on every path; the copy error wins.
	cerr := out.Close()
	rerr := in.Close()
	switch {
	case err != nil:
		retErr = newJobError(j.id, "send", err)
	case cerr != nil:
		retErr = newJobError(j.id, "close", cerr)
	case rerr != nil:
		retErr = newJobError(j.id, "close", rerr)
	}
	return retSize, retErr
}

// jobReader wraps stream errors in *JobError.
type jobReader struct {
	id string
	rc io.ReadCloser
}

func (r *jobReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if err != nil && err != io.EOF {
		return n, newJobError(r.id, "read", err)
	}
	return n, err
}

func (r *jobReader) Close() error {
	return newJobError(r.id, "close", r.rc.Close())
}

// jobWriter wraps stream errors in *JobError.
type jobWriter struct {
	id string
	wc io.WriteCloser
}

func (w *jobWriter) Write(p []byte) (int, error) {
	n, err := w.wc.Write(p)
	return n, newJobError(w.id, "write", err)
}

func (w *jobWriter) Close() error {
	return newJobError(w.id, "close", w.wc.Close())
}
