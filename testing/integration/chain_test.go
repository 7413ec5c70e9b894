package integration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"filippo.io/age"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/reshape"
	reshapetest "github.com/zoobzio/reshape/testing"
)

const soap11Open = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
	`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>`

func markerRegistry(ctx context.Context) *reshape.Registry {
	return reshape.NewRegistry(ctx, reshape.Table{
		"A":   "mark",
		"B":   "mark",
		"OUT": "out",
	}, reshapetest.MarkerProvider("mark"), reshapetest.OutputMarkerProvider("out"))
}

func push(t *testing.T, job *reshape.Job, payload string) string {
	t.Helper()
	var sink bytes.Buffer
	w, err := job.Writer(&sink)
	require.NoError(t, err)
	_, err = io.WriteString(w, payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return sink.String()
}

func pull(t *testing.T, job *reshape.Job, payload string) string {
	t.Helper()
	r, err := job.Reader(strings.NewReader(payload))
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	return string(out)
}

func TestChainOrdering(t *testing.T) {
	ctx := context.Background()
	reg := markerRegistry(ctx)

	for _, decl := range []string{"A(a)>>B(b)", "B(b)<<A(a)"} {
		t.Run(decl, func(t *testing.T) {
			job, err := reshape.NewJob(ctx, reg, decl, reshape.Params{})
			require.NoError(t, err)

			chain := job.Chain()
			require.Len(t, chain.Input, 2)
			require.Len(t, chain.Output, 2)
			assert.Equal(t, reshape.Parameter("a"), chain.Input[0].Declaration.Parameter)
			assert.Equal(t, reshape.Parameter("b"), chain.Input[1].Declaration.Parameter)
			assert.Equal(t, reshape.Parameter("b"), chain.Output[0].Declaration.Parameter)
			assert.Equal(t, reshape.Parameter("a"), chain.Output[1].Declaration.Parameter)

			// The last-declared modifier is outermost on both sides.
			assert.Equal(t, "<b><a>x</a></b>", pull(t, job, "x"))
			assert.Equal(t, "<b><a>x</a></b>", push(t, job, "x"))
			assert.Equal(t, "text/x-b", job.ContentType())
			assert.Equal(t, ".a.b", job.Extension())
		})
	}
}

func TestPushOnlyModifierSkipsInput(t *testing.T) {
	ctx := context.Background()
	job, err := reshape.NewJob(ctx, markerRegistry(ctx), "A(a)>>OUT(o)", reshape.Params{})
	require.NoError(t, err)

	assert.Equal(t, "<a>x</a>", pull(t, job, "x"))
	assert.Equal(t, "<o><a>x</a></o>", push(t, job, "x"))
}

func TestSendAppliesBothSides(t *testing.T) {
	ctx := context.Background()
	job, err := reshape.NewJob(ctx, markerRegistry(ctx), "A(a)>>OUT(o)", reshape.Params{})
	require.NoError(t, err)

	sink := &reshapetest.Sink{}
	src := reshapetest.NewSource("x")
	n, err := job.Send(ctx, sink, src)
	require.NoError(t, err)

	assert.Equal(t, "<o><a><a>x</a></a></o>", sink.String())
	assert.Equal(t, int64(len("<a>x</a>")), n)
	assert.Equal(t, 1, sink.Closes)
	assert.Equal(t, 1, src.Closes)
}

func TestBase64InSOAPEnvelope(t *testing.T) {
	ctx := context.Background()
	reg := reshapetest.Registry(t, reshape.Settings{})
	job, err := reshape.NewJob(ctx, reg, "BASE64>>Envelope(SOAP_1_1)", reshape.Params{})
	require.NoError(t, err)

	assert.Equal(t, soap11Open+"QUJD</soap:Body></soap:Envelope>", push(t, job, "ABC"))
	assert.Equal(t, "text/xml", job.ContentType())
	assert.Equal(t, ".b64.xml", job.Extension())
}

func TestAbsentDeclarationAddsNothing(t *testing.T) {
	ctx := context.Background()
	job, err := reshape.NewJob(ctx, reshapetest.Registry(t, reshape.Settings{}), "", reshape.Params{})
	require.NoError(t, err)

	assert.True(t, job.Chain().Empty())
	assert.Equal(t, "report", push(t, job, "report"))
	assert.Equal(t, "report", pull(t, job, "report"))
	assert.Equal(t, "application/octet-stream", job.ContentType())
}

func TestUnknownAliasIsDropped(t *testing.T) {
	ctx := context.Background()
	job, err := reshape.NewJob(ctx, reshapetest.Registry(t, reshape.Settings{}), "NOPE>>BASE64", reshape.Params{})
	require.NoError(t, err)

	assert.Len(t, job.Chain().Output, 1)
	assert.Equal(t, "QUJD", push(t, job, "ABC"))
}

func TestConfigurationErrors(t *testing.T) {
	ctx := context.Background()
	reg := reshapetest.Registry(t, reshape.Settings{})

	tests := []struct {
		decl string
		want error
	}{
		{"BASE64>>GZIP<<LZ4", reshape.ErrMixedSeparators},
		{"BASE64>>>>GZIP", reshape.ErrEmptyToken},
		{"GZIP()", reshape.ErrInvalidParameter},
		{"GZIP(11)", reshape.ErrInvalidParameter},
		{"Envelope(SOAP_9)", reshape.ErrInvalidParameter},
		{"BASE 64", reshape.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			_, err := reshape.NewJob(ctx, reg, tt.decl, reshape.Params{}, reshape.WithJobID("job-1"))
			require.Error(t, err)
			assert.ErrorIs(t, err, reshape.ErrConfig)
			assert.ErrorIs(t, err, tt.want)

			var jobErr *reshape.JobError
			require.ErrorAs(t, err, &jobErr)
			assert.Equal(t, "job-1", jobErr.JobID)
			assert.Equal(t, "configure", jobErr.Op)
		})
	}
}

func TestGzipThenDigest(t *testing.T) {
	ctx := context.Background()
	job, err := reshape.NewJob(ctx, reshapetest.Registry(t, reshape.Settings{}), "GZIP>>Digest(blake3)", reshape.Params{})
	require.NoError(t, err)

	out := push(t, job, strings.Repeat("row\n", 100))
	idx := strings.LastIndex(out, "blake3:")
	require.Positive(t, idx)
	assert.Equal(t, "application/gzip", job.ContentType())

	// The trailer line follows the gzip member; stop reading at its end.
	zr, err := gzip.NewReader(strings.NewReader(out[:idx]))
	require.NoError(t, err)
	zr.Multistream(false)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("row\n", 100), string(plain))
}

func TestAgeJob(t *testing.T) {
	ctx := context.Background()
	id := reshapetest.Identity(t)
	params := reshape.NewParams(map[string]string{"age.recipient": id.Recipient().String()})

	job, err := reshape.NewJob(ctx, reshapetest.Registry(t, reshape.Settings{}), "AGE", params)
	require.NoError(t, err)

	ciphertext := push(t, job, "secret ledger")
	r, err := age.Decrypt(strings.NewReader(ciphertext), id)
	require.NoError(t, err)
	plain, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "secret ledger", string(plain))
}

func TestAgeWithoutRecipientFailsAtWrap(t *testing.T) {
	ctx := context.Background()
	job, err := reshape.NewJob(ctx, reshapetest.Registry(t, reshape.Settings{}), "AGE", reshape.Params{})
	require.NoError(t, err)

	_, err = job.Writer(&bytes.Buffer{})
	assert.ErrorIs(t, err, reshape.ErrMissingParameter)
	var jobErr *reshape.JobError
	assert.True(t, errors.As(err, &jobErr))
}

func TestCharsetJob(t *testing.T) {
	ctx := context.Background()
	job, err := reshape.NewJob(ctx, reshapetest.Registry(t, reshape.Settings{}), "Charset(windows-1252)", reshape.Params{})
	require.NoError(t, err)

	assert.Equal(t, "caf\xe9", push(t, job, "café"))
	assert.Equal(t, "text/plain; charset=windows-1252", job.ContentType())
}
