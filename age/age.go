// Package age provides the AGE modifier, which encrypts report output to
// one or more age recipients.
//
// Recipients are taken from the job parameters, not the declaration, so a
// single alias table serves every distribution target:
//
//	age.recipient=age1ql3z7hjy54pw3hyww5ayyfg7zqgvc7w3j2elw8zmrj2kg5sfn9aqmcac8p
//
// Several recipients are separated by commas.
package age

import (
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
	"github.com/zoobzio/reshape"
)

// ID is the implementation identifier.
const ID = "age"

// RecipientParam is the bag key holding the recipients.
const RecipientParam = "age.recipient"

// Encrypter encrypts a stream in the age format.
type Encrypter struct {
	armored bool
}

// New returns an encrypter. The parameter ARMOR selects the PEM-style ASCII
// armor; empty selects the binary format.
func New(param reshape.Parameter) (*Encrypter, error) {
	switch strings.ToUpper(string(param)) {
	case "":
		return &Encrypter{}, nil
	case "ARMOR":
		return &Encrypter{armored: true}, nil
	default:
		return nil, fmt.Errorf("%w: age format %q", reshape.ErrInvalidParameter, param)
	}
}

// Provider returns the implementation.
func Provider() reshape.Implementation {
	return reshape.Provide(ID, New)
}

// ContentType returns the MIME type of the ciphertext.
func (e *Encrypter) ContentType() string {
	if e.armored {
		return "text/plain"
	}
	return "application/age"
}

// Extension returns ".age".
func (e *Encrypter) Extension() string {
	return ".age"
}

// WrapWriter returns a writer encrypting into w.
func (e *Encrypter) WrapWriter(w io.Writer, params reshape.Params) (io.WriteCloser, error) {
	enc, err := e.encoder(params)
	if err != nil {
		return nil, err
	}
	wc, err := enc(w)
	if err != nil {
		return nil, err
	}
	return &reshape.ChainWriter{WriteCloser: wc, Next: w}, nil
}

// WrapReader returns a reader producing the encryption of r.
func (e *Encrypter) WrapReader(r io.Reader, params reshape.Params) (io.ReadCloser, error) {
	enc, err := e.encoder(params)
	if err != nil {
		return nil, err
	}
	return reshape.NewEncodingReader(r, enc)
}

func (e *Encrypter) encoder(params reshape.Params) (reshape.EncoderFunc, error) {
	recipients, err := parseRecipients(params)
	if err != nil {
		return nil, err
	}
	return func(w io.Writer) (io.WriteCloser, error) {
		if !e.armored {
			return encrypt(w, recipients)
		}
		aw := armor.NewWriter(w)
		wc, err := encrypt(aw, recipients)
		if err != nil {
			return nil, err
		}
		return &armoredWriter{WriteCloser: wc, armor: aw}, nil
	}, nil
}

func encrypt(w io.Writer, recipients []age.Recipient) (io.WriteCloser, error) {
	wc, err := age.Encrypt(w, recipients...)
	if err != nil {
		return nil, fmt.Errorf("age: %w", err)
	}
	return wc, nil
}

func parseRecipients(params reshape.Params) ([]age.Recipient, error) {
	raw, err := params.Require(RecipientParam)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			lines = append(lines, part)
		}
	}
	if len(lines) == 0 {
		return nil, &reshape.ParamError{Err: reshape.ErrMissingParameter, Key: RecipientParam}
	}
	recipients, err := age.ParseRecipients(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		return nil, &reshape.ParamError{Err: reshape.ErrInvalidParameter, Key: RecipientParam, Cause: err}
	}
	return recipients, nil
}

// armoredWriter closes the encryption layer and then the armor.
type armoredWriter struct {
	io.WriteCloser
	armor io.WriteCloser
}

func (a *armoredWriter) Close() error {
	if err := a.WriteCloser.Close(); err != nil {
		_ = a.armor.Close()
		return err
	}
	return a.armor.Close()
}
