// Package soap provides the Envelope modifier, which wraps the payload in a
// SOAP 1.1 or SOAP 1.2 envelope body.
//
// Job parameters prefixed with "soap.header." become elements of the
// envelope header, in key order:
//
//	soap.header.ReportID=42
//
// renders
//
//	<soap:Header><ReportID>42</ReportID></soap:Header>
package soap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/zoobzio/reshape"
)

// ID is the implementation identifier.
const ID = "soap"

// HeaderPrefix selects the job parameters rendered as header elements.
const HeaderPrefix = "soap.header."

// Version is a SOAP protocol version.
type Version string

// Supported versions, as written in declarations.
const (
	SOAP11 Version = "SOAP_1_1"
	SOAP12 Version = "SOAP_1_2"
)

var versions = map[Version]struct {
	namespace   string
	contentType string
}{
	SOAP11: {"http://schemas.xmlsoap.org/soap/envelope/", "text/xml"},
	SOAP12: {"http://www.w3.org/2003/05/soap-envelope", "application/soap+xml"},
}

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Envelope frames a payload as a SOAP body.
type Envelope struct {
	version     Version
	namespace   string
	contentType string
}

// New returns an envelope for the version the parameter names; empty
// selects SOAP_1_1.
func New(param reshape.Parameter) (*Envelope, error) {
	v := Version(strings.ToUpper(string(param)))
	if v == "" {
		v = SOAP11
	}
	info, ok := versions[v]
	if !ok {
		return nil, fmt.Errorf("%w: soap version %q", reshape.ErrInvalidParameter, param)
	}
	return &Envelope{version: v, namespace: info.namespace, contentType: info.contentType}, nil
}

// Provider returns the implementation.
func Provider() reshape.Implementation {
	return reshape.Provide(ID, New)
}

// Version returns the SOAP version.
func (e *Envelope) Version() Version {
	return e.version
}

// ContentType returns text/xml for SOAP 1.1 and application/soap+xml for
// SOAP 1.2.
func (e *Envelope) ContentType() string {
	return e.contentType
}

// Extension returns ".xml".
func (e *Envelope) Extension() string {
	return ".xml"
}

// WrapReader returns a reader serving the envelope around r.
func (e *Envelope) WrapReader(r io.Reader, params reshape.Params) (io.ReadCloser, error) {
	return reshape.NewEnvelopeReader(r, e.prefix, suffix, params), nil
}

// WrapWriter returns a writer framing the payload written to w.
func (e *Envelope) WrapWriter(w io.Writer, params reshape.Params) (io.WriteCloser, error) {
	return reshape.NewEnvelopeWriter(w, e.prefix, suffix, params), nil
}

func (e *Envelope) prefix(params reshape.Params) (io.Reader, error) {
	var b bytes.Buffer
	b.WriteString(xmlDeclaration)
	fmt.Fprintf(&b, `<soap:Envelope xmlns:soap="%s">`, e.namespace)

	md := reshape.NewMetadata(params, HeaderPrefix)
	if len(md.Entries) > 0 {
		b.WriteString("<soap:Header>")
		for _, entry := range md.Entries {
			if err := validName(entry.Key); err != nil {
				return nil, err
			}
			b.WriteString("<" + entry.Key + ">")
			if err := xml.EscapeText(&b, []byte(entry.Value)); err != nil {
				return nil, err
			}
			b.WriteString("</" + entry.Key + ">")
		}
		b.WriteString("</soap:Header>")
	}

	b.WriteString("<soap:Body>")
	return &b, nil
}

func suffix(reshape.Params) (io.Reader, error) {
	return strings.NewReader("</soap:Body></soap:Envelope>"), nil
}

// validName accepts header element names made of ASCII letters, digits,
// '-', '_' and '.', starting with a letter or '_'.
func validName(name string) error {
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
		case i > 0 && (r == '-' || r == '.' || (r >= '0' && r <= '9')):
		default:
			return fmt.Errorf("soap header: invalid element name %q", name)
		}
	}
	return nil
}
