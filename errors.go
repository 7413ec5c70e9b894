package reshape

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrConfig marks a job-fatal configuration failure raised before any
	// stream is touched.
	ErrConfig = errors.New("invalid configuration")

	// ErrMixedSeparators indicates a declaration uses both ">>" and "<<".
	ErrMixedSeparators = errors.New("mixed chain separators")

	// ErrEmptyToken indicates a declaration contains an empty token.
	ErrEmptyToken = errors.New("empty token")

	// ErrInvalidToken indicates a token does not match alias [ '(' parameter ')' ].
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidAlias indicates an alias violates the alias grammar.
	ErrInvalidAlias = errors.New("invalid alias")

	// ErrInvalidParameter indicates a modifier rejected its declared parameter.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrMissingParameter indicates a required entry is absent from the parameter bag.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrContent indicates a content builder failed to produce a prefix or suffix.
	ErrContent = errors.New("content build failed")

	// ErrWriteAfterSuffix indicates a write reached an envelope after its suffix was emitted.
	ErrWriteAfterSuffix = errors.New("write after suffix")

	// ErrClosed indicates an operation on a closed stream.
	ErrClosed = errors.New("stream closed")

	// ErrUnsupported indicates a modifier was asked for a role it does not have.
	ErrUnsupported = errors.New("unsupported role")
)

// DeclarationError represents a malformed or unresolvable chain declaration.
// It wraps a sentinel error with the offending token.
type DeclarationError struct {
	Err   error  // Underlying sentinel error (ErrEmptyToken, etc.)
	Input string // Full declaration text
	Token string // Offending token, if any
	Cause error  // Original error from a modifier factory, if any
}

func (e *DeclarationError) Error() string {
	msg := e.Err.Error()
	if e.Token != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Token)
	}
	if e.Input != "" {
		msg = fmt.Sprintf("%s in declaration %q", msg, e.Input)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *DeclarationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, ErrConfig, e.Cause}
	}
	return []error{e.Err, ErrConfig}
}

// ContentError represents a content builder failure for one framing segment.
type ContentError struct {
	Segment string // "prefix" or "suffix"
	Cause   error  // Original error from the builder
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrContent.Error(), e.Segment, e.Cause)
}

func (e *ContentError) Unwrap() []error {
	return []error{ErrContent, e.Cause}
}

// ParamError represents a parameter bag lookup or validation failure.
type ParamError struct {
	Err   error  // Underlying sentinel error (ErrMissingParameter, ErrInvalidParameter)
	Key   string // Parameter key
	Cause error  // Parse failure of the value, if any
}

func (e *ParamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %q: %v", e.Err.Error(), e.Key, e.Cause)
	}
	return fmt.Sprintf("%s %q", e.Err.Error(), e.Key)
}

func (e *ParamError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// JobError is the single error type a job surfaces to its caller.
// The original cause stays reachable through errors.Is and errors.As.
type JobError struct {
	JobID string // Job identifier
	Op    string // Operation that failed (configure, read, write, close, send)
	Err   error  // Original error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("job %s: %s: %v", e.JobID, e.Op, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// newDeclarationError creates a DeclarationError for parse and resolution failures.
func newDeclarationError(sentinel error, input, token string) error {
	return &DeclarationError{
		Err:   sentinel,
		Input: input,
		Token: token,
	}
}

// newContentError creates a ContentError for the named segment.
func newContentError(segment string, cause error) error {
	return &ContentError{
		Segment: segment,
		Cause:   cause,
	}
}

// newJobError wraps err for the caller unless it is nil or already a JobError.
func newJobError(jobID, op string, err error) error {
	if err == nil {
		return nil
	}
	var je *JobError
	if errors.As(err, &je) {
		return err
	}
	return &JobError{
		JobID: jobID,
		Op:    op,
		Err:   err,
	}
}
