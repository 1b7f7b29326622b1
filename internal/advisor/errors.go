package advisor

import "fmt"

// Kind classifies pipeline failures. Every kind is fatal to the request it
// occurs in; none are retried. Per-fund resolution and fetch failures are
// handled locally (drop or sentinel fill) and never surface as an Error.
type Kind string

const (
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindMalformedUpstream   Kind = "malformed_upstream_response"
	KindInvalidParameters   Kind = "invalid_parameters"
	KindEmptyCatalog        Kind = "empty_catalog"
	KindSchemaViolation     Kind = "schema_violation"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusForKind maps an error kind onto the HTTP status the host answers with.
// Invalid parameters are the caller's fault; everything else is an upstream or
// summarization problem.
func StatusForKind(kind Kind) int {
	switch kind {
	case KindInvalidParameters:
		return 400
	case KindUpstreamUnavailable, KindMalformedUpstream, KindEmptyCatalog, KindSchemaViolation:
		return 502
	default:
		return 500
	}
}

func upstreamErr(op string, err error) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Message: op + " call failed", Err: err}
}

func malformedErr(op string, err error) *Error {
	return &Error{Kind: KindMalformedUpstream, Message: op + " returned an unparseable response", Err: err}
}
