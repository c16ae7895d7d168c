package errors

import "fmt"

type ErrorCode int

const (
	InternalError ErrorCode = iota
	InvalidConfiguration
	InvalidStatement
	TupleParseError
	ColumnNotFound
	NonBinaryFormat
	TypeMismatch
	DecodeFailure
	EncodingMismatch
	ClientClosed
	UnexpectedRowCount
)

func NewInternalError(ref string) ClientError {
	return NewClientErrorf(InternalError, "Internal error - reference %s please consult logs for details", ref)
}

func NewInvalidConfigurationError(msg string) ClientError {
	return NewClientErrorf(InvalidConfiguration, "Invalid configuration: %s", msg)
}

func NewInvalidStatementError(msg string) ClientError {
	return NewClientErrorf(InvalidStatement, "%s", msg)
}

// NewTupleParseError is returned when a tuple's framing is malformed. The row is never built.
func NewTupleParseError(cause error) ClientError {
	e := NewClientErrorf(TupleParseError, "error parsing row: %v", cause)
	e.cause = cause
	return e
}

// NewColumnNotFoundError carries the index exactly as the caller gave it.
func NewColumnNotFoundError(index string) ClientError {
	return NewClientErrorf(ColumnNotFound, "invalid column %s", index)
}

func NewNonBinaryFormatError() ClientError {
	return NewClientErrorf(NonBinaryFormat, "format must be binary to support value extraction")
}

func NewTypeMismatchError(requested string, declared string) ClientError {
	return NewClientErrorf(TypeMismatch, "cannot convert between Go type %s and column type %s", requested, declared)
}

func NewDecodeError(colIndex int, cause error) ClientError {
	e := NewClientErrorf(DecodeFailure, "error deserializing column %d: %v", colIndex, cause)
	e.cause = cause
	return e
}

func NewEncodingMismatchError(requested string, negotiated string) ClientError {
	return NewClientErrorf(EncodingMismatch, "the requested encoding '%s' does not match the statement's encoding '%s'",
		requested, negotiated)
}

func NewClientClosedError() ClientError {
	return NewClientErrorf(ClientClosed, "client is closed")
}

func NewUnexpectedRowCountError(count int) ClientError {
	return NewClientErrorf(UnexpectedRowCount, "query returned %d rows, expected exactly one", count)
}

func NewClientErrorf(errorCode ErrorCode, msgFormat string, args ...interface{}) ClientError {
	msg := fmt.Sprintf(fmt.Sprintf("PGR%04d - %s", errorCode, msgFormat), args...)
	return ClientError{Code: errorCode, Msg: msg}
}

func NewClientError(errorCode ErrorCode, msg string) ClientError {
	return ClientError{Code: errorCode, Msg: msg}
}

// ClientError is any error that is returned to users of the row and statement APIs
type ClientError struct {
	Code  ErrorCode
	Msg   string
	cause error
}

func (u ClientError) Error() string {
	return u.Msg
}

func (u ClientError) Unwrap() error {
	return u.cause
}

// HasCode reports whether err, or anything it wraps, is a ClientError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var ce ClientError
	if !As(err, &ce) {
		return false
	}
	return ce.Code == code
}

// MaybeAddStack leaves client errors untouched so callers can still compare them by value.
func MaybeAddStack(err error) error {
	if _, ok := err.(ClientError); ok {
		return err
	}
	return WithStack(err)
}
