// Package errors mirrors the API of github.com/pkg/errors and adds coded client errors.
//
// Every wrap records a stack trace. When an error is wrapped several times on the same goroutine the
// redundant traces are hidden, so a formatted error normally shows only the root trace.
package errors

import (
	stderrors "errors" //nolint: depguard
	"fmt"
	"io"
	"runtime"

	"github.com/pkg/errors" //nolint: depguard
)

// New returns an error with the supplied message and the current stack trace.
func New(message string) error {
	return newTraced(nil, message)
}

// Errorf formats an error message and records the current stack trace.
func Errorf(format string, args ...interface{}) error {
	return newTraced(nil, fmt.Sprintf(format, args...))
}

// Wrap annotates err with message and a stack trace. Wrap returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return newTraced(err, message)
}

// Wrapf is Wrap with a format specifier.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return newTraced(err, fmt.Sprintf(format, args...))
}

// WithStack annotates err with a stack trace only.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	return newTraced(err, "")
}

// Cause walks the Cause chain and returns the innermost error.
func Cause(err error) error {
	for err != nil {
		c, ok := err.(causer)
		if !ok || c.Cause() == nil {
			break
		}
		err = c.Cause()
	}
	return err
}

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

type tracedErr struct {
	cause error
	stack errors.StackTrace
	msg   string
}

func newTraced(cause error, msg string) error {
	// drop this function and the exported caller from the trace
	stack := errors.New("").(stackTracer).StackTrace()[2:]
	return &tracedErr{cause: cause, stack: stack, msg: msg}
}

func (e *tracedErr) Error() string {
	switch {
	case e.cause == nil:
		return e.msg
	case e.msg == "":
		return e.cause.Error()
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

func (e *tracedErr) Cause() error { return e.cause }

func (e *tracedErr) Unwrap() error { return e.cause }

// StackTrace returns nil when the cause already carries a trace from the same call path, so that
// only unique traces are reported.
func (e *tracedErr) StackTrace() errors.StackTrace {
	var inner errors.StackTrace
	switch c := e.cause.(type) {
	case *tracedErr:
		inner = c.stack
	case stackTracer:
		inner = c.StackTrace()
	}
	if len(inner) < len(e.stack) {
		return e.stack
	}
	// compare from the outermost frame inwards, skipping the frame where the wrap happened
	for i := 1; i < len(e.stack); i++ {
		if inner[len(inner)-i] != e.stack[len(e.stack)-i] {
			return e.stack
		}
	}
	if sameFunc(inner[len(inner)-len(e.stack)], e.stack[0]) {
		return nil
	}
	return e.stack
}

// sameFunc ignores line numbers, since a wrap usually happens a few lines below the call that failed.
func sameFunc(f1, f2 errors.Frame) bool {
	fn1 := runtime.FuncForPC(uintptr(f1) - 1)
	fn2 := runtime.FuncForPC(uintptr(f2) - 1)
	if fn1 == nil || fn2 == nil {
		return false
	}
	file1, _ := fn1.FileLine(uintptr(f1) - 1)
	file2, _ := fn2.FileLine(uintptr(f2) - 1)
	return file1 == file2 && fn1.Name() == fn2.Name()
}

// nolint:errcheck
func (e *tracedErr) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if !s.Flag('+') {
			io.WriteString(s, e.Error())
			return
		}
		if e.cause != nil {
			fmt.Fprintf(s, "%+v", e.cause)
			if e.msg != "" {
				io.WriteString(s, "\n")
			}
		}
		io.WriteString(s, e.msg)
		if stack := e.StackTrace(); stack != nil {
			fmt.Fprintf(s, "%+v", stack)
		}
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

type causer interface {
	Cause() error
}
