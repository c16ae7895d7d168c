package statement

import (
	"context"
	"fmt"

	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
)

// Ref is something that can be executed: either a statement that was prepared earlier or raw query
// text that still has to be prepared. It lets every execution method accept both.
type Ref struct {
	stmt  *Statement
	query string
}

// FromStatement refers to an already prepared statement.
func FromStatement(stmt *Statement) Ref {
	if stmt == nil {
		panic("nil statement")
	}
	return Ref{stmt: stmt}
}

// FromQuery refers to query text that is prepared when the Ref is resolved.
func FromQuery(query string) Ref {
	return Ref{query: query}
}

// IsPrepared reports whether the Ref holds an already prepared statement.
func (r Ref) IsPrepared() bool {
	return r.stmt != nil
}

// Resolve returns the statement to execute with results encoded in format.
//
// A prepared statement is returned as is if it was prepared for format and is an EncodingMismatch
// error otherwise; the preparer is not called. Query text is always prepared, with exactly the
// requested format, and errors from the preparer are returned unchanged.
func (r Ref) Resolve(ctx context.Context, preparer Preparer, format common.Format) (*Statement, error) {
	if r.stmt != nil {
		if r.stmt.ResultFormat() != format {
			return nil, errors.NewEncodingMismatchError(format.String(), r.stmt.ResultFormat().String())
		}
		return r.stmt, nil
	}
	return preparer.PrepareWithResultFormat(ctx, r.query, format)
}

func (r Ref) String() string {
	if r.stmt != nil {
		return r.stmt.String()
	}
	return fmt.Sprintf("query[%s]", r.query)
}
