// Package statement models prepared statements and the references used to execute them.
package statement

import (
	"context"
	"fmt"

	"github.com/squareup/pgrow/common"
)

// Statement is a prepared statement. A *Statement is shared by every caller that executes it and by
// every row it produces; it is never modified after it is created.
type Statement struct {
	name         string
	query        string
	params       []common.Type
	columns      common.Columns
	resultFormat common.Format
}

// New is called by the protocol layer once the server has described a prepared statement.
func New(name string, query string, params []common.Type, columns common.Columns, resultFormat common.Format) *Statement {
	return &Statement{
		name:         name,
		query:        query,
		params:       params,
		columns:      columns,
		resultFormat: resultFormat,
	}
}

// Name is the server side name of the statement.
func (s *Statement) Name() string { return s.name }

func (s *Statement) Query() string { return s.query }

// Params returns the expected types of the statement's parameters.
func (s *Statement) Params() []common.Type { return s.params }

// Columns returns the columns of the rows the statement returns.
func (s *Statement) Columns() common.Columns { return s.columns }

// ResultFormat is the encoding negotiated for the statement's results when it was prepared.
func (s *Statement) ResultFormat() common.Format { return s.resultFormat }

func (s *Statement) String() string {
	return fmt.Sprintf("statement[name=%s,format=%s,columns=%d]", s.name, s.resultFormat, len(s.columns))
}

// Preparer prepares query text on the server with a fixed result encoding.
type Preparer interface {
	PrepareWithResultFormat(ctx context.Context, query string, format common.Format) (*Statement, error)
}
