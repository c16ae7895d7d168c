package row

import (
	"fmt"

	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
	"github.com/squareup/pgrow/types"
)

// SimpleQueryRow is a row of data returned by a simple query. Simple queries always return text, so
// every value is read as an optional string.
type SimpleQueryRow struct {
	columns common.SimpleColumns
	body    []byte
	ranges  []fieldRange
}

// NewSimpleQueryRow parses body and builds a row over it. Like New it takes ownership of body.
func NewSimpleQueryRow(columns common.SimpleColumns, body []byte) (*SimpleQueryRow, error) {
	ranges, err := parseColumnRanges(columns.Len(), body)
	if err != nil {
		return nil, err
	}
	return &SimpleQueryRow{columns: columns, body: body, ranges: ranges}, nil
}

// Columns returns information about the columns of data in the row.
func (r *SimpleQueryRow) Columns() common.SimpleColumns {
	return r.columns
}

// Len returns the number of values in the row.
func (r *SimpleQueryRow) Len() int {
	return len(r.columns)
}

// IsEmpty determines if the row contains no values.
func (r *SimpleQueryRow) IsEmpty() bool {
	return r.Len() == 0
}

// Get returns the value at idx. ok is false if the value is NULL.
//
// Get panics if the column does not exist or the value is not valid UTF-8.
func (r *SimpleQueryRow) Get(idx Index) (value string, ok bool) {
	value, ok, err := r.TryGet(idx)
	if err != nil {
		panic(fmt.Sprintf("error retrieving column %s: %v", idx, err))
	}
	return value, ok
}

// TryGet is like Get but returns an error rather than panicking.
func (r *SimpleQueryRow) TryGet(idx Index) (value string, ok bool, err error) {
	slot, found := idx.Resolve(r.columns)
	if !found {
		return "", false, errors.NewColumnNotFoundError(idx.String())
	}
	rng := r.ranges[slot]
	if !rng.valid {
		return "", false, nil
	}
	var text types.Text
	if err := text.FromSQLNullable(common.TypeText, r.body[rng.start:rng.end:rng.end]); err != nil {
		return "", false, errors.NewDecodeError(slot, err)
	}
	return string(text), true, nil
}
