// Package row provides read-only views over the tuples returned by a query.
//
// A tuple is parsed exactly once, when the row is built. Field access after that is a slot lookup
// plus a slice of the row's buffer, which is handed to the caller's decoder for the duration of the
// decode call only.
package row

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
	"github.com/squareup/pgrow/types"
)

// Row is a row of data returned by an extended (prepared statement) query. Rows are immutable and may
// be read concurrently.
type Row struct {
	columns        common.Columns
	body           []byte
	ranges         []fieldRange
	extractAllowed bool
}

// New parses body and builds a Row over it. New takes ownership of body, which must not be modified
// afterwards. columns is shared with every other row of the statement and is never modified.
//
// extractAllowed must be true only if every field was encoded in the binary format.
func New(columns common.Columns, body []byte, extractAllowed bool) (*Row, error) {
	ranges, err := parseColumnRanges(columns.Len(), body)
	if err != nil {
		return nil, err
	}
	return &Row{
		columns:        columns,
		body:           body,
		ranges:         ranges,
		extractAllowed: extractAllowed,
	}, nil
}

func parseColumnRanges(numCols int, body []byte) ([]fieldRange, error) {
	ranges, err := parseRanges(body)
	if err != nil {
		return nil, errors.NewTupleParseError(err)
	}
	if len(ranges) != numCols {
		return nil, errors.NewTupleParseError(errors.Errorf("tuple has %d fields but there are %d columns",
			len(ranges), numCols))
	}
	return ranges, nil
}

// Columns returns information about the columns of data in the row.
func (r *Row) Columns() common.Columns {
	return r.columns
}

// Len returns the number of values in the row.
func (r *Row) Len() int {
	return len(r.columns)
}

// IsEmpty determines if the row contains no values.
func (r *Row) IsEmpty() bool {
	return r.Len() == 0
}

// ExtractAllowed reports whether values can be extracted with Get and TryGet. This is only the case
// when the tuple was encoded in the binary format.
func (r *Row) ExtractAllowed() bool {
	return r.extractAllowed
}

// Body returns the raw tuple the row was built from. It must be treated as read-only.
func (r *Row) Body() []byte {
	return r.body
}

// Get decodes the value at idx into dst, which the caller has chosen for the column's type.
//
// Get is for callers that already know the shape of the result, e.g. right after describing the
// statement. It panics if the row is not binary encoded, the column does not exist, dst does not
// accept the column type or decoding fails. Never use it with indexes that come from user input;
// use TryGet instead.
func (r *Row) Get(idx Index, dst types.FromSQL) {
	if err := r.TryGet(idx, dst); err != nil {
		panic(fmt.Sprintf("error retrieving column %s: %v", idx, err))
	}
}

// TryGet is like Get but returns an error rather than panicking.
func (r *Row) TryGet(idx Index, dst types.FromSQL) error {
	if !r.extractAllowed {
		return errors.NewNonBinaryFormatError()
	}
	slot, ok := idx.Resolve(r.columns)
	if !ok {
		return errors.NewColumnNotFoundError(idx.String())
	}
	ty := r.columns[slot].Type
	if !dst.Accepts(ty) {
		return errors.NewTypeMismatchError(goTypeName(dst), ty.String())
	}
	if err := dst.FromSQLNullable(ty, r.colBuffer(slot)); err != nil {
		return errors.NewDecodeError(slot, err)
	}
	return nil
}

// colBuffer returns the raw bytes of the field in slot, or nil if it is NULL. The result is never nil
// for a non NULL field, even a zero length one.
func (r *Row) colBuffer(slot int) []byte {
	rng := r.ranges[slot]
	if !rng.valid {
		return nil
	}
	return r.body[rng.start:rng.end:rng.end]
}

func (r *Row) String() string {
	return fmt.Sprintf("Row{columns: %s}", describeColumns(r.columns))
}

func describeColumns(cols common.Columns) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func goTypeName(dst types.FromSQL) string {
	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.String()
}
