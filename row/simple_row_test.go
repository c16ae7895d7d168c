package row

import (
	"testing"

	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
	"github.com/stretchr/testify/require"
)

func TestSimpleQueryRow(t *testing.T) {
	cols := common.NewSimpleColumns("id", "name", "note")
	r, err := NewSimpleQueryRow(cols, AppendTuple(nil, [][]byte{[]byte("7"), []byte("ada"), nil}))
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())
	require.False(t, r.IsEmpty())
	require.Equal(t, cols, r.Columns())

	v, ok := r.Get(Pos(0))
	require.True(t, ok)
	require.Equal(t, "7", v)

	v, ok = r.Get(Name("NAME"))
	require.True(t, ok)
	require.Equal(t, "ada", v)

	v, ok = r.Get(Name("note"))
	require.False(t, ok)
	require.Equal(t, "", v)

	_, _, err = r.TryGet(Pos(3))
	requireCode(t, err, errors.ColumnNotFound)
	_, _, err = r.TryGet(Name("missing"))
	requireCode(t, err, errors.ColumnNotFound)
}

func TestSimpleQueryRowInvalidUTF8(t *testing.T) {
	r, err := NewSimpleQueryRow(common.NewSimpleColumns("a", "b"), AppendTuple(nil, [][]byte{[]byte("ok"), {0xc3, 0x28}}))
	require.NoError(t, err)
	_, _, err = r.TryGet(Pos(1))
	requireCode(t, err, errors.DecodeFailure)
	require.Panics(t, func() {
		r.Get(Pos(1))
	})
}

func TestSimpleQueryRowParseErrors(t *testing.T) {
	cols := common.NewSimpleColumns("a")
	_, err := NewSimpleQueryRow(cols, []byte{0, 1, 0, 0})
	requireCode(t, err, errors.TupleParseError)
	_, err = NewSimpleQueryRow(cols, AppendTuple(nil, [][]byte{nil, nil}))
	requireCode(t, err, errors.TupleParseError)
}

func TestSimpleQueryRowEmpty(t *testing.T) {
	r, err := NewSimpleQueryRow(common.SimpleColumns{}, AppendTuple(nil, nil))
	require.NoError(t, err)
	require.True(t, r.IsEmpty())
	require.Panics(t, func() {
		r.Get(Pos(0))
	})
}
