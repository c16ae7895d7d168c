package statement

import (
	"context"
	"sync"
	"testing"

	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
	"github.com/stretchr/testify/require"
)

// fakePreparer prepares statements without a server and records every call.
type fakePreparer struct {
	lock  sync.Mutex
	calls []string
	err   error
	hook  func(ctx context.Context)
}

func (f *fakePreparer) PrepareWithResultFormat(ctx context.Context, query string, format common.Format) (*Statement, error) {
	f.lock.Lock()
	f.calls = append(f.calls, query)
	err := f.err
	hook := f.hook
	f.lock.Unlock()
	if hook != nil {
		hook(ctx)
	}
	if err != nil {
		return nil, err
	}
	cols := common.NewColumns([]string{"c"}, []common.Type{common.TypeText})
	return New("s_"+query, query, nil, cols, format), nil
}

func (f *fakePreparer) numCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.calls)
}

func TestResolvePreparedSameFormat(t *testing.T) {
	stmt := New("s1", "select 1", nil, nil, common.FormatBinary)
	p := &fakePreparer{}
	resolved, err := FromStatement(stmt).Resolve(context.Background(), p, common.FormatBinary)
	require.NoError(t, err)
	require.Same(t, stmt, resolved)
	require.Equal(t, 0, p.numCalls())
}

func TestResolvePreparedFormatMismatch(t *testing.T) {
	stmt := New("s1", "select 1", nil, nil, common.FormatBinary)
	p := &fakePreparer{}
	resolved, err := FromStatement(stmt).Resolve(context.Background(), p, common.FormatText)
	require.Nil(t, resolved)
	require.True(t, errors.HasCode(err, errors.EncodingMismatch))
	require.Contains(t, err.Error(), "'text'")
	require.Contains(t, err.Error(), "'binary'")
	require.Equal(t, 0, p.numCalls())
}

func TestResolveQueryPrepares(t *testing.T) {
	p := &fakePreparer{}
	ref := FromQuery("select name from users")
	require.False(t, ref.IsPrepared())
	for _, format := range []common.Format{common.FormatText, common.FormatBinary} {
		stmt, err := ref.Resolve(context.Background(), p, format)
		require.NoError(t, err)
		require.Equal(t, format, stmt.ResultFormat())
		require.Equal(t, "select name from users", stmt.Query())
	}
	require.Equal(t, 2, p.numCalls())
}

func TestResolveQueryPropagatesError(t *testing.T) {
	prepErr := errors.NewInvalidStatementError("syntax error at or near \"selec\"")
	p := &fakePreparer{err: prepErr}
	_, err := FromQuery("selec 1").Resolve(context.Background(), p, common.FormatBinary)
	require.Equal(t, prepErr, err)
}

func TestStatementAccessors(t *testing.T) {
	cols := common.NewColumns([]string{"id"}, []common.Type{common.TypeInt8})
	stmt := New("s7", "select id from t where x = $1", []common.Type{common.TypeInt4}, cols, common.FormatBinary)
	require.Equal(t, "s7", stmt.Name())
	require.Equal(t, []common.Type{common.TypeInt4}, stmt.Params())
	require.Equal(t, cols, stmt.Columns())
	require.Equal(t, "statement[name=s7,format=binary,columns=1]", stmt.String())
	ref := FromStatement(stmt)
	require.True(t, ref.IsPrepared())
	require.Equal(t, stmt.String(), ref.String())
	require.Equal(t, "query[select 1]", FromQuery("select 1").String())
	require.Panics(t, func() {
		FromStatement(nil)
	})
}
