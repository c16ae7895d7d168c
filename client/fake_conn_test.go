package client

import (
	"context"
	"sync"

	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
	"github.com/squareup/pgrow/row"
	"github.com/squareup/pgrow/statement"
)

// fakeTable is what the fake server returns for a query, always encoded according to the format the
// statement was prepared with.
type fakeTable struct {
	columns common.Columns
	binary  [][][]byte
	text    [][][]byte
}

type fakeConn struct {
	lock     sync.Mutex
	tables   map[string]fakeTable
	prepared map[string]string
	executed []string
	params   [][][]byte
	tuples   map[string][][]byte
	// prepareErr is returned by every Prepare when set
	prepareErr error
	onPrepare  func()
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		tables:   make(map[string]fakeTable),
		prepared: make(map[string]string),
		tuples:   make(map[string][][]byte),
	}
}

func (f *fakeConn) addTable(query string, table fakeTable) {
	f.tables[query] = table
}

func (f *fakeConn) Prepare(ctx context.Context, name string, query string, format common.Format) (*statement.Statement, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.onPrepare != nil {
		f.onPrepare()
	}
	if f.prepareErr != nil {
		return nil, f.prepareErr
	}
	table, ok := f.tables[query]
	if !ok {
		return nil, errors.NewInvalidStatementError("relation does not exist")
	}
	f.prepared[name] = query
	return statement.New(name, query, nil, table.columns, format), nil
}

func (f *fakeConn) Execute(ctx context.Context, stmt *statement.Statement, params [][]byte) ([][]byte, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := f.prepared[stmt.Name()]; !ok {
		return nil, errors.Errorf("prepared statement %s does not exist", stmt.Name())
	}
	f.executed = append(f.executed, stmt.Name())
	f.params = append(f.params, params)
	if tuples, ok := f.tuples[stmt.Query()]; ok {
		return tuples, nil
	}
	table := f.tables[stmt.Query()]
	values := table.text
	if stmt.ResultFormat() == common.FormatBinary {
		values = table.binary
	}
	var tuples [][]byte
	for _, fields := range values {
		tuples = append(tuples, row.AppendTuple(nil, fields))
	}
	return tuples, nil
}

func (f *fakeConn) SimpleQuery(ctx context.Context, query string) (common.SimpleColumns, [][]byte, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if tuples, ok := f.tuples[query]; ok {
		return common.NewSimpleColumns("raw"), tuples, nil
	}
	table, ok := f.tables[query]
	if !ok {
		return nil, nil, errors.NewInvalidStatementError("relation does not exist")
	}
	names := make([]string, len(table.columns))
	for i, c := range table.columns {
		names[i] = c.Name
	}
	var tuples [][]byte
	for _, fields := range table.text {
		tuples = append(tuples, row.AppendTuple(nil, fields))
	}
	return common.NewSimpleColumns(names...), tuples, nil
}

func (f *fakeConn) numPrepared() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.prepared)
}

func (f *fakeConn) lastExecuted() string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.executed[len(f.executed)-1]
}

func usersTable() fakeTable {
	return fakeTable{
		columns: common.NewColumns([]string{"id", "name"}, []common.Type{common.TypeInt4, common.TypeText}),
		binary: [][][]byte{
			{common.AppendUint32ToBufferBE(nil, 7), []byte("ada")},
			{common.AppendUint32ToBufferBE(nil, 8), nil},
		},
		text: [][][]byte{
			{[]byte("7"), []byte("ada")},
			{[]byte("8"), nil},
		},
	}
}
