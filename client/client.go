package client

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/conf"
	"github.com/squareup/pgrow/errors"
	"github.com/squareup/pgrow/metrics"
	"github.com/squareup/pgrow/row"
	"github.com/squareup/pgrow/statement"
	"github.com/twmb/murmur3"
	"go.uber.org/atomic"
)

// Conn is the protocol layer a Client runs on. It owns the connection, the message framing and the
// statement description round trips; the Client only sees statements and raw tuples.
type Conn interface {
	// Prepare prepares query on the server under name with results encoded in format.
	Prepare(ctx context.Context, name string, query string, format common.Format) (*statement.Statement, error)
	// Execute runs a prepared statement and returns the body of every data row, in order. nil params
	// are sent as NULL.
	Execute(ctx context.Context, stmt *statement.Statement, params [][]byte) ([][]byte, error)
	// SimpleQuery runs query with the simple protocol, which always returns text.
	SimpleQuery(ctx context.Context, query string) (common.SimpleColumns, [][]byte, error)
}

// Client executes statements over a Conn and turns the results into rows. Every execution method
// takes a statement.Ref, so callers can pass either query text or a statement prepared earlier.
//
// A Client is safe for concurrent use if its Conn is.
type Client struct {
	conn               Conn
	cache              *statement.Cache
	closed             *atomic.Bool
	rowsDecoded        metrics.Counter
	rowParseFailures   metrics.Counter
	prepares           metrics.Counter
	encodingMismatches metrics.Counter
}

func NewClient(conn Conn, cfg conf.Config, factory metrics.Factory) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{conn: conn, closed: atomic.NewBool(false)}
	cache, err := statement.NewCache(connPreparer{c: c}, cfg.StatementCacheSize, factory)
	if err != nil {
		return nil, err
	}
	c.cache = cache
	counters := []struct {
		counter *metrics.Counter
		name    string
		help    string
	}{
		{&c.rowsDecoded, "pgrow_rows_total", "Rows built from query results"},
		{&c.rowParseFailures, "pgrow_row_parse_failures_total", "Tuples that could not be parsed"},
		{&c.prepares, "pgrow_prepares_total", "Statements prepared on the server"},
		{&c.encodingMismatches, "pgrow_encoding_mismatches_total", "Prepared statements reused with a different result encoding"},
	}
	for _, ct := range counters {
		counter, err := factory.CreateCounter(ct.name, ct.help)
		if err != nil {
			return nil, err
		}
		*ct.counter = counter
	}
	return c, nil
}

// Prepare prepares query with results in the binary format, which allows values to be extracted from
// the returned rows.
func (c *Client) Prepare(ctx context.Context, query string) (*statement.Statement, error) {
	return c.PrepareWithResultFormat(ctx, query, common.FormatBinary)
}

// PrepareWithResultFormat prepares query with results encoded in format. Statements are cached per
// query and format.
func (c *Client) PrepareWithResultFormat(ctx context.Context, query string, format common.Format) (*statement.Statement, error) {
	if c.closed.Load() {
		return nil, errors.NewClientClosedError()
	}
	stmt, err := c.cache.PrepareWithResultFormat(ctx, query, format)
	if err != nil {
		return nil, err
	}
	// a Close that ran during the prepare may have cleared the cache before the statement was put
	if c.closed.Load() {
		c.cache.Clear()
		return nil, errors.NewClientClosedError()
	}
	return stmt, nil
}

// Query executes ref with results encoded in format and returns the resulting rows.
func (c *Client) Query(ctx context.Context, ref statement.Ref, format common.Format, params ...[]byte) ([]*row.Row, error) {
	if c.closed.Load() {
		return nil, errors.NewClientClosedError()
	}
	stmt, err := ref.Resolve(ctx, c, format)
	if err != nil {
		if errors.HasCode(err, errors.EncodingMismatch) {
			c.encodingMismatches.Inc()
			log.Warnf("rejected %s: %v", ref, err)
		}
		return nil, err
	}
	tuples, err := c.conn.Execute(ctx, stmt, params)
	if err != nil {
		return nil, errors.MaybeAddStack(err)
	}
	extractAllowed := stmt.ResultFormat() == common.FormatBinary
	rows := make([]*row.Row, 0, len(tuples))
	for _, tuple := range tuples {
		r, err := row.New(stmt.Columns(), tuple, extractAllowed)
		if err != nil {
			c.rowParseFailures.Inc()
			return nil, err
		}
		c.rowsDecoded.Inc()
		rows = append(rows, r)
	}
	return rows, nil
}

// QueryOne is like Query but returns an error unless exactly one row is returned.
func (c *Client) QueryOne(ctx context.Context, ref statement.Ref, format common.Format, params ...[]byte) (*row.Row, error) {
	rows, err := c.Query(ctx, ref, format, params...)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, errors.NewUnexpectedRowCountError(len(rows))
	}
	return rows[0], nil
}

// SimpleQuery runs query with the simple protocol. All rows share one column list.
func (c *Client) SimpleQuery(ctx context.Context, query string) ([]*row.SimpleQueryRow, error) {
	if c.closed.Load() {
		return nil, errors.NewClientClosedError()
	}
	columns, tuples, err := c.conn.SimpleQuery(ctx, query)
	if err != nil {
		return nil, errors.MaybeAddStack(err)
	}
	rows := make([]*row.SimpleQueryRow, 0, len(tuples))
	for _, tuple := range tuples {
		r, err := row.NewSimpleQueryRow(columns, tuple)
		if err != nil {
			c.rowParseFailures.Inc()
			return nil, err
		}
		c.rowsDecoded.Inc()
		rows = append(rows, r)
	}
	return rows, nil
}

// Close marks the client closed; the Conn is left for its owner to close. Closing twice is a no-op.
func (c *Client) Close() {
	if !c.closed.CAS(false, true) {
		return
	}
	c.cache.Clear()
}

// connPreparer is what the statement cache calls on a miss.
type connPreparer struct {
	c *Client
}

func (p connPreparer) PrepareWithResultFormat(ctx context.Context, query string, format common.Format) (*statement.Statement, error) {
	name := StatementName(query, format)
	log.Debugf("preparing %s as %s with %s results", query, name, format)
	stmt, err := p.c.conn.Prepare(ctx, name, query, format)
	if err != nil {
		return nil, err
	}
	p.c.prepares.Inc()
	return stmt, nil
}

// StatementName derives the server side name of a statement from its text and result format, so
// preparing the same text twice reuses the name.
func StatementName(query string, format common.Format) string {
	buff := make([]byte, 0, len(query)+2)
	buff = common.AppendUint16ToBufferBE(buff, uint16(format))
	buff = append(buff, query...)
	return fmt.Sprintf("s_%016x", murmur3.Sum64(buff))
}

var _ statement.Preparer = (*Client)(nil)
