package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
	"github.com/squareup/pgrow/metrics"
	"github.com/squareup/pgrow/parser"
	"github.com/squareup/pgrow/row"
	"github.com/squareup/pgrow/types"
)

const timestampLayout = "2006-01-02 15:04:05.999999"

type decoder struct {
	columns  common.Columns
	simple   common.SimpleColumns
	format   common.Format
	selected []row.Index
	outCols  common.Columns
	decoded  metrics.Counter
	failed   metrics.Counter
}

func newDecoder(descriptor string, format common.Format, gets []string, factory metrics.Factory) (*decoder, error) {
	columns, err := parser.ParseColumns(descriptor)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	d := &decoder{
		columns: columns,
		simple:  common.NewSimpleColumns(names...),
		format:  format,
	}
	if len(gets) == 0 {
		for i := range columns {
			d.selected = append(d.selected, row.Pos(i))
		}
		d.outCols = columns
	} else {
		for _, get := range gets {
			idx, err := parser.ParseIndex(get)
			if err != nil {
				return nil, err
			}
			pos, ok := idx.Resolve(columns)
			if !ok {
				return nil, errors.NewColumnNotFoundError(idx.String())
			}
			d.selected = append(d.selected, idx)
			d.outCols = append(d.outCols, columns[pos])
		}
	}
	if d.decoded, err = factory.CreateCounter("pgrow_cli_tuples_decoded_total", "Number of tuples decoded by the CLI"); err != nil {
		return nil, err
	}
	if d.failed, err = factory.CreateCounter("pgrow_cli_tuple_failures_total", "Number of tuples the CLI failed to decode"); err != nil {
		return nil, err
	}
	return d, nil
}

// decodeTuple decodes one hex encoded tuple, with or without a leading \x, and returns the
// selected values formatted for printing.
func (d *decoder) decodeTuple(s string) ([]string, error) {
	values, err := d.decode(s)
	if err != nil {
		d.failed.Inc()
		return nil, err
	}
	d.decoded.Inc()
	return values, nil
}

func (d *decoder) decode(s string) ([]string, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), `\x`)
	body, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.NewTupleParseError(err)
	}
	values := make([]string, 0, len(d.selected))
	if d.format == common.FormatText {
		r, err := row.NewSimpleQueryRow(d.simple, body)
		if err != nil {
			return nil, err
		}
		for _, idx := range d.selected {
			v, ok, err := r.TryGet(idx)
			if err != nil {
				return nil, err
			}
			if !ok {
				v = "NULL"
			}
			values = append(values, v)
		}
		return values, nil
	}
	r, err := row.New(d.columns, body, true)
	if err != nil {
		return nil, err
	}
	for _, idx := range d.selected {
		v, err := binaryValue(r, idx)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// binaryValue falls back to the raw bytes for column types without a decoder.
func binaryValue(r *row.Row, idx row.Index) (string, error) {
	var dst types.Any
	err := r.TryGet(idx, &dst)
	if err == nil {
		return formatValue(dst.Value), nil
	}
	if !errors.HasCode(err, errors.TypeMismatch) {
		return "", err
	}
	var raw types.Raw
	if err := r.TryGet(idx, &raw); err != nil {
		return "", err
	}
	return raw.String(), nil
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return `\x` + hex.EncodeToString(val)
	case time.Time:
		return val.Format(timestampLayout)
	default:
		return fmt.Sprint(val)
	}
}
