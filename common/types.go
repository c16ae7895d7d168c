package common

import (
	"fmt"
	"strings"
)

// Type identifies a column's wire type. Values are PostgreSQL type OIDs.
type Type uint32

const (
	TypeBool        Type = 16
	TypeBytea       Type = 17
	TypeName        Type = 19
	TypeInt8        Type = 20
	TypeInt2        Type = 21
	TypeInt4        Type = 23
	TypeText        Type = 25
	TypeOID         Type = 26
	TypeJSON        Type = 114
	TypeFloat4      Type = 700
	TypeFloat8      Type = 701
	TypeUnknown     Type = 705
	TypeBpchar      Type = 1042
	TypeVarchar     Type = 1043
	TypeDate        Type = 1082
	TypeTimestamp   Type = 1114
	TypeTimestampTz Type = 1184
	TypeNumeric     Type = 1700
)

var typeNames = map[Type]string{
	TypeBool:        "bool",
	TypeBytea:       "bytea",
	TypeName:        "name",
	TypeInt8:        "int8",
	TypeInt2:        "int2",
	TypeInt4:        "int4",
	TypeText:        "text",
	TypeOID:         "oid",
	TypeJSON:        "json",
	TypeFloat4:      "float4",
	TypeFloat8:      "float8",
	TypeUnknown:     "unknown",
	TypeBpchar:      "bpchar",
	TypeVarchar:     "varchar",
	TypeDate:        "date",
	TypeTimestamp:   "timestamp",
	TypeTimestampTz: "timestamptz",
	TypeNumeric:     "numeric",
}

// TypesByName allows lookup of a Type by its canonical lower-case name.
var TypesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, n := range typeNames {
		m[n] = t
	}
	return m
}()

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("oid(%d)", uint32(t))
}

// Format is the wire encoding of field values. The numeric values are the protocol's format codes.
type Format int16

const (
	FormatText   Format = 0
	FormatBinary Format = 1
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatBinary:
		return "binary"
	default:
		return fmt.Sprintf("format(%d)", int16(f))
	}
}

// ParseFormat parses "text" or "binary", ignoring case.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "text":
		return FormatText, true
	case "binary":
		return FormatBinary, true
	default:
		return 0, false
	}
}

// Column describes one column of a prepared statement's result.
type Column struct {
	Name     string
	Type     Type
	Position int
}

func (c Column) String() string {
	return fmt.Sprintf("%s %s", c.Name, c.Type)
}

// Columns is shared by every row produced by the same statement and must not be modified.
type Columns []Column

func (c Columns) Len() int { return len(c) }

func (c Columns) ColumnName(i int) string { return c[i].Name }

// SimpleColumn is the column metadata of a simple (text protocol) query; only the name is known.
type SimpleColumn struct {
	Name string
}

type SimpleColumns []SimpleColumn

func (c SimpleColumns) Len() int { return len(c) }

func (c SimpleColumns) ColumnName(i int) string { return c[i].Name }

// NewColumns assigns positions in order.
func NewColumns(names []string, types []Type) Columns {
	cols := make(Columns, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n, Type: types[i], Position: i}
	}
	return cols
}

func NewSimpleColumns(names ...string) SimpleColumns {
	cols := make(SimpleColumns, len(names))
	for i, n := range names {
		cols[i] = SimpleColumn{Name: n}
	}
	return cols
}
