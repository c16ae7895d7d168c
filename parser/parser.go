// Package parser parses the column descriptors and column selections accepted by the pgrow CLI.
package parser

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer/stateful"
	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
	"github.com/squareup/pgrow/row"
)

// ColumnList is a comma separated list of column definitions, e.g. `id int4, "Full Name" varchar(20)`.
type ColumnList struct {
	Columns []*ColumnDef `parser:"@@ ( \",\" @@ )* \";\"?"`
}

type ColumnDef struct {
	Name     string   `parser:"( @Ident | @String )"`
	Type     []string `parser:"@Ident+"`
	Modifier []string `parser:"( \"(\" @Number ( \",\" @Number )* \")\" )?"`
}

var (
	lex = stateful.MustSimple([]stateful.Rule{
		{Name: `Ident`, Pattern: `[a-zA-Z_][a-zA-Z_0-9]*`, Action: nil},
		{Name: `Number`, Pattern: `\d+`, Action: nil},
		{Name: `String`, Pattern: `"[^"]*"`, Action: nil},
		{Name: `Punct`, Pattern: `[,;()]`, Action: nil},
		{Name: `Whitespace`, Pattern: `\s+`, Action: nil},
	})
	parser = participle.MustBuild(&ColumnList{},
		participle.Lexer(lex),
		participle.CaseInsensitive("Ident"),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)
)

var typeAliases = map[string]common.Type{
	"bool":                        common.TypeBool,
	"boolean":                     common.TypeBool,
	"bytea":                       common.TypeBytea,
	"name":                        common.TypeName,
	"int8":                        common.TypeInt8,
	"bigint":                      common.TypeInt8,
	"int2":                        common.TypeInt2,
	"smallint":                    common.TypeInt2,
	"int4":                        common.TypeInt4,
	"int":                         common.TypeInt4,
	"integer":                     common.TypeInt4,
	"text":                        common.TypeText,
	"oid":                         common.TypeOID,
	"json":                        common.TypeJSON,
	"float4":                      common.TypeFloat4,
	"real":                        common.TypeFloat4,
	"float8":                      common.TypeFloat8,
	"double precision":            common.TypeFloat8,
	"unknown":                     common.TypeUnknown,
	"bpchar":                      common.TypeBpchar,
	"char":                        common.TypeBpchar,
	"character":                   common.TypeBpchar,
	"varchar":                     common.TypeVarchar,
	"character varying":           common.TypeVarchar,
	"date":                        common.TypeDate,
	"timestamp":                   common.TypeTimestamp,
	"timestamp without time zone": common.TypeTimestamp,
	"timestamptz":                 common.TypeTimestampTz,
	"timestamp with time zone":    common.TypeTimestampTz,
	"numeric":                     common.TypeNumeric,
	"decimal":                     common.TypeNumeric,
}

// ParseColumns parses a column descriptor into columns with positions assigned in order.
func ParseColumns(descriptor string) (common.Columns, error) {
	if strings.TrimSpace(descriptor) == "" {
		return nil, errors.NewInvalidStatementError("empty column descriptor")
	}
	list := &ColumnList{}
	if err := parser.ParseString("", descriptor, list); err != nil {
		return nil, errors.NewInvalidStatementError(err.Error())
	}
	cols := make(common.Columns, len(list.Columns))
	for i, def := range list.Columns {
		typeName := strings.ToLower(strings.Join(def.Type, " "))
		ty, ok := typeAliases[typeName]
		if !ok {
			return nil, errors.NewInvalidStatementError("unknown column type " + typeName)
		}
		cols[i] = common.Column{Name: def.Name, Type: ty, Position: i}
	}
	return cols, nil
}

// ParseIndex turns a column selection into an index: a string of digits selects by position, anything
// else by name. Double quotes force a name, so `"2"` selects the column named 2.
func ParseIndex(s string) (row.Index, error) {
	if s == "" {
		return row.Index{}, errors.NewInvalidStatementError("empty column selection")
	}
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return row.Name(s[1 : len(s)-1]), nil
	}
	if strings.Trim(s, "0123456789") == "" {
		pos, err := strconv.Atoi(s)
		if err != nil {
			return row.Index{}, errors.NewInvalidStatementError("column position out of range: " + s)
		}
		return row.Pos(pos), nil
	}
	return row.Name(s), nil
}
