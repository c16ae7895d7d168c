package parser

import (
	"testing"

	"github.com/alecthomas/repr"
	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
	"github.com/squareup/pgrow/row"
	"github.com/stretchr/testify/require"
)

func TestParseColumns(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		expected   common.Columns
		err        string
	}{
		{"Simple", "id int4, name text", common.Columns{
			{Name: "id", Type: common.TypeInt4, Position: 0},
			{Name: "name", Type: common.TypeText, Position: 1},
		}, ""},
		{"Aliases", "a BIGINT, b double precision, c Character Varying(20), d timestamp with time zone;", common.Columns{
			{Name: "a", Type: common.TypeInt8, Position: 0},
			{Name: "b", Type: common.TypeFloat8, Position: 1},
			{Name: "c", Type: common.TypeVarchar, Position: 2},
			{Name: "d", Type: common.TypeTimestampTz, Position: 3},
		}, ""},
		{"QuotedName", `"Full Name" varchar, Amount numeric(10, 2)`, common.Columns{
			{Name: "Full Name", Type: common.TypeVarchar, Position: 0},
			{Name: "Amount", Type: common.TypeNumeric, Position: 1},
		}, ""},
		{"UnknownType", "id uuid", nil, "unknown column type uuid"},
		{"MissingType", "id", nil, "PGR0002"},
		{"Empty", "  ", nil, "empty column descriptor"},
		{"TrailingComma", "id int4,", nil, "PGR0002"},
		{"BadToken", "id int4 $", nil, "PGR0002"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cols, err := ParseColumns(test.descriptor)
			if test.err != "" {
				require.Error(t, err)
				require.True(t, errors.HasCode(err, errors.InvalidStatement))
				require.Contains(t, err.Error(), test.err)
				return
			}
			require.NoError(t, err, repr.String(cols, repr.Indent("  ")))
			require.Equal(t, test.expected, cols, repr.String(cols, repr.Indent("  ")))
		})
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in       string
		expected row.Index
	}{
		{"0", row.Pos(0)},
		{"12", row.Pos(12)},
		{"name", row.Name("name")},
		{"NAME", row.Name("NAME")},
		{"1a", row.Name("1a")},
		{"-1", row.Name("-1")},
		{`"2"`, row.Name("2")},
	}
	for _, test := range tests {
		idx, err := ParseIndex(test.in)
		require.NoError(t, err)
		require.Equal(t, test.expected, idx, test.in)
	}
	_, err := ParseIndex("")
	require.Error(t, err)
	_, err = ParseIndex("99999999999999999999999")
	require.Error(t, err)
}
