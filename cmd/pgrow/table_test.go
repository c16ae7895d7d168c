package main

import (
	"strings"
	"testing"

	"github.com/squareup/pgrow/common"
	"github.com/stretchr/testify/require"
)

func TestColumnWidths(t *testing.T) {
	cols := common.NewColumns([]string{"id", "name"}, []common.Type{common.TypeInt4, common.TypeText})
	tab := newTable(40, cols)
	require.Equal(t, []int{11, 22}, tab.colWidths)

	line := tab.formatLine([]string{"7", "ada"})
	require.Equal(t, "| 7"+strings.Repeat(" ", 10)+" | ada"+strings.Repeat(" ", 19)+" |", line)
	require.Equal(t, 40, displayWidth(line))
}

func TestColumnWidthsFallBackToEven(t *testing.T) {
	cols := common.NewColumns([]string{"a", "b", "c"}, []common.Type{common.TypeInt8, common.TypeInt8, common.TypeInt8})
	tab := newTable(20, cols)
	require.Equal(t, []int{5, 5, 5}, tab.colWidths)

	cols = common.NewColumns([]string{"a", "b"}, []common.Type{common.TypeText, common.TypeText})
	tab = newTable(31, cols)
	require.Equal(t, []int{12, 12}, tab.colWidths)
}

func TestLongValuesAreTruncated(t *testing.T) {
	cols := common.NewColumns([]string{"name"}, []common.Type{common.TypeText})
	tab := newTable(12, cols)
	require.Equal(t, []int{8}, tab.colWidths)
	require.Equal(t, "| abcdef.. |", tab.formatLine([]string{"abcdefghijk"}))
}

func TestWideRunes(t *testing.T) {
	require.Equal(t, 6, displayWidth("日本語"))
	require.Equal(t, 3, displayWidth("abc"))
	require.Equal(t, "日本", truncateToWidth("日本語", 5))

	cols := common.NewColumns([]string{"name"}, []common.Type{common.TypeText})
	tab := newTable(12, cols)
	line := tab.formatLine([]string{"日本語です"})
	require.Equal(t, "| 日本語.. |", line)
	require.Equal(t, 12, displayWidth(line))
}

func TestHeader(t *testing.T) {
	cols := common.NewColumns([]string{"id"}, []common.Type{common.TypeInt4})
	tab := newTable(40, cols)
	lines := tab.header(cols)
	require.Equal(t, []string{
		"+-------------+",
		"| id          |",
		"+-------------+",
	}, lines)
}
