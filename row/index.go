package row

import "strconv"

// ColumnNames is the view of column metadata that index resolution needs.
type ColumnNames interface {
	Len() int
	ColumnName(i int) string
}

// Index selects a column either by zero-based position or by name. Build one with Pos or Name.
type Index struct {
	pos    int
	name   string
	byName bool
}

// Pos selects the column at position i.
func Pos(i int) Index {
	return Index{pos: i}
}

// Name selects a column by name. An exact match is preferred; if there is none, the first column
// whose name matches ignoring ASCII case is used.
func Name(name string) Index {
	return Index{name: name, byName: true}
}

func (i Index) IsName() bool { return i.byName }

func (i Index) String() string {
	if i.byName {
		return i.name
	}
	return strconv.Itoa(i.pos)
}

// Resolve returns the slot the index refers to in cols.
func (i Index) Resolve(cols ColumnNames) (int, bool) {
	if !i.byName {
		if i.pos < 0 || i.pos >= cols.Len() {
			return 0, false
		}
		return i.pos, true
	}
	for slot := 0; slot < cols.Len(); slot++ {
		if cols.ColumnName(slot) == i.name {
			return slot, true
		}
	}
	// ASCII-only folding. Server side case folding is locale dependent so non-ASCII letters only
	// ever match exactly.
	for slot := 0; slot < cols.Len(); slot++ {
		if asciiEqualFold(cols.ColumnName(slot), i.name) {
			return slot, true
		}
	}
	return 0, false
}

// asciiEqualFold is strings.EqualFold restricted to ASCII letters; other bytes must match exactly.
func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if asciiLower(a[i]) != asciiLower(b[i]) {
			return false
		}
	}
	return true
}

func asciiLower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
