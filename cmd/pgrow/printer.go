package main

import (
	"fmt"
	"io"

	"github.com/squareup/pgrow/common"
)

type printer struct {
	out        io.Writer
	cols       common.Columns
	table      *table
	headerDone bool
	rows       int
}

func newPrinter(out io.Writer, cols common.Columns, maxLineWidth int) *printer {
	return &printer{out: out, cols: cols, table: newTable(maxLineWidth, cols)}
}

func (p *printer) printRow(values []string) {
	if !p.headerDone {
		for _, line := range p.table.header(p.cols) {
			p.println(line)
		}
		p.headerDone = true
	}
	p.println(p.table.formatLine(values))
	p.rows++
}

func (p *printer) printError(err error) {
	p.println(fmt.Sprintf("error: %v", err))
}

// finish closes the table and prints the row count.
func (p *printer) finish() {
	if p.headerDone {
		p.println(p.table.border)
		p.headerDone = false
	}
	if p.rows == 1 {
		p.println("1 row returned")
	} else {
		p.println(fmt.Sprintf("%d rows returned", p.rows))
	}
	p.rows = 0
}

func (p *printer) println(line string) {
	_, _ = fmt.Fprintln(p.out, line)
}
