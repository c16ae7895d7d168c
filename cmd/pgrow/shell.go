package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
)

const (
	prompt    = "pgrow> "
	quitToken = `\q`
)

// runShell reads one hex tuple per line. An empty line prints the rows gathered so far as a table.
func runShell(dec *decoder, out io.Writer, maxLineWidth int, vi bool) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return errors.WithStack(err)
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 prompt,
		HistoryFile:            filepath.Join(home, ".pgrow.history"),
		DisableAutoSaveHistory: true,
		VimMode:                vi,
		Stdout:                 out,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	defer common.InvokeCloser(rl)

	p := newPrinter(out, dec.outCols, maxLineWidth)
	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			if p.rows > 0 {
				p.finish()
			}
			return nil
		}
		if err != nil {
			return errors.WithStack(err)
		}
		line = strings.TrimSpace(line)
		if line == quitToken {
			return nil
		}
		if line == "" {
			if p.rows > 0 {
				p.finish()
			}
			continue
		}
		_ = rl.SaveHistory(line)
		values, err := dec.decodeTuple(line)
		if err != nil {
			p.printError(err)
			continue
		}
		p.printRow(values)
	}
}
