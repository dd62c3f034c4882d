package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/typeargs/internal/typesystem"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// printer writes command output, colored when writing to a terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, color: colorEnabled(w)}
}

func colorEnabled(w io.Writer) bool {
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

// typeString renders a resolved type: concrete results in green,
// results still containing type variables in yellow.
func (p *printer) typeString(t typesystem.Type) string {
	if typesystem.IsResolved(t) {
		return p.paint(ansiGreen, t.String())
	}
	return p.paint(ansiYellow, t.String())
}

func (p *printer) println(a ...interface{}) {
	fmt.Fprintln(p.w, a...)
}

func (p *printer) printf(format string, a ...interface{}) {
	fmt.Fprintf(p.w, format, a...)
}
