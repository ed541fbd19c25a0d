package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"floe/internal/diag"
	"floe/internal/driver"
	"floe/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	pathColor    = color.New(color.Bold)
)

// renderDiagnostics prints every diagnostic as path:line:col lines and
// returns the total count of errors.
func renderDiagnostics(out io.Writer, fileSet *source.FileSet, results []driver.FileResult, colored bool) int {
	errors := 0
	for _, r := range results {
		for _, d := range r.Bag.Items() {
			if d.Severity >= diag.SevError {
				errors++
			}
			writeDiagnostic(out, fileSet, r.Path, d, colored)
		}
	}
	return errors
}

func writeDiagnostic(out io.Writer, fileSet *source.FileSet, path string, d diag.Diagnostic, colored bool) {
	pos := ""
	if d.Primary.End > 0 || d.Primary.Start > 0 {
		start, _ := fileSet.Resolve(d.Primary)
		pos = fmt.Sprintf(":%d:%d", start.Line, start.Col)
	}

	sev := d.Severity.String()
	if colored {
		switch d.Severity {
		case diag.SevError:
			sev = errorColor.Sprint(sev)
		case diag.SevWarning:
			sev = warningColor.Sprint(sev)
		default:
			sev = infoColor.Sprint(sev)
		}
		path = pathColor.Sprint(path)
	}
	fmt.Fprintf(out, "%s%s: %s %s [%s]: %s\n", path, pos, sev, d.Code, d.Code.Title(), d.Message)
	for _, note := range d.Notes {
		fmt.Fprintf(out, "  note: %s\n", note.Msg)
	}
}
