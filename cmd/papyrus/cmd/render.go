package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pacer/papyrus/internal/papyrus"
	"github.com/pacer/papyrus/internal/papyrus/lexer"
)

var (
	colorError   = lipgloss.Color("#EF4444")
	colorSuccess = lipgloss.Color("#10B981")
	colorAccent  = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
)

type styles struct {
	location lipgloss.Style
	severity lipgloss.Style
	message  lipgloss.Style
	excerpt  lipgloss.Style
	marker   lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
	kind     lipgloss.Style
}

// newStyles binds the styles to 'w', so colors are only emitted to terminals.
func newStyles(w io.Writer, color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain, plain}
	}

	r := lipgloss.NewRenderer(w)

	return styles{
		location: r.NewStyle().Bold(true),
		severity: r.NewStyle().Foreground(colorError).Bold(true),
		message:  r.NewStyle(),
		excerpt:  r.NewStyle().Foreground(colorMuted),
		marker:   r.NewStyle().Foreground(colorAccent).Bold(true),
		success:  r.NewStyle().Foreground(colorSuccess).Bold(true),
		failure:  r.NewStyle().Foreground(colorError).Bold(true),
		kind:     r.NewStyle().Foreground(colorAccent),
	}
}

// renderDiagnostic prints 'err' as 'file:line:col: error: message' followed by the
// offending source line with the span underlined. Lines and columns start at 1.
func renderDiagnostic(w io.Writer, s styles, fileName string, source []byte, err papyrus.Error) {
	rng := lexer.RangeFromSpan(source, err.GetSpan())
	location := fmt.Sprintf("%s:%d:%d", fileName, rng.Start.Line+1, rng.Start.Character+1)

	fmt.Fprintf(w, "%s: %s %s\n",
		s.location.Render(location),
		s.severity.Render("error:"),
		s.message.Render(err.GetError()),
	)

	line, ok := sourceLine(source, rng.Start.Line)
	if !ok {
		return
	}

	width := 1
	if rng.End.Line == rng.Start.Line && rng.End.Character > rng.Start.Character {
		width = rng.End.Character - rng.Start.Character
	}

	fmt.Fprintf(w, "    %s\n    %s%s\n",
		s.excerpt.Render(line),
		strings.Repeat(" ", rng.Start.Character),
		s.marker.Render(strings.Repeat("^", width)),
	)
}

// sourceLine returns line 'index' with tabs turned into single spaces so that
// byte columns line up with the marker.
func sourceLine(source []byte, index int) (string, bool) {
	lines := bytes.Split(source, []byte("\n"))
	if index >= len(lines) {
		return "", false
	}

	line := strings.TrimRight(string(lines[index]), "\r")
	if strings.TrimSpace(line) == "" {
		return "", false
	}

	return strings.ReplaceAll(line, "\t", " "), true
}

// renderReport prints the diagnostics of every file in name order, then a summary.
// It returns the number of errors found.
func renderReport(w io.Writer, s styles, results map[string]*papyrus.FileResult) int {
	total := 0

	for _, name := range papyrus.SortedFileNames(results) {
		result := results[name]
		for _, err := range result.Errs {
			renderDiagnostic(w, s, name, result.Source, err)
		}

		total += len(result.Errs)
	}

	summary := fmt.Sprintf("%d file(s) checked, %d error(s)", len(results), total)
	if total == 0 {
		fmt.Fprintln(w, s.success.Render(summary))
	} else {
		fmt.Fprintln(w, s.failure.Render(summary))
	}

	return total
}
