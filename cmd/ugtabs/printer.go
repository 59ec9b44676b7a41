package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/handiism/ugtabs/internal/download"
	"github.com/handiism/ugtabs/internal/model"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// printer renders progress events and summaries on the terminal.
type printer struct {
	out     io.Writer
	verbose bool

	info    *color.Color
	dim     *color.Color
	warning *color.Color
	failure *color.Color
	success *color.Color
	title   *color.Color
}

func newPrinter(out io.Writer, verbose bool) *printer {
	return &printer{
		out:     out,
		verbose: verbose,
		info:    color.New(color.FgCyan),
		dim:     color.New(color.Faint),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
		success: color.New(color.FgGreen),
		title:   color.New(color.FgMagenta, color.Bold),
	}
}

// Event prints one progress event. Verbose events need --verbose.
func (p *printer) Event(event download.ProgressEvent) {
	switch event.Level {
	case download.LevelVerbose:
		if p.verbose {
			p.dim.Fprintln(p.out, "   "+event.Message)
		}
	case download.LevelError:
		p.failure.Fprintln(p.out, "✗  "+event.Message)
	case download.LevelWarning:
		p.warning.Fprintln(p.out, "!  "+event.Message)
	case download.LevelSuccess:
		p.success.Fprintln(p.out, "✓  "+event.Message)
	default:
		p.info.Fprintln(p.out, "›  "+event.Message)
	}
}

func (p *printer) Info(msg string)    { p.Event(download.ProgressEvent{Message: msg, Level: download.LevelInfo}) }
func (p *printer) Verbose(msg string) { p.Event(download.ProgressEvent{Message: msg, Level: download.LevelVerbose}) }
func (p *printer) Warning(msg string) { p.Event(download.ProgressEvent{Message: msg, Level: download.LevelWarning}) }
func (p *printer) Error(msg string)   { p.Event(download.ProgressEvent{Message: msg, Level: download.LevelError}) }
func (p *printer) Success(msg string) { p.Event(download.ProgressEvent{Message: msg, Level: download.LevelSuccess}) }

// Banner prints a title line followed by a rule.
func (p *printer) Banner(title string) {
	p.title.Fprintln(p.out, title)
	fmt.Fprintln(p.out, rule)
	fmt.Fprintln(p.out)
}

// Summary prints the final batch report.
func (p *printer) Summary(summary *download.Summary) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, rule)

	line := fmt.Sprintf("Successfully downloaded: %d/%d", summary.Succeeded(), summary.Total)
	if summary.Succeeded() == summary.Total {
		p.success.Fprintln(p.out, line)
	} else {
		p.warning.Fprintln(p.out, line)
	}

	if failures := summary.Failures(); len(failures) > 0 {
		p.failure.Fprintf(p.out, "\nFailed (%d):\n", len(failures))
		for _, o := range failures {
			fmt.Fprintf(p.out, "  [%s] %s\n", o.Kind(), o.URL)
			p.dim.Fprintf(p.out, "      %v\n", o.Err)
		}

		counts := summary.CountByKind()
		var parts []string
		for _, kind := range model.FailureKinds {
			if n := counts[kind]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s: %d", kind, n))
			}
		}
		p.dim.Fprintf(p.out, "  (%s)\n", strings.Join(parts, ", "))
	}

	if len(summary.Skipped) > 0 {
		p.warning.Fprintf(p.out, "\nNot attempted (%d), re-run with these URLs:\n", len(summary.Skipped))
		for _, u := range summary.Skipped {
			fmt.Fprintf(p.out, "  %s\n", u)
		}
	}

	if summary.AllAnonymous() {
		fmt.Fprintln(p.out)
		color.New(color.FgRed, color.Bold).Fprintln(p.out, "⚠  Every tab failed because the site treated you as anonymous (user_id: 0).")
		p.failure.Fprintln(p.out, "   Your cookies are invalid or expired. Log in to ultimate-guitar.com in your")
		p.failure.Fprintln(p.out, "   browser, export fresh cookies and run \"ugtabs cookies check\".")
	}
}
