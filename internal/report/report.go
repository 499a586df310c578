// Package report renders the three output documents spec.md §6 names
// for a finished analysis run — plain-text, XML v3, and plist — plus
// the optional debug dump, on top of the per-diagnostic renderers
// already built in internal/diagnostic.
package report

import (
	"sort"
	"strings"

	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
)

// Writer accumulates diagnostics for one analysis run and is handed to
// the checker host as both its Sink and ProgressSink (spec.md §6's
// "sink interface with three methods: report, progress, out").
type Writer struct {
	cfg      *settings.Settings
	src      diagnostic.SourceLineReader
	useColor bool

	diags    []diagnostic.Diagnostic
	progress func(file, stage string, percent int)
	out      func(message, color string)
}

// NewWriter builds a Writer against cfg's template/output-format
// settings. No progress or out callback is installed: until OnProgress
// or OnOut sets one, progress events and out() calls are simply dropped,
// matching a headless (non-CLI) caller.
func NewWriter(cfg *settings.Settings, src diagnostic.SourceLineReader, useColor bool) *Writer {
	return &Writer{cfg: cfg, src: src, useColor: useColor}
}

// OnProgress installs the callback Progress forwards to.
func (w *Writer) OnProgress(f func(file, stage string, percent int)) { w.progress = f }

// OnOut installs the callback Out forwards to.
func (w *Writer) OnOut(f func(message, color string)) { w.out = f }

// Report implements checker.Sink: it appends d, applying no filtering —
// suppression and deduplication already happened in the checker host.
func (w *Writer) Report(d diagnostic.Diagnostic) {
	w.diags = append(w.diags, d)
}

// Progress implements checker.ProgressSink.
func (w *Writer) Progress(file, stage string, percent int) {
	if w.cfg != nil && !w.cfg.ReportProgress {
		return
	}
	if w.progress != nil {
		w.progress(file, stage, percent)
	}
}

// Out delivers a plain informational message, e.g. "Checking foo.cpp...".
func (w *Writer) Out(message, color string) {
	if w.out != nil {
		w.out(message, color)
	}
}

// Diagnostics returns the diagnostics collected so far, in report order.
func (w *Writer) Diagnostics() []diagnostic.Diagnostic { return w.diags }

// Render produces the final report document in whatever format
// cfg.OutputFormat selects (spec.md §6).
func (w *Writer) Render(cppcheckVersion string) (string, error) {
	switch w.cfg.OutputFormat {
	case settings.OutputXML:
		return w.RenderXML(cppcheckVersion)
	case settings.OutputPlist:
		return w.RenderPlist(), nil
	default:
		return w.RenderPlain(), nil
	}
}

// RenderPlain expands cfg.TemplateFormat against every collected
// diagnostic, one per line (spec.md §4.2 template rendering).
func (w *Writer) RenderPlain() string {
	var b strings.Builder
	for _, d := range w.diags {
		b.WriteString(diagnostic.FormatTemplate(w.cfg.TemplateFormat, d, w.src, w.useColor))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderXML wraps every collected diagnostic's ToXML into the
// <results version="3">...</results> document (spec.md §6).
func (w *Writer) RenderXML(cppcheckVersion string) (string, error) {
	var b strings.Builder
	b.WriteString(diagnostic.ResultsXMLHeader(cppcheckVersion))
	for _, d := range w.diags {
		x, err := diagnostic.ToXML(d)
		if err != nil {
			return "", err
		}
		b.WriteString(x)
	}
	b.WriteString(diagnostic.ResultsXMLFooter())
	return b.String(), nil
}

// RenderPlist wraps every collected diagnostic's ToPlist into a
// Clang-Analyzer compatible document, with a deduplicated, sorted file
// list (spec.md §6 "Plist report").
func (w *Writer) RenderPlist() string {
	var b strings.Builder
	b.WriteString(diagnostic.PlistHeader(collectFiles(w.diags)))
	for _, d := range w.diags {
		b.WriteString(diagnostic.ToPlist(d))
		b.WriteByte('\n')
	}
	b.WriteString(diagnostic.PlistFooter())
	return b.String()
}

func collectFiles(diags []diagnostic.Diagnostic) []string {
	seen := make(map[string]bool)
	var files []string
	for _, d := range diags {
		for _, f := range d.CallStack {
			if f.SimplifiedPath == "" || seen[f.SimplifiedPath] {
				continue
			}
			seen[f.SimplifiedPath] = true
			files = append(files, f.SimplifiedPath)
		}
	}
	sort.Strings(files)
	return files
}
