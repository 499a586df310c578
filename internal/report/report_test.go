package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
)

func sampleDiag() diagnostic.Diagnostic {
	return diagnostic.New(
		[]diagnostic.Frame{{File: "a.cpp", Line: 3, Column: 5, SimplifiedPath: "a.cpp"}},
		diagnostic.SeverityWarning, "nullPointer", "possible null pointer dereference", diagnostic.CertaintyNormal)
}

func TestWriterRenderPlainUsesTemplateFormat(t *testing.T) {
	cfg := settings.Default()
	w := NewWriter(cfg, nil, false)
	w.Report(sampleDiag())
	out := w.RenderPlain()
	assert.Equal(t, "a.cpp:3:5: warning: possible null pointer dereference [nullPointer]\n", out)
}

func TestWriterRenderXMLWellFormed(t *testing.T) {
	cfg := settings.Default()
	cfg.OutputFormat = settings.OutputXML
	w := NewWriter(cfg, nil, false)
	w.Report(sampleDiag())
	out, err := w.Render("2.x")
	require.NoError(t, err)
	assert.Contains(t, out, `<results version="3">`)
	assert.Contains(t, out, `id="nullPointer"`)
	assert.Contains(t, out, "</results>")
}

func TestWriterRenderPlistListsFiles(t *testing.T) {
	cfg := settings.Default()
	cfg.OutputFormat = settings.OutputPlist
	w := NewWriter(cfg, nil, false)
	w.Report(sampleDiag())
	out := w.RenderPlist()
	assert.Contains(t, out, "<key>files</key>")
	assert.Contains(t, out, "<string>a.cpp</string>")
	assert.Contains(t, out, "<key>diagnostics</key>")
}

func TestWriterProgressRespectsReportProgressFlag(t *testing.T) {
	cfg := settings.Default()
	w := NewWriter(cfg, nil, false)
	var got []string
	w.OnProgress(func(file, stage string, percent int) {
		got = append(got, stage)
	})
	w.Progress("a.cpp", "unusedVariable", 50)
	assert.Empty(t, got)

	cfg.ReportProgress = true
	w.Progress("a.cpp", "unusedVariable", 50)
	require.Len(t, got, 1)
	assert.Equal(t, "unusedVariable", got[0])
}

func TestWriterDiagnosticsReturnsAccumulated(t *testing.T) {
	cfg := settings.Default()
	w := NewWriter(cfg, nil, false)
	w.Report(sampleDiag())
	w.Report(sampleDiag())
	assert.Len(t, w.Diagnostics(), 2)
}
