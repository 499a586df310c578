package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
)

func TestBuildSettingsAppliesEnabledSeverities(t *testing.T) {
	f := &commonFlags{
		platform:       settings.PlatformWin64.Name,
		severities:     []string{"warning", "performance"},
		outputFormat:   "xml",
		templateFormat: "{id}",
	}
	cfg := f.buildSettings()
	assert.Equal(t, settings.PlatformWin64.Name, cfg.Platform)
	assert.True(t, cfg.Severity.Warning)
	assert.True(t, cfg.Severity.Performance)
	assert.False(t, cfg.Severity.Style)
	assert.Equal(t, settings.OutputXML, cfg.OutputFormat)
}

func TestLoadUnitRunsPipelineOverAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.cpp")
	require.NoError(t, os.WriteFile(path, []byte("int add(int a, int b) { return a + b; }\n"), 0o644))

	cfg := settings.Default()
	u, db, err := loadUnit(path, cfg)
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.NotZero(t, u.Tokens.Front())
}

func TestScanSuppressionsFindsCppcheckSuppressComment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.cpp")
	src := "// cppcheck-suppress unusedVariable\nint x;\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	sup, err := scanSuppressions(path)
	require.NoError(t, err)
	assert.True(t, sup.Suppressed("unusedVariable", path, 2))
	assert.False(t, sup.Suppressed("unusedVariable", path, 5))
}
