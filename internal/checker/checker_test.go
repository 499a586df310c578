package checker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/library"
	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
	"github.com/jhnc-oss/cppcheck-sub000/internal/suppression"
	"github.com/jhnc-oss/cppcheck-sub000/internal/symbols"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func buildUnit(src []string) *intake.Unit {
	files := intake.NewFileTable()
	fi := files.Intern("test.cpp")
	var raws []intake.RawToken
	for i, lex := range src {
		raws = append(raws, intake.RawToken{FileIndex: fi, Line: 1, Column: i + 1, Lexeme: lex})
	}
	return intake.NewUnit(raws, nil, files, settings.Default(), library.Std(), "")
}

type collectSink struct {
	got []diagnostic.Diagnostic
}

func (s *collectSink) Report(d diagnostic.Diagnostic) { s.got = append(s.got, d) }

func TestHostRunDeduplicatesIdenticalDiagnostics(t *testing.T) {
	u := buildUnit([]string{"int", "x", ";"})
	reg := []Checker{
		{Name: "a", Run: func(u *intake.Unit, db *symbols.Database, report func(diagnostic.Diagnostic)) {
			report(diagnostic.New([]diagnostic.Frame{{File: "test.cpp", Line: 1, Column: 1}}, diagnostic.SeverityStyle, "dup", "same message", diagnostic.CertaintyNormal))
		}},
		{Name: "b", Run: func(u *intake.Unit, db *symbols.Database, report func(diagnostic.Diagnostic)) {
			report(diagnostic.New([]diagnostic.Frame{{File: "test.cpp", Line: 1, Column: 1}}, diagnostic.SeverityStyle, "dup", "same message", diagnostic.CertaintyNormal))
		}},
	}
	host := NewHost(nil, false, nil)
	sink := &collectSink{}
	err := host.Run(context.Background(), u, nil, reg, sink, nil)
	require.NoError(t, err)
	assert.Len(t, sink.got, 1)
}

func TestHostRunHonorsSuppressions(t *testing.T) {
	u := buildUnit([]string{"int", "x", ";"})
	reg := []Checker{
		{Name: "a", Run: func(u *intake.Unit, db *symbols.Database, report func(diagnostic.Diagnostic)) {
			report(diagnostic.New([]diagnostic.Frame{{File: "test.cpp", Line: 5}}, diagnostic.SeverityStyle, "suppressMe", "msg", diagnostic.CertaintyNormal))
		}},
	}
	sup := suppression.New([]suppression.Rule{{ID: "suppressMe", File: "*", Line: 0}})
	host := NewHost(sup, false, nil)
	sink := &collectSink{}
	err := host.Run(context.Background(), u, nil, reg, sink, nil)
	require.NoError(t, err)
	assert.Empty(t, sink.got)
}

func TestCheckUnusedTypedefReportsOnlyUnused(t *testing.T) {
	u := buildUnit([]string{"int", "x", ";"})
	u.TypedefInfo = []intake.TypedefRecord{
		{Name: "used", Used: true},
		{Name: "unused", Used: false, File: 1, Line: 2, Column: 3},
	}
	var got []diagnostic.Diagnostic
	checkUnusedTypedef(u, nil, func(d diagnostic.Diagnostic) { got = append(got, d) })
	require.Len(t, got, 1)
	assert.Contains(t, got[0].SymbolNames, "unused")
}
