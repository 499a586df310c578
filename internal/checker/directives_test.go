package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/library"
	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
)

func buildUnitWithDirectives(directives []intake.Directive) *intake.Unit {
	files := intake.NewFileTable()
	fi := files.Intern("test.cpp")
	for i := range directives {
		directives[i].FileIndex = fi
	}
	return intake.NewUnit(nil, directives, files, settings.Default(), library.Std(), "")
}

func TestCheckConstantPreprocessorConditionFlagsLiteralZero(t *testing.T) {
	u := buildUnitWithDirectives([]intake.Directive{{Line: 4, Text: "#if 0"}})
	var got []diagnostic.Diagnostic
	checkConstantPreprocessorCondition(u, nil, func(d diagnostic.Diagnostic) {
		got = append(got, d)
	})
	require.Len(t, got, 1)
	assert.Equal(t, "constantPreprocessorCondition", got[0].ID)
	assert.Contains(t, got[0].VerboseMessage, "always false")
}

func TestCheckConstantPreprocessorConditionFlagsLiteralTrue(t *testing.T) {
	u := buildUnitWithDirectives([]intake.Directive{{Line: 7, Text: "#elif (1 == 1)"}})
	var got []diagnostic.Diagnostic
	checkConstantPreprocessorCondition(u, nil, func(d diagnostic.Diagnostic) {
		got = append(got, d)
	})
	require.Len(t, got, 1)
	assert.Contains(t, got[0].VerboseMessage, "always true")
}

func TestCheckConstantPreprocessorConditionIgnoresMacroDependentCondition(t *testing.T) {
	u := buildUnitWithDirectives([]intake.Directive{
		{Line: 1, Text: "#if defined(FOO)"},
		{Line: 2, Text: "#if FOO == 1"},
		{Line: 3, Text: "#pragma pack(1)"},
	})
	var got []diagnostic.Diagnostic
	checkConstantPreprocessorCondition(u, nil, func(d diagnostic.Diagnostic) {
		got = append(got, d)
	})
	assert.Empty(t, got)
}
