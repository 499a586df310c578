package checker

import (
	"strings"

	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/directive"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/symbols"
)

func init() {
	Register(Checker{Name: "constantPreprocessorCondition", Run: checkConstantPreprocessorCondition})
}

// checkConstantPreprocessorCondition flags #if/#elif directives whose
// condition text contains no macro identifiers at all, so its truth
// value is fixed regardless of build configuration — the reason
// internal/directive exists as a standalone condition parser rather
// than a string match against "0"/"1".
func checkConstantPreprocessorCondition(u *intake.Unit, _ *symbols.Database, report func(diagnostic.Diagnostic)) {
	for _, d := range u.Directives {
		text, ok := conditionText(d.Text)
		if !ok || !isLiteralCondition(text) {
			continue
		}
		cond, err := directive.ParseCondition(text)
		if err != nil {
			continue
		}
		verdict := "false"
		if cond.Eval(nil, nil) {
			verdict = "true"
		}
		report(diagnostic.New(
			[]diagnostic.Frame{{File: u.Files.Path(d.FileIndex), Line: d.Line, Column: 1, SimplifiedPath: u.Files.Path(d.FileIndex)}},
			diagnostic.SeverityStyle, "constantPreprocessorCondition",
			"Condition '"+text+"' is always "+verdict+" regardless of build configuration.", diagnostic.CertaintyNormal))
	}
}

// conditionText extracts the expression following "#if"/"#elif", or
// ("", false) for any other directive kind.
func conditionText(directiveText string) (string, bool) {
	t := strings.TrimSpace(directiveText)
	t = strings.TrimSpace(strings.TrimPrefix(t, "#"))
	for _, kw := range []string{"elif", "if"} {
		if strings.HasPrefix(t, kw+" ") {
			return strings.TrimSpace(t[len(kw):]), true
		}
	}
	return "", false
}

// isLiteralCondition reports whether text contains only digits,
// parens and logical/comparison operators — no identifier could still
// be macro-dependent.
func isLiteralCondition(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
		case r == ' ' || r == '(' || r == ')' || r == '!' || r == '=' || r == '&' || r == '|' || r == '<' || r == '>':
		default:
			return false
		}
	}
	return true
}
