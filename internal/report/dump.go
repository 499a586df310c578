package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/symbols"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// Dump renders the debug-dump XML document spec.md §6 describes:
// <directivelist>, <tokenlist>, <symboldatabase>, <valueflow>,
// <typedef-info> and <template-varid-usage> sections. The directive/token
// lists, <symboldatabase> and <valueflow> are gated by which of the
// unit's debug-* settings are set (all are written when Settings is nil);
// <typedef-info> and <template-varid-usage> are always written (an empty
// Unit.Symbols still produces a valid, empty <symboldatabase/>).
func Dump(u *intake.Unit, db *symbols.Database) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\"?>\n<dump>\n")

	if u.Settings == nil || u.Settings.DebugNormal || u.Settings.DebugSimplified {
		writeDirectiveList(&b, u)
		writeTokenList(&b, u)
	}
	if u.Settings == nil || u.Settings.DebugSymDB {
		writeSymbolDatabase(&b, db)
	}
	if u.Settings == nil || u.Settings.DebugValueFlow {
		b.WriteString(" <valueflow/>\n")
	}
	writeTypedefInfo(&b, u)
	writeTemplateVarIDUsage(&b, u)

	b.WriteString("</dump>\n")
	return b.String()
}

func writeDirectiveList(b *strings.Builder, u *intake.Unit) {
	b.WriteString(" <directivelist>\n")
	for _, d := range u.Directives {
		fmt.Fprintf(b, "  <directive file=\"%s\" line=\"%d\" str=\"%s\"/>\n",
			xmlAttrEscape(u.Files.Path(d.FileIndex)), d.Line, xmlAttrEscape(d.Text))
	}
	b.WriteString(" </directivelist>\n")
}

func writeTokenList(b *strings.Builder, u *intake.Unit) {
	b.WriteString(" <tokenlist>\n")
	for cur := u.Tokens.Front(); cur != token.NoRef; cur = u.Tokens.Next(cur) {
		t := u.Tokens.Get(cur)
		fmt.Fprintf(b, "  <token id=\"%d\" str=\"%s\" line=\"%d\" col=\"%d\" file=\"%s\"",
			cur, xmlAttrEscape(t.Lexeme), t.Loc.Line, t.Loc.Column, xmlAttrEscape(u.Files.Path(t.Loc.FileIndex)))
		if t.VarID != 0 {
			fmt.Fprintf(b, " varId=\"%d\"", t.VarID)
		}
		if t.BracketLink != token.NoRef {
			fmt.Fprintf(b, " link=\"%d\"", t.BracketLink)
		}
		b.WriteString("/>\n")
	}
	b.WriteString(" </tokenlist>\n")
}

func writeSymbolDatabase(b *strings.Builder, db *symbols.Database) {
	b.WriteString(" <symboldatabase>\n")
	if db != nil {
		for _, s := range db.Scopes {
			fmt.Fprintf(b, "  <scope id=\"%d\" type=\"%s\" parent=\"%d\"/>\n", s.ID, xmlAttrEscape(s.Kind), s.Parent)
		}
		for _, v := range db.Variables {
			fmt.Fprintf(b, "  <var id=\"%d\" name=\"%s\" scope=\"%d\"/>\n", v.ID, xmlAttrEscape(v.Name), v.ScopeID)
		}
		for _, f := range db.Functions {
			fmt.Fprintf(b, "  <function name=\"%s\" scope=\"%d\" bodyScope=\"%d\"/>\n", xmlAttrEscape(f.Name), f.ScopeID, f.BodyScope)
		}
	}
	b.WriteString(" </symboldatabase>\n")
}

func writeTypedefInfo(b *strings.Builder, u *intake.Unit) {
	b.WriteString(" <typedef-info>\n")
	for _, t := range u.TypedefInfo {
		fmt.Fprintf(b, "  <typedef name=\"%s\" file=\"%s\" line=\"%d\" col=\"%d\" used=\"%s\" isFunctionPointer=\"%s\"/>\n",
			xmlAttrEscape(t.Name), xmlAttrEscape(u.Files.Path(t.File)), t.Line, t.Column, strconv.FormatBool(t.Used), strconv.FormatBool(t.IsFunctionPointer))
	}
	b.WriteString(" </typedef-info>\n")
}

// writeTemplateVarIDUsage lists every token the template-bracket pass
// flagged as lying inside a template argument list that also carries a
// variable id, the cross-reference third-party tooling uses to tell
// "Foo<N>" instantiation parameters apart from ordinary comparisons
// (spec.md §6).
func writeTemplateVarIDUsage(b *strings.Builder, u *intake.Unit) {
	b.WriteString(" <template-varid-usage>\n")
	for cur := u.Tokens.Front(); cur != token.NoRef; cur = u.Tokens.Next(cur) {
		t := u.Tokens.Get(cur)
		if t.VarID == 0 || !t.HasFlag(token.FlagTemplateArg) {
			continue
		}
		fmt.Fprintf(b, "  <usage tokenId=\"%d\" varId=\"%d\" line=\"%d\"/>\n", cur, t.VarID, t.Loc.Line)
	}
	b.WriteString(" </template-varid-usage>\n")
}

func xmlAttrEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;")
	return r.Replace(s)
}
