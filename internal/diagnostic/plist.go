package diagnostic

import (
	"fmt"
	"strings"
)

// ToPlist renders d as one Clang-Analyzer-compatible <dict> entry of the
// top-level <array key="diagnostics">, per spec.md §4.2/§6: a path made
// of "control" and "event" dicts, description, category (severity), type
// and check_name.
func ToPlist(d Diagnostic) string {
	var b strings.Builder
	b.WriteString("<dict>\n")
	b.WriteString(" <key>path</key>\n <array>\n")
	for i, f := range d.CallStack {
		kind := "event"
		if i < len(d.CallStack)-1 {
			kind = "control"
		}
		writePlistPathEntry(&b, kind, f)
	}
	b.WriteString(" </array>\n")
	fmt.Fprintf(&b, " <key>description</key><string>%s</string>\n", plistEscape(d.ShortMessage))
	fmt.Fprintf(&b, " <key>category</key><string>%s</string>\n", plistEscape(d.Severity.String()))
	b.WriteString(" <key>type</key><string>cppcheck</string>\n")
	fmt.Fprintf(&b, " <key>check_name</key><string>%s</string>\n", plistEscape(d.ID))
	b.WriteString(" <key>issue_hash_content_of_line_in_context</key>")
	fmt.Fprintf(&b, "<string>%d</string>\n", d.Hash)
	b.WriteString("</dict>")
	return b.String()
}

func writePlistPathEntry(b *strings.Builder, kind string, f Frame) {
	b.WriteString("  <dict>\n")
	fmt.Fprintf(b, "   <key>kind</key><string>%s</string>\n", kind)
	b.WriteString("   <key>location</key>\n")
	b.WriteString("   <dict>\n")
	fmt.Fprintf(b, "    <key>line</key><integer>%d</integer>\n", f.Line)
	fmt.Fprintf(b, "    <key>col</key><integer>%d</integer>\n", f.Column)
	b.WriteString("    <key>file</key><integer>0</integer>\n")
	b.WriteString("   </dict>\n")
	if kind == "event" {
		fmt.Fprintf(b, "   <key>message</key><string>%s</string>\n", plistEscape(f.Info))
	}
	b.WriteString("  </dict>\n")
}

func plistEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// PlistHeader / PlistFooter wrap a batch of ToPlist outputs into a
// well-formed plist document with the top-level "diagnostics" array and
// the file-list section Clang-Analyzer tooling expects.
func PlistHeader(files []string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	b.WriteString("<plist version=\"1.0\">\n<dict>\n")
	b.WriteString(" <key>files</key>\n <array>\n")
	for _, f := range files {
		fmt.Fprintf(&b, "  <string>%s</string>\n", plistEscape(f))
	}
	b.WriteString(" </array>\n")
	b.WriteString(" <key>diagnostics</key>\n <array>\n")
	return b.String()
}

func PlistFooter() string {
	return " </array>\n</dict>\n</plist>\n"
}
