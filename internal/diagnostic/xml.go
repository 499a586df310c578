package diagnostic

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

// xmlLocation mirrors cppcheck's <location file line column info?/> per
// call-stack frame, innermost first.
type xmlLocation struct {
	XMLName xml.Name `xml:"location"`
	File    string   `xml:"file,attr"`
	Line    int      `xml:"line,attr"`
	Column  int      `xml:"column,attr"`
	Info    string   `xml:"info,attr,omitempty"`
}

type xmlSymbol struct {
	XMLName xml.Name `xml:"symbol"`
	Name    string   `xml:",chardata"`
}

type xmlError struct {
	XMLName       xml.Name `xml:"error"`
	ID            string   `xml:"id,attr"`
	Severity      string   `xml:"severity,attr"`
	Msg           string   `xml:"msg,attr"`
	Verbose       string   `xml:"verbose,attr"`
	CWE           int      `xml:"cwe,attr,omitempty"`
	Hash          uint64   `xml:"hash,attr,omitempty"`
	Inconclusive  string   `xml:"inconclusive,attr,omitempty"`
	Locations     []xmlLocation
	Symbols       []xmlSymbol
}

// ToXML renders d as a single <error> element, version-3 compatible
// (spec.md §6), with one <location> per call-stack frame innermost
// first and one <symbol> per symbol name.
func ToXML(d Diagnostic) (string, error) {
	e := xmlError{
		ID:       d.ID,
		Severity: d.Severity.String(),
		Msg:      FixInvalidChars(d.ShortMessage),
		Verbose:  FixInvalidChars(d.VerboseMessage),
		CWE:      d.CWE,
		Hash:     d.Hash,
	}
	if d.Certainty == CertaintyInconclusive {
		e.Inconclusive = "true"
	}
	for i := len(d.CallStack) - 1; i >= 0; i-- {
		f := d.CallStack[i]
		e.Locations = append(e.Locations, xmlLocation{File: f.SimplifiedPath, Line: f.Line, Column: f.Column, Info: f.Info})
	}
	for _, s := range d.SymbolNames {
		e.Symbols = append(e.Symbols, xmlSymbol{Name: s})
	}
	out, err := xml.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ResultsXMLHeader / ResultsXMLFooter wrap a batch of ToXML outputs into
// the <results version="3">…</results> document (spec.md §6).
func ResultsXMLHeader(cppcheckVersion string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<results version="3"><cppcheck version="` + xmlEscape(cppcheckVersion) + `"/><errors>`
}

func ResultsXMLFooter() string {
	return "</errors></results>"
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// CanonicalKey builds the checker host's dedup key: a stable string of
// the fields that make two diagnostics "the same message" (spec.md §4.2's
// deduplication canonicalization).
func CanonicalKey(d Diagnostic) string {
	key := d.ID + "|" + strconv.Itoa(len(d.CallStack))
	for _, f := range d.CallStack {
		key += "|" + f.SimplifiedPath + ":" + strconv.Itoa(f.Line) + ":" + strconv.Itoa(f.Column)
	}
	key += "|" + d.ShortMessage
	return key
}
