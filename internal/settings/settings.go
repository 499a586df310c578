// Package settings holds the configuration surface the core consults
// during normalization and checking (spec.md §6). It is the one place
// upstream collaborators (CLI, project-file loader) and the pipeline
// agree on option names.
package settings

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Standard selects the active language level, gating newer syntax forms
// (spec.md §6's cpp-standard/c-standard).
type Standard string

const (
	CXX03 Standard = "c++03"
	CXX11 Standard = "c++11"
	CXX14 Standard = "c++14"
	CXX17 Standard = "c++17"
	CXX20 Standard = "c++20"
	C89   Standard = "c89"
	C99   Standard = "c99"
	C11   Standard = "c11"
)

// Platform selects integer sizes, sizeof(pointer) and Windows-vs-Unix
// behavior (spec.md §6).
type Platform struct {
	Name          string
	SizeOfPointer int
	SizeOfInt     int
	SizeOfLong    int
	SizeOfLongLong int
	Windows       bool
}

var (
	PlatformUnix32   = Platform{Name: "unix32", SizeOfPointer: 4, SizeOfInt: 4, SizeOfLong: 4, SizeOfLongLong: 8}
	PlatformUnix64   = Platform{Name: "unix64", SizeOfPointer: 8, SizeOfInt: 4, SizeOfLong: 8, SizeOfLongLong: 8}
	PlatformWin32    = Platform{Name: "win32", SizeOfPointer: 4, SizeOfInt: 4, SizeOfLong: 4, SizeOfLongLong: 8, Windows: true}
	PlatformWin64    = Platform{Name: "win64", SizeOfPointer: 8, SizeOfInt: 4, SizeOfLong: 4, SizeOfLongLong: 8, Windows: true}
)

// SeverityTiers gates which diagnostic severities are enabled, mirroring
// spec.md §6's severity.{warning,style,performance,portability,
// information,debug} options. Error is always enabled.
type SeverityTiers struct {
	Warning     bool `yaml:"warning"`
	Style       bool `yaml:"style"`
	Performance bool `yaml:"performance"`
	Portability bool `yaml:"portability"`
	Information bool `yaml:"information"`
	Debug       bool `yaml:"debug"`
}

// OutputFormat selects the report renderer (spec.md §6).
type OutputFormat string

const (
	OutputPlain OutputFormat = "plain"
	OutputXML   OutputFormat = "xml"
	OutputPlist OutputFormat = "plist"
)

// Settings is the full recognized options surface from spec.md §6.
type Settings struct {
	CppStandard Standard `yaml:"cpp-standard"`
	CStandard   Standard `yaml:"c-standard"`
	Platform    string   `yaml:"platform"`

	Severity SeverityTiers `yaml:"severity"`

	CheckHeaders         bool `yaml:"check-headers"`
	CheckUnusedTemplates bool `yaml:"check-unused-templates"`

	DebugNormal    bool `yaml:"debug-normal"`
	DebugSimplified bool `yaml:"debug-simplified"`
	DebugSymDB     bool `yaml:"debug-symdb"`
	DebugAST       bool `yaml:"debug-ast"`
	DebugValueFlow bool `yaml:"debug-valueflow"`

	ReportProgress bool `yaml:"report-progress"`

	TemplateMaxTime time.Duration `yaml:"template-max-time"`
	TypedefMaxTime  time.Duration `yaml:"typedef-max-time"`

	BuildDir  string   `yaml:"build-dir"`
	BasePaths []string `yaml:"base-paths"`

	EmitDuplicates bool `yaml:"emit-duplicates"`

	OutputFormat OutputFormat `yaml:"output-format"`

	TemplateFormat   string `yaml:"template-format"`
	TemplateLocation string `yaml:"template-location"`
}

// Default returns the settings the CLI starts from before flags/YAML
// are layered on top.
func Default() *Settings {
	return &Settings{
		CppStandard:  CXX17,
		CStandard:    C11,
		Platform:     PlatformUnix64.Name,
		Severity:     SeverityTiers{Warning: true, Style: true, Portability: true},
		OutputFormat: OutputPlain,
		TemplateFormat: "{file}:{line}:{column}: {severity}: {message} [{id}]",
	}
}

// LoadYAML overlays project-file options onto s, the way codenerd layers
// YAML project config onto its defaults.
func LoadYAML(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, s)
}

// ResolvePlatform returns the named Platform, defaulting to unix64 if
// the name is unrecognized.
func ResolvePlatform(name string) Platform {
	switch name {
	case PlatformUnix32.Name:
		return PlatformUnix32
	case PlatformWin32.Name:
		return PlatformWin32
	case PlatformWin64.Name:
		return PlatformWin64
	default:
		return PlatformUnix64
	}
}

// DisableValueFlowEnv is the environment variable that skips the
// value-flow pass (spec.md §6).
const DisableValueFlowEnv = "DISABLE_VALUEFLOW"

// ValueFlowDisabled reports whether DISABLE_VALUEFLOW is set.
func ValueFlowDisabled() bool {
	_, ok := os.LookupEnv(DisableValueFlowEnv)
	return ok
}

// FeatureGate reports whether a C++-standard-gated feature is available
// under s, matching spec.md §6's "gates C++11/14/17/20 features" note.
func (s *Settings) FeatureGate(feature string) bool {
	order := map[Standard]int{CXX03: 0, CXX11: 1, CXX14: 2, CXX17: 3, CXX20: 4}
	required := map[string]Standard{
		"spaceship":          CXX20,
		"constinit":          CXX20,
		"structured-bindings": CXX17,
		"if-init":            CXX17,
	}
	need, ok := required[feature]
	if !ok {
		return true
	}
	have, ok := order[s.CppStandard]
	if !ok {
		return false
	}
	return have >= order[need]
}
