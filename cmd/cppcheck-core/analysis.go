package main

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jhnc-oss/cppcheck-sub000/internal/checker"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/lexer"
	"github.com/jhnc-oss/cppcheck-sub000/internal/library"
	"github.com/jhnc-oss/cppcheck-sub000/internal/pipeline"
	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
	"github.com/jhnc-oss/cppcheck-sub000/internal/suppression"
	"github.com/jhnc-oss/cppcheck-sub000/internal/symbols"
)

// commonFlags holds the settings.Settings surface exposed on the
// command line, shared between `analyze` and `dump` (spec.md §6
// "Settings surface").
type commonFlags struct {
	platform       string
	severities     []string
	outputFormat   string
	emitDuplicates bool
	templateFormat string
	reportProgress bool
}

func addSettingsFlags(cmd *cobra.Command, f *commonFlags) {
	cmd.Flags().StringVar(&f.platform, "platform", settings.PlatformUnix64.Name, "target platform (unix32, unix64, win32, win64)")
	cmd.Flags().StringSliceVar(&f.severities, "enable", []string{"warning", "style", "portability"}, "severity tiers to enable")
	cmd.Flags().StringVar(&f.outputFormat, "output-format", "plain", "plain, xml or plist")
	cmd.Flags().BoolVar(&f.emitDuplicates, "emit-duplicates", false, "disable the dedup set")
	cmd.Flags().StringVar(&f.templateFormat, "template-format", "{file}:{line}:{column}: {severity}: {message} [{id}]", "diagnostic rendering template")
	cmd.Flags().BoolVar(&f.reportProgress, "report-progress", false, "emit progress callbacks")
}

func (f *commonFlags) buildSettings() *settings.Settings {
	cfg := settings.Default()
	cfg.Platform = f.platform
	cfg.OutputFormat = settings.OutputFormat(f.outputFormat)
	cfg.EmitDuplicates = f.emitDuplicates
	cfg.TemplateFormat = f.templateFormat
	cfg.ReportProgress = f.reportProgress
	cfg.Severity = settings.SeverityTiers{}
	for _, s := range f.severities {
		switch strings.TrimSpace(s) {
		case "warning":
			cfg.Severity.Warning = true
		case "style":
			cfg.Severity.Style = true
		case "performance":
			cfg.Severity.Performance = true
		case "portability":
			cfg.Severity.Portability = true
		case "information":
			cfg.Severity.Information = true
		case "debug":
			cfg.Severity.Debug = true
		}
	}
	return cfg
}

// loadUnit reads path, lexes it, and runs every normalization stage up
// to and including symbol-database construction, returning the
// resulting Unit and Database ready for the checker host (spec.md §4.3
// and §4.5-§4.7's ordering: typedef and the 50-step pipeline run first,
// symbols.Build runs only once variable ids and bracket links settle).
func loadUnit(path string, cfg *settings.Settings) (*intake.Unit, *symbols.Database, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	files := intake.NewFileTable()
	fi := files.Intern(path)
	raws, directives := lexer.Scan(string(src), fi)
	u := intake.NewUnit(raws, directives, files, cfg, library.Std(), "")

	if _, err := pipeline.Run(u); err != nil {
		return u, nil, err
	}
	db := symbols.Build(u)
	return u, db, nil
}

// scanSuppressions reads path's text a second time looking for
// "// cppcheck-suppress <id>" comments (spec.md §4.7's suppression
// database), each applying to the line immediately following it.
func scanSuppressions(path string) (*suppression.Database, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rules []suppression.Rule
	for i, line := range strings.Split(string(src), "\n") {
		if rule, ok := suppression.ParseInlineComment(line, path, i+2); ok {
			rules = append(rules, rule)
		}
	}
	return suppression.New(rules), nil
}

// runCheckers dispatches the builtin checker registry against u and db,
// collecting into sink (spec.md §4.7 "checker host").
func runCheckers(u *intake.Unit, db *symbols.Database, sup *suppression.Database, cfg *settings.Settings, sink checker.Sink, progress checker.ProgressSink) error {
	host := checker.NewHost(sup, cfg.EmitDuplicates, nil)
	runID := uuid.New().String()
	if logger != nil {
		logger.Debugw("starting checker run", "runID", runID, "checkers", len(checker.Registry))
	}
	return host.Run(context.Background(), u, db, checker.Registry, sink, progress)
}
