package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhnc-oss/cppcheck-sub000/internal/report"
)

func newDumpCmd() *cobra.Command {
	f := &commonFlags{}
	cmd := &cobra.Command{
		Use:   "dump <file> [files...]",
		Short: "Run the normalization pipeline and print the debug-dump XML document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := f.buildSettings()
			cfg.DebugNormal = true
			cfg.DebugSymDB = true
			for _, path := range args {
				u, db, err := loadUnit(path, cfg)
				if err != nil {
					if logger != nil {
						logger.Errorw("pipeline failed", "file", path, "error", err)
					}
					continue
				}
				fmt.Println(report.Dump(u, db))
			}
			return nil
		},
	}
	addSettingsFlags(cmd, f)
	return cmd
}
