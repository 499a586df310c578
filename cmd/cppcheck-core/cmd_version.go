package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const coreVersion = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the core version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("cppcheck-core " + coreVersion)
			return nil
		},
	}
}
