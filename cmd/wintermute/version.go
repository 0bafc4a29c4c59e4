package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/wintermute/cmd/wintermute/internal"
	"github.com/zero-day-ai/wintermute/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if globalFlags.GetOutputFormat() == internal.FormatJSON {
			return internal.NewJSONFormatter(os.Stdout).PrintJSON(version.Info())
		}
		cmd.Println(version.String())
		return nil
	},
}
