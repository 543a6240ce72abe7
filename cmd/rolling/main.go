/*
main.go - Application entry point

PURPOSE:
  The rolling command: a business-day rolling server plus one-shot CLI
  helpers built on the same packages.

COMMANDS:
  serve        Start the HTTP API (see serve.go)
  roll         Roll dates given as arguments or on stdin (see roll.go)
  conventions  Print the supported conventions
  version      Print the build version

EXAMPLES:
  # Run the server with a config file
  rolling serve --config rolling.yaml

  # Keep calendars in memory only
  rolling serve --db ""

  # Roll month-end dates on the joint US/TARGET calendar
  rolling roll --convention mf --calendar us+target 2024-03-31 2024-06-30

SEE ALSO:
  - internal/config: Config file format
  - api/server.go: Router configuration
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "rolling",
		Short:        "Business-day date rolling engine",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "path to the YAML configuration file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newRollCmd())
	root.AddCommand(newConventionsCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return root
}
