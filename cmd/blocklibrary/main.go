package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/blocklibrary/cli"
	"github.com/jonwraymond/blocklibrary/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "blocklibrary",
		Short:   "blocklibrary - MCP tool server for block-library authoring",
		Version: version.String(),
		Long: `blocklibrary serves a catalog of MCP tools for working with a site's
block library: listing and analyzing blocks, extracting live block
content from published pages, generating documentation templates, and
maintaining the placeholder, template, and library-registration sheets.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.VersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
