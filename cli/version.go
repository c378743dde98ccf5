package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/blocklibrary/version"
)

// VersionCmd returns the version command
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.String())
		},
	}
}
