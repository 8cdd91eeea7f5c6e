package cmd

import (
	"encoding/json"
	"log"
	"os"

	"github.com/dendrascience/dendra-splitfs/version"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates and returns the version subcommand for the splitfs CLI.
func NewVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if !asJSON {
				version.PrintVersion(os.Stdout, "splitfs")
				return
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(version.GetInfo()); err != nil {
				log.Fatal(err)
			}
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Print version information as JSON")

	return cmd
}
