package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// SetVersion records build information injected by main
func SetVersion(v, rev, built string) {
	version = v
	commit = rev
	buildTime = built
}

// parseVersion parses a release version, accepting a leading "v". Development
// builds yield an error.
func parseVersion(v string) (semver.Version, error) {
	return semver.Parse(strings.TrimPrefix(v, "v"))
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion(w io.Writer) error {
	v, err := parseVersion(version)
	if err != nil {
		fmt.Fprintf(w, "restbind %s (development build, commit %s, built %s)\n", version, commit, buildTime)
		return nil
	}

	fmt.Fprintf(w, "restbind %s (commit %s, built %s)\n", v, commit, buildTime)
	if len(v.Pre) > 0 {
		fmt.Fprintln(w, "pre-release build")
	}
	return nil
}
