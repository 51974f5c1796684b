package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information, set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo sets the version information (called from main).
func SetVersionInfo(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		date = d
	}
}

// versionString assembles the version line plus module and toolchain
// details from the embedded build info when available.
func versionString() string {
	s := fmt.Sprintf("repoquery %s (commit %s, built %s)", version, commit, date)
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Path != "" {
			s += "\nmodule: " + info.Main.Path
		}
		if info.GoVersion != "" {
			s += "\ngo:     " + info.GoVersion
		}
	}
	return s
}

// NewCmdVersion creates the version command.
func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(versionString())
		},
	}
}
