package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "apl-native",
	Short: "Native side of the APL editor protocol",
	Long: `apl-native listens for editor connections and answers their requests about the
workspace: the state indicator, the source of functions and new function definitions.

Responses are terminated by a sentinel line, APL_NATIVE_END_TAG unless configured otherwise.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("apl-native %s\n", Version))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
