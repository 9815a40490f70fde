package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const banner = `
   ___          _
  / __\___ _ __| |_ ___   __ _  ___ _ __
 / /  / _ \ '__| __/ _ \ / _` + "`" + ` |/ _ \ '_ \
/ /__| (_) | |  | || (_) | (_| |  __/ | | |
\____/\___/|_|   \__\___/ \__, |\___|_| |_|
                          |___/            `

var skipBanner = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

func shouldSkipBanner(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("help") {
		return true
	}
	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		return true
	}
	return skipBanner[cmd.Name()]
}

var rootCmd = &cobra.Command{
	Use:   "cortogen",
	Short: "Generate source files from a declarative object graph",
	Long: banner + "\n\n" + `cortogen walks a described object graph (types, procedures, packages)
and emits source text for it through a pluggable driver, ordering each
object's declaration and definition so that nothing is emitted before
what it depends on. Re-runs preserve hand-edited code inside marked
code islands.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !shouldSkipBanner(cmd) {
			fmt.Println(banner)
			fmt.Println()
		}
	},
}

func Execute() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "emit machine-readable JSON output where supported")
}
