// Package main is the webbundle CLI: a dependency-graph-driven asset
// bundler for front-end source trees, plus the Source Inspector diagnostic
// companion carried over from this CLI's previous life as a source-tree
// ZIP-bundling tool. Command tree and persistent-flag wiring follow
// fluxbase's cobra root command (cli/cmd/root.go): a persistent --config
// flag resolved by internal/config, cobra.OnInitialize wiring the logger
// before any subcommand runs, and --debug raising the log level.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"webbundle/internal/obslog"
)

var (
	cfgFile string
	debug   bool
	runID   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if debug {
			obslog.Fatal(err, "webbundle failed")
		}
		fmt.Fprintln(os.Stderr, "webbundle:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "webbundle",
		Short: "Dependency-graph-driven asset bundler for front-end source trees",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default: ./webbundle.yaml, then $WEBBUNDLE_*  env)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "raise log level to debug and attach stack traces to fatal errors")

	cobra.OnInitialize(func() {
		runID = uuid.NewString()
		obslog.Init(obslog.Options{Debug: debug, RunID: runID})
	})

	root.AddCommand(newBuildCmd())
	root.AddCommand(newInspectCmd())
	return root
}
