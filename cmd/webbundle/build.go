package main

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"webbundle/internal/config"
	"webbundle/internal/driver"
	"webbundle/internal/events"
)

// newBuildCmd builds the `build` subcommand: the front-end asset bundler
// (§4.7), the CLI's primary purpose. Ctrl-C/SIGTERM cancels the context
// between artifact writes, mirroring fluxbase's signal.Notify shutdown
// pattern (cmd/fluxbase/main.go), generalized from "drain an HTTP server"
// to "stop before the next entry point".
func newBuildCmd() *cobra.Command {
	var dev bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Bundle configured entry points and assets into the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if dev {
				opts.IsDev = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d := driver.New(opts, events.ZerologSink{Logger: log.Logger})
			log.Info().Str("run_id", d.RunID()).Int("entries", len(opts.EntryPoints)).Msg("build starting")
			if err := d.Build(ctx); err != nil {
				return err
			}
			log.Info().Str("run_id", d.RunID()).Msg("build complete")
			return nil
		},
	}
	cmd.Flags().BoolVar(&dev, "dev", false, "enable freshness caching and the non-minified runtime shim")
	return cmd
}
