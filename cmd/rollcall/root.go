package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abihf/rollcall/config"
	"github.com/abihf/rollcall/logger"
)

var (
	configPath string
	conf       *config.Config
	log        *zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rollcall",
	Short: "Take attendance by recognising faces in front of a webcam",
	Long: `Rollcall compares a webcam picture against a directory of enrolled face
images and records a timestamped attendance row for the person it recognises.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var loadErr error
		conf, loadErr = config.Load(configPath)
		log = logger.Init(logger.Options{
			Level:     conf.Log.Level,
			Format:    conf.Log.Format,
			Component: cmd.Name(),
			Writer:    cmd.ErrOrStderr(),
		})
		if loadErr != nil {
			log.Warn().Err(loadErr).Msg("Config file ignored, using defaults")
		}
		return conf.Validate()
	},
}

func Execute() {
	// Ctrl+C cancels a running preview instead of killing the process
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default "+config.DefaultPath+")")
}
