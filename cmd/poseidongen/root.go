package main

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "poseidongen",
		Short:         "Generate Poseidon round constants and MDS matrices",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return errors.Wrap(err, "--log-level")
			}
			a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).
				With().Timestamp().Logger()
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "trace, debug, info, warn, error or disabled")

	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newSeedCmd(a))
	return rootCmd
}
