// Command matchbookd runs the matching engine's HTTP control surface.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := newRootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("matchbookd exited with error")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "matchbookd",
		Short: "matchbookd runs the limit order book matching engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	flags := root.Flags()
	flags.String("address", "0.0.0.0", "bind address")
	flags.Int("port", 8080, "bind port")
	flags.Int("journal-capacity", 64, "processed-orders journal capacity")

	_ = viper.BindPFlag("address", flags.Lookup("address"))
	_ = viper.BindPFlag("port", flags.Lookup("port"))
	_ = viper.BindPFlag("journal-capacity", flags.Lookup("journal-capacity"))
	viper.SetEnvPrefix("matchbook")
	viper.AutomaticEnv()
	viper.SetConfigName("matchbook")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			log.Warn().Err(err).Msg("unable to read config file, continuing with flags/env only")
		}
	}

	return root
}
