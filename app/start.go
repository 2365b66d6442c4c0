package app

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BayiPanel/BayiPanel/internal/config"
	"github.com/BayiPanel/BayiPanel/internal/daemon"
	"github.com/BayiPanel/BayiPanel/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var (
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the BayiPanel web service",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			if err = logger.Init(cfg.Log); err != nil {
				return err
			}

			d, err := daemon.New(&cfg)
			if err != nil {
				return err
			}

			log.Info().Int("port", cfg.Webserver.Port).Msg("starting web service")

			return d.Start()
		},
	}
)

// loadConfig reads .env files into the environment, then the configuration.
func loadConfig() (config.Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load()

	return config.ReadConfig(configPath)
}
