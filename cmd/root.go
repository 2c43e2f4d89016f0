package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kilianp07/spaplan/app"
	"github.com/kilianp07/spaplan/config"
	corelogger "github.com/kilianp07/spaplan/core/logger"
	"github.com/kilianp07/spaplan/infra/logger"
)

var (
	cfgPath string
	dirPath string
)

var rootCmd = &cobra.Command{
	Use:           "spaplan",
	Short:         "Exchange exam plans with the SPA scheduler",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVarP(&dirPath, "dir", "d", "", "SPA working directory, overrides workdir.path")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(corelogger.Level(cfg.Logging.Level))
	return cfg, nil
}

// withService runs fn with a Service built from the configuration and
// closes it afterwards.
func withService(fn func(cfg *config.Config, svc *app.Service) error) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg, dirPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			logger.New("main").Errorf("service close: %v", cerr)
			if err == nil {
				err = cerr
			}
		}
	}()
	return fn(cfg, svc)
}
