package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sungm97/comed-tesla/internal/api/tesla"
	"github.com/sungm97/comed-tesla/internal/config"
	"github.com/sungm97/comed-tesla/internal/service"
)

func run(ctx context.Context, cmd *cobra.Command, arg *args) error {
	logger, closeLog, err := initLogger(arg.Debug, arg.LogFile, arg.version)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer closeLog()

	v := viper.New()
	if err := v.BindPFlag(config.KeyAPIHost, cmd.Flags().Lookup("api-host")); err != nil {
		return fmt.Errorf("failed to bind api-host flag: %w", err)
	}

	cfg, err := config.Load(v, arg.EnvFile, cmd.Flags().Changed("env-file"))
	if err != nil {
		return err
	}

	logger.Debug("Config loaded",
		zap.String("client_id", cfg.ClientID),
		zap.String("api_host", cfg.APIHost),
		zap.Bool("has_secret", cfg.ClientSecret != ""),
		zap.Bool("has_refresh_token", cfg.RefreshToken != ""),
	)

	teslaClient := tesla.NewClient(arg.TokenURL, logger)
	fleetService := service.NewFleetService(cfg, logger, teslaClient, cmd.OutOrStdout())

	if _, err := fleetService.Run(ctx); err != nil {
		logger.Debug("Run finished with error", zap.Error(err))
		return err
	}

	return nil
}
