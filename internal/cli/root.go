package cli

import (
	"github.com/spf13/cobra"

	"github.com/sungm97/comed-tesla/internal/api/tesla"
	"github.com/sungm97/comed-tesla/internal/config"
)

type args struct {
	version  string
	EnvFile  string
	APIHost  string
	TokenURL string
	LogFile  string
	Debug    bool
}

// InitCommands 创建根命令
func InitCommands(version string) *cobra.Command {
	args := &args{
		version: version,
	}

	cmd := &cobra.Command{
		Use:   "fleetvehicles",
		Short: "List vehicles registered to a Tesla Fleet API partner account",
		Long: "fleetvehicles exchanges a Fleet API refresh token for an access token and " +
			"prints the vehicles visible through the partner endpoint as JSON.\n\n" +
			"Credentials are read from TESLA_CLIENT_ID, TESLA_CLIENT_SECRET and TESLA_REFRESH_TOKEN " +
			"(process environment or the env file). TESLA_API_HOST is optional; without it the " +
			"regional host is read from the refresh token's issuer.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, args)
		},
	}

	cmd.Flags().StringVar(&args.EnvFile, "env-file", config.DefaultEnvFile, "dotenv file to load before reading the environment")
	cmd.Flags().StringVar(&args.APIHost, "api-host", "", "regional Fleet API host, overrides TESLA_API_HOST")
	cmd.Flags().StringVar(&args.TokenURL, "token-url", tesla.DefaultTokenURL, "OAuth2 token endpoint")
	cmd.Flags().StringVar(&args.LogFile, "log-file", "", "also write JSON logs to this file (rotated)")
	cmd.Flags().BoolVar(&args.Debug, "debug", false, "enable debug logging")

	_ = cmd.Flags().MarkHidden("token-url")

	return cmd
}
