package cli

import (
	"errors"

	"github.com/sungm97/comed-tesla/internal/api/tesla"
	"github.com/sungm97/comed-tesla/internal/config"
)

// 退出码
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitConfigError    = 2
	ExitHostResolution = 3
	ExitAuthError      = 4
	ExitAPIError       = 5
)

// ExitCode 把错误映射为进程退出码
func ExitCode(err error) int {
	var (
		cfgErr  *config.ConfigError
		hostErr *tesla.HostResolutionError
		authErr *tesla.AuthError
		apiErr  *tesla.APIError
	)

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.As(err, &hostErr):
		return ExitHostResolution
	case errors.As(err, &authErr):
		return ExitAuthError
	case errors.As(err, &apiErr):
		return ExitAPIError
	default:
		return ExitFailure
	}
}
