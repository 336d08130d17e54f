package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnvFile 默认 dotenv 文件
const DefaultEnvFile = ".env"

// 配置键
const (
	KeyClientID     = "client_id"
	KeyClientSecret = "client_secret"
	KeyRefreshToken = "refresh_token"
	KeyAPIHost      = "api_host"
)

// 环境变量名
const (
	EnvClientID     = "TESLA_CLIENT_ID"
	EnvClientSecret = "TESLA_CLIENT_SECRET"
	EnvRefreshToken = "TESLA_REFRESH_TOKEN"
	EnvAPIHost      = "TESLA_API_HOST"
)

var envBindings = []struct {
	key string
	env string
}{
	{KeyClientID, EnvClientID},
	{KeyClientSecret, EnvClientSecret},
	{KeyRefreshToken, EnvRefreshToken},
	{KeyAPIHost, EnvAPIHost},
}

// Config 运行配置, 进程启动时构造一次, 之后只读
type Config struct {
	// Tesla Fleet API
	ClientID     string
	ClientSecret string
	RefreshToken string
	APIHost      string // 可选, 为空时从 refresh token 中解析
}

// ConfigError 缺少必需配置
type ConfigError struct {
	Missing []string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error: missing %s", strings.Join(e.Missing, ", "))
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load 加载配置
//
// envFile 为 dotenv 文件路径, 已存在于进程环境中的变量优先于文件.
// mustExist 为 false 时文件不存在会被忽略.
// v 可以预先绑定命令行参数 (例如 api_host), 为 nil 时新建.
func Load(v *viper.Viper, envFile string, mustExist bool) (*Config, error) {
	if err := loadEnvFile(envFile, mustExist); err != nil {
		return nil, &ConfigError{Err: err}
	}

	if v == nil {
		v = viper.New()
	}

	for _, b := range envBindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, &ConfigError{Err: fmt.Errorf("bind %s: %w", b.env, err)}
		}
	}

	cfg := &Config{
		ClientID:     strings.TrimSpace(v.GetString(KeyClientID)),
		ClientSecret: strings.TrimSpace(v.GetString(KeyClientSecret)),
		RefreshToken: strings.TrimSpace(v.GetString(KeyRefreshToken)),
		APIHost:      strings.TrimSpace(v.GetString(KeyAPIHost)),
	}

	return cfg, nil
}

// Validate 检查必需字段, 任何网络请求之前调用
func (c *Config) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if c.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if c.RefreshToken == "" {
		missing = append(missing, EnvRefreshToken)
	}

	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

func loadEnvFile(path string, mustExist bool) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if !mustExist && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}
