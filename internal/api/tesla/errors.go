package tesla

import (
	"errors"
	"fmt"
)

// HostResolutionError 无法确定区域 API 主机
type HostResolutionError struct {
	Err error
}

func (e *HostResolutionError) Error() string {
	return fmt.Sprintf("could not derive API host (set TESLA_API_HOST): %v", e.Err)
}

func (e *HostResolutionError) Unwrap() error {
	return e.Err
}

// AuthError refresh token 换取 access token 失败
type AuthError struct {
	StatusCode int    // 0 表示请求未得到响应
	Body       string // 原样保留的响应体
	Err        error
}

func (e *AuthError) Error() string {
	return formatHTTPError("auth error", e.StatusCode, e.Body, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError Fleet API 请求失败
type APIError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	return formatHTTPError("vehicle list error", e.StatusCode, e.Body, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// 错误定义
var (
	ErrNoAccessToken = errors.New("no access_token in response")
	ErrBadIssuer     = errors.New("issuer must be an https:// URL")
)

func formatHTTPError(prefix string, status int, body string, err error) string {
	switch {
	case status == 0 && err != nil:
		return fmt.Sprintf("%s: %v", prefix, err)
	case err != nil:
		return fmt.Sprintf("%s %d: %v: %s", prefix, status, err, body)
	default:
		return fmt.Sprintf("%s %d: %s", prefix, status, body)
	}
}
