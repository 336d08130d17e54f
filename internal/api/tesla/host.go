package tesla

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// HostSource API 主机来源
type HostSource string

const (
	HostSourceConfig HostSource = "TESLA_API_HOST"
	HostSourceToken  HostSource = "token payload"
)

// HostResolution 解析结果
type HostResolution struct {
	Host   string
	Source HostSource
}

// ResolveHost 确定区域 API 主机
//
// apiHost 非空时原样使用, 否则读取 refresh token 载荷中的 iss.
func ResolveHost(apiHost, refreshToken string) (HostResolution, error) {
	if apiHost != "" {
		return HostResolution{Host: apiHost, Source: HostSourceConfig}, nil
	}

	issuer, err := tokenIssuer(refreshToken)
	if err != nil {
		return HostResolution{}, &HostResolutionError{Err: err}
	}

	return HostResolution{Host: issuer, Source: HostSourceToken}, nil
}

// tokenIssuer 不校验签名, 只解码 header.payload.signature 的中间段
func tokenIssuer(raw string) (string, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("refresh token has %d segments, want 3", len(parts))
	}

	parser := jwt.NewParser(jwt.WithPaddingAllowed())
	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode token payload: %w", err)
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", fmt.Errorf("parse token payload: %w", err)
	}

	issuer, err := claims.GetIssuer()
	if err != nil {
		return "", fmt.Errorf("read iss claim: %w", err)
	}

	if !strings.HasPrefix(issuer, "https://") {
		return "", fmt.Errorf("iss %q: %w", issuer, ErrBadIssuer)
	}

	return issuer, nil
}
