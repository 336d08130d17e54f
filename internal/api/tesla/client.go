package tesla

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTokenURL Tesla 认证服务的 token 端点
const DefaultTokenURL = "https://auth.tesla.com/oauth2/v3/token"

const userAgent = "comed-tesla/1.0"

// Client Tesla Fleet API 客户端
type Client struct {
	httpClient *http.Client
	tokenURL   string
	logger     *zap.Logger
}

// NewClient 创建新的 Tesla Fleet API 客户端
func NewClient(tokenURL string, logger *zap.Logger) *Client {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokenURL: tokenURL,
		logger:   logger,
	}
}

// ExchangeRefreshToken 用 refresh token 换取 access token
//
// audience 为目标区域 API 主机. 返回的 token 不做任何持久化.
func (c *Client) ExchangeRefreshToken(ctx context.Context, creds Credentials, audience string) (*Token, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", creds.ClientID)
	data.Set("client_secret", creds.ClientSecret)
	data.Set("refresh_token", creds.RefreshToken)
	data.Set("audience", audience)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("create refresh request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("Exchanging refresh token",
		zap.String("url", c.tokenURL),
		zap.String("client_id", creds.ClientID),
		zap.String("audience", audience),
	)

	status, body, err := c.do(req)
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("refresh token request: %w", err)}
	}

	if !isSuccess(status) {
		return nil, &AuthError{StatusCode: status, Body: string(body)}
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, &AuthError{StatusCode: status, Body: string(body), Err: fmt.Errorf("decode token response: %w", err)}
	}

	if token.AccessToken == "" {
		return nil, &AuthError{StatusCode: status, Body: string(body), Err: ErrNoAccessToken}
	}

	token.CreatedAt = time.Now()

	c.logger.Debug("Access token obtained",
		zap.String("token_type", token.TokenType),
		zap.Int("expires_in", token.ExpiresIn),
	)

	return &token, nil
}

// apiResponse 通用 API 响应结构
type apiResponse struct {
	Response json.RawMessage `json:"response"`
}

// ListPartnerVehicles 通过合作方端点获取车辆列表
//
// 响应中缺少 response 字段时返回空列表.
// host 末尾的 '/' 只在拼接请求地址时去掉, audience 仍使用原值.
func (c *Client) ListPartnerVehicles(ctx context.Context, host, clientID, accessToken string) ([]Vehicle, error) {
	endpoint := strings.TrimRight(host, "/") + "/api/1/partners/" + url.PathEscape(clientID) + "/vehicles"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, &APIError{Err: fmt.Errorf("create vehicle list request: %w", err)}
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("Listing partner vehicles", zap.String("url", endpoint))

	status, body, err := c.do(req)
	if err != nil {
		return nil, &APIError{Err: fmt.Errorf("vehicle list request: %w", err)}
	}

	if !isSuccess(status) {
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, &APIError{StatusCode: status, Body: string(body), Err: fmt.Errorf("decode response: %w", err)}
	}

	vehicles := []Vehicle{}
	if len(apiResp.Response) == 0 || string(apiResp.Response) == "null" {
		c.logger.Debug("Response has no vehicle list, treating as empty")
		return vehicles, nil
	}

	if err := json.Unmarshal(apiResp.Response, &vehicles); err != nil {
		return nil, &APIError{StatusCode: status, Body: string(body), Err: fmt.Errorf("decode vehicles: %w", err)}
	}

	c.logger.Debug("Partner vehicles listed", zap.Int("count", len(vehicles)))

	return vehicles, nil
}

// do 执行请求并读取完整响应体
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
