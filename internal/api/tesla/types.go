package tesla

import (
	"encoding/json"
	"time"
)

// Token 认证令牌
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresIn    int       `json:"expires_in"`
	CreatedAt    time.Time `json:"-"`
}

// ExpiresAt 过期时间
func (t *Token) ExpiresAt() time.Time {
	return t.CreatedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// Credentials 合作方应用凭据
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Vehicle 合作方接口返回的车辆信息
//
// 只解码输出需要的四个字段, 原样保留 JSON 值: 缺失或为 null 时输出 null,
// 其他字段的类型不影响解码.
type Vehicle struct {
	ID          json.RawMessage `json:"id"`
	VIN         json.RawMessage `json:"vin"`
	DisplayName json.RawMessage `json:"display_name"`
	State       json.RawMessage `json:"state"` // online, asleep, offline
}

// VehicleSummary 输出用的车辆投影
type VehicleSummary struct {
	ID    json.RawMessage `json:"id"`
	VIN   json.RawMessage `json:"vin"`
	Name  json.RawMessage `json:"name"`
	State json.RawMessage `json:"state"`
}

// Summarize 投影为 {id, vin, name, state}, 空列表返回非 nil 切片
func Summarize(vehicles []Vehicle) []VehicleSummary {
	out := make([]VehicleSummary, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, VehicleSummary{
			ID:    v.ID,
			VIN:   v.VIN,
			Name:  v.DisplayName,
			State: v.State,
		})
	}
	return out
}
