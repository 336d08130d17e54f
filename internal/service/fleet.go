package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/sungm97/comed-tesla/internal/api/tesla"
	"github.com/sungm97/comed-tesla/internal/config"
	"github.com/sungm97/comed-tesla/internal/state"
)

// FleetAPI Fleet API 的两个调用
type FleetAPI interface {
	ExchangeRefreshToken(ctx context.Context, creds tesla.Credentials, audience string) (*tesla.Token, error)
	ListPartnerVehicles(ctx context.Context, host, clientID, accessToken string) ([]tesla.Vehicle, error)
}

// FleetService 一次性的 token 换取 + 车辆列表
type FleetService struct {
	cfg         *config.Config
	logger      *zap.Logger
	teslaClient FleetAPI
	out         io.Writer
}

// NewFleetService 创建服务, out 接收进度信息与最终 JSON
func NewFleetService(cfg *config.Config, logger *zap.Logger, teslaClient FleetAPI, out io.Writer) *FleetService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FleetService{
		cfg:         cfg,
		logger:      logger,
		teslaClient: teslaClient,
		out:         out,
	}
}

// Run 按顺序执行: 校验配置 -> 确定主机 -> 换取 token -> 列出车辆
func (s *FleetService) Run(ctx context.Context) ([]tesla.VehicleSummary, error) {
	machine := state.NewMachine(s.onStageChange)

	// 任何网络请求之前校验配置
	if err := s.cfg.Validate(); err != nil {
		return nil, s.fail(ctx, machine, err)
	}

	host, err := tesla.ResolveHost(s.cfg.APIHost, s.cfg.RefreshToken)
	if err != nil {
		return nil, s.fail(ctx, machine, err)
	}
	s.progress("Using API host from %s: %s", host.Source, host.Host)

	if err := machine.Trigger(ctx, state.EventResolveHost); err != nil {
		return nil, err
	}

	s.progress("Exchanging refresh token for access token...")

	creds := tesla.Credentials{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		RefreshToken: s.cfg.RefreshToken,
	}

	token, err := s.teslaClient.ExchangeRefreshToken(ctx, creds, host.Host)
	if err != nil {
		return nil, s.fail(ctx, machine, err)
	}
	s.progress("Access token obtained (expires_in %ds)", token.ExpiresIn)

	if err := machine.Trigger(ctx, state.EventAuthenticate); err != nil {
		return nil, err
	}

	s.progress("Fetching vehicle list via partner endpoint...")

	vehicles, err := s.teslaClient.ListPartnerVehicles(ctx, host.Host, s.cfg.ClientID, token.AccessToken)
	if err != nil {
		return nil, s.fail(ctx, machine, err)
	}

	if err := machine.Trigger(ctx, state.EventListVehicles); err != nil {
		return nil, err
	}

	summary := tesla.Summarize(vehicles)

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode vehicles: %w", err)
	}

	s.progress("Vehicles found:")
	if _, err := fmt.Fprintln(s.out, string(data)); err != nil {
		return nil, fmt.Errorf("write vehicles: %w", err)
	}

	s.logger.Info("Vehicle list printed", zap.Int("count", len(summary)))

	return summary, nil
}

// fail 记录失败阶段并原样返回错误
func (s *FleetService) fail(ctx context.Context, machine *state.Machine, err error) error {
	stage := machine.Current()
	if trigErr := machine.Trigger(ctx, state.EventFail); trigErr != nil {
		s.logger.Warn("Failed to record failure", zap.Error(trigErr))
	}

	s.logger.Debug("Run failed", zap.String("stage", stage), zap.Error(err))
	return err
}

func (s *FleetService) onStageChange(from, to string, elapsed time.Duration) {
	s.logger.Debug("Stage changed",
		zap.String("from", from),
		zap.String("to", to),
		zap.Duration("elapsed", elapsed),
	)
}

func (s *FleetService) progress(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}
