package state

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
)

// 运行阶段常量
const (
	StageConfigured    = "configured"
	StageHostResolved  = "host_resolved"
	StageAuthenticated = "authenticated"
	StageListed        = "listed"
	StageFailed        = "failed"
)

// 事件常量
const (
	EventResolveHost  = "resolve_host"
	EventAuthenticate = "authenticate"
	EventListVehicles = "list_vehicles"
	EventFail         = "fail"
)

// Machine 单次运行的阶段状态机
//
// 只允许 configured -> host_resolved -> authenticated -> listed 的顺序推进,
// 任何未结束的阶段都可以转入 failed.
type Machine struct {
	fsm           *fsm.FSM
	since         time.Time
	onStageChange func(from, to string, elapsed time.Duration)
}

// NewMachine 创建状态机, 初始阶段为 configured
func NewMachine(onStageChange func(from, to string, elapsed time.Duration)) *Machine {
	m := &Machine{
		since:         time.Now(),
		onStageChange: onStageChange,
	}

	m.fsm = fsm.NewFSM(
		StageConfigured,
		fsm.Events{
			{Name: EventResolveHost, Src: []string{StageConfigured}, Dst: StageHostResolved},
			{Name: EventAuthenticate, Src: []string{StageHostResolved}, Dst: StageAuthenticated},
			{Name: EventListVehicles, Src: []string{StageAuthenticated}, Dst: StageListed},
			{Name: EventFail, Src: []string{StageConfigured, StageHostResolved, StageAuthenticated}, Dst: StageFailed},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				now := time.Now()
				if m.onStageChange != nil && e.Src != e.Dst {
					m.onStageChange(e.Src, e.Dst, now.Sub(m.since))
				}
				m.since = now
			},
		},
	)

	return m
}

// Current 当前阶段
func (m *Machine) Current() string {
	return m.fsm.Current()
}

// Trigger 触发事件
//
// 阶段记录不受 ctx 取消影响, 取消后仍能转入 failed.
func (m *Machine) Trigger(ctx context.Context, event string) error {
	if err := m.fsm.Event(context.WithoutCancel(ctx), event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}
	return nil
}

// Can 检查事件在当前阶段是否允许
func (m *Machine) Can(event string) bool {
	return m.fsm.Can(event)
}

// Done 是否已结束
func (m *Machine) Done() bool {
	current := m.fsm.Current()
	return current == StageListed || current == StageFailed
}
