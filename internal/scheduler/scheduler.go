// Package scheduler 提供基于 cron 表达式的定时任务调度
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"
	"go.uber.org/zap"
)

// DefaultTaskTimeout 单次任务执行超时
const DefaultTaskTimeout = 30 * time.Minute

// Scheduler 定时任务调度器
type Scheduler struct {
	cron    *cron.Cron
	tasks   []*Task
	timeout time.Duration
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Task 定时任务
type Task struct {
	Name    string
	Spec    string
	Handler func(ctx context.Context) error
	running int32
}

// NewScheduler 创建调度器，表达式为带秒的 6 段格式
func NewScheduler(log *zap.Logger, timeout time.Duration) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTaskTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(),
		tasks:   make([]*Task, 0),
		timeout: timeout,
		logger:  log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(name, spec string, handler func(ctx context.Context) error) error {
	task := &Task{
		Name:    name,
		Spec:    spec,
		Handler: handler,
	}
	if err := s.cron.AddFunc(spec, func() { s.executeTask(task) }); err != nil {
		return fmt.Errorf("注册定时任务 %s 失败: %w", name, err)
	}
	s.tasks = append(s.tasks, task)
	return nil
}

// Start 启动调度器
func (s *Scheduler) Start() {
	s.logger.Info("定时任务调度器启动", zap.Int("tasks", len(s.tasks)))
	s.cron.Start()
}

// Stop 停止调度并等待执行中的任务结束
func (s *Scheduler) Stop() {
	s.logger.Info("定时任务调度器停止中")
	s.cron.Stop()
	s.cancel()
	s.wg.Wait()
	s.logger.Info("定时任务调度器已停止")
}

// executeTask 执行任务，上一次未结束时跳过本次触发
func (s *Scheduler) executeTask(task *Task) {
	if !atomic.CompareAndSwapInt32(&task.running, 0, 1) {
		s.logger.Warn("上次执行尚未结束，跳过", zap.String("task", task.Name))
		return
	}
	defer atomic.StoreInt32(&task.running, 0)

	s.wg.Add(1)
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := task.Handler(ctx); err != nil {
		s.logger.Error("定时任务执行失败", zap.String("task", task.Name), zap.Error(err))
		return
	}
	s.logger.Info("定时任务执行完成", zap.String("task", task.Name), zap.Duration("elapsed", time.Since(start)))
}
