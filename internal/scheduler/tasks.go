package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/logger"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/utils"
)

// BillGenerator 账单生成入口
type BillGenerator interface {
	GenerateAndUpload(ctx context.Context, billDate string) error
}

// BillTask 每日生成前一天的对账单
type BillTask struct {
	bills  BillGenerator
	logger *zap.Logger
	now    func() time.Time
}

// NewBillTask 创建账单任务
func NewBillTask(bills BillGenerator, log *zap.Logger) *BillTask {
	if log == nil {
		log = zap.NewNop()
	}
	return &BillTask{
		bills:  bills,
		logger: log,
		now:    time.Now,
	}
}

// Run 生成并上传 T-1 账单，失败等待下一次调度
func (t *BillTask) Run(ctx context.Context) error {
	billDate := utils.FormatDate(t.now().AddDate(0, 0, -1))
	t.logger.Info("开始生成每日账单", logger.BillDate(billDate))

	if err := t.bills.GenerateAndUpload(ctx, billDate); err != nil {
		t.logger.Error("每日账单生成失败", logger.BillDate(billDate), zap.Error(err))
		return err
	}
	t.logger.Info("每日账单生成完成", logger.BillDate(billDate))
	return nil
}
