// Package bill 提供对账单生成、上传与下载服务
package bill

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/errors"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/logger"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/metrics"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/tracing"
	"github.com/dumeirei/tbsg-pay-adapter/internal/common/utils"
	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
	"github.com/dumeirei/tbsg-pay-adapter/internal/repository"
	"github.com/dumeirei/tbsg-pay-adapter/pkg/oss"
)

// Config 账单服务配置
type Config struct {
	PayCode      string
	StoragePath  string
	ObjectPrefix string
	URLExpire    time.Duration
	MaxAgeDays   int
}

// BillService 账单服务
type BillService struct {
	repo    *repository.BillRecordRepository
	storage oss.Uploader
	config  Config
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewBillService 创建账单服务
func NewBillService(
	repo *repository.BillRecordRepository,
	storage oss.Uploader,
	config Config,
	m *metrics.Metrics,
	log *zap.Logger,
) *BillService {
	if config.ObjectPrefix == "" {
		config.ObjectPrefix = "bills/"
	}
	if config.URLExpire <= 0 {
		config.URLExpire = time.Hour
	}
	if config.MaxAgeDays <= 0 {
		config.MaxAgeDays = 30
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BillService{
		repo:    repo,
		storage: storage,
		config:  config,
		metrics: m,
		logger:  log,
		now:     time.Now,
	}
}

// IsValidDate 判断账单日期是否可下载：格式为 yyyy-MM-dd，早于今天且晚于 MaxAgeDays 天前
func (s *BillService) IsValidDate(billDate string) bool {
	return s.ValidateBillDate(billDate) == nil
}

// ValidateBillDate 校验账单日期，返回具体原因
func (s *BillService) ValidateBillDate(billDate string) error {
	now := s.now()
	if len(billDate) != len(utils.DateLayout) {
		return errors.ErrInvalidBillDate
	}
	date, err := time.ParseInLocation(utils.DateLayout, billDate, now.Location())
	if err != nil {
		return errors.ErrInvalidBillDate
	}

	today := utils.StartOfDay(now)
	if !date.Before(today) {
		return errors.ErrBillDateNotSettled
	}
	// 下界不含：恰好 MaxAgeDays 天前的日期同样拒绝
	limit := today.AddDate(0, 0, -s.config.MaxAgeDays)
	if !date.After(limit) {
		return errors.ErrBillDateExpired
	}
	return nil
}

// FileName 账单文件名
func (s *BillService) FileName(billDate string) string {
	return fmt.Sprintf("%s_bill_%s.csv", s.config.PayCode, billDate)
}

// ObjectKey 账单在对象存储中的路径
func (s *BillService) ObjectKey(billDate string) string {
	return s.config.ObjectPrefix + s.FileName(billDate)
}

// AppendPayRecord 在事务内写入支付成功明细
func (s *BillService) AppendPayRecord(ctx context.Context, tx *gorm.DB, order *models.PaymentOrder) error {
	return s.repo.Create(ctx, tx, NewPayRecord(s.config.PayCode, order))
}

// AppendRefundRecord 在事务内写入退款成功明细
func (s *BillService) AppendRefundRecord(ctx context.Context, tx *gorm.DB, refund *models.RefundOrder, order *models.PaymentOrder) error {
	return s.repo.Create(ctx, tx, NewRefundRecord(s.config.PayCode, refund, order))
}

// GenerateAndUpload 生成指定日期的账单并上传，本地临时文件无论成败都会删除
func (s *BillService) GenerateAndUpload(ctx context.Context, billDate string) (err error) {
	ctx, span := tracing.Start(ctx, "bill.GenerateAndUpload", tracing.WithBillDate(billDate))
	lines := 0
	defer func() {
		s.metrics.RecordBillGeneration(err == nil, lines)
		tracing.End(span, err)
	}()

	records, err := s.repo.ListByBillDate(ctx, billDate)
	if err != nil {
		return errors.ErrBillGenerateFailed.WithError(err)
	}
	kept := FilterRecords(records)
	lines = len(kept)

	s.logger.Info("账单明细已过滤",
		logger.BillDate(billDate),
		zap.Int("total", len(records)),
		zap.Int("kept", lines),
	)

	if err := os.MkdirAll(s.config.StoragePath, 0o755); err != nil {
		return errors.ErrBillGenerateFailed.WithError(err)
	}
	// 同一日期可能被定时任务与下载请求同时生成，临时文件名需唯一
	f, err := os.CreateTemp(s.config.StoragePath, s.FileName(billDate)+".*")
	if err != nil {
		return errors.ErrBillGenerateFailed.WithError(err)
	}
	path := f.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Warn("删除本地账单文件失败", zap.String("path", path), zap.Error(rmErr))
		}
	}()

	if err := writeFile(f, kept); err != nil {
		return errors.ErrBillGenerateFailed.WithError(err)
	}

	key := s.ObjectKey(billDate)
	if _, err := s.storage.UploadFile(ctx, key, path); err != nil {
		return errors.ErrBillUploadFailed.WithError(err)
	}

	s.logger.Info("账单已上传", logger.BillDate(billDate), zap.String("object_key", key), zap.Int("lines", lines))
	return nil
}

func writeFile(f *os.File, records []*models.BillRecord) error {
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DownloadBill 校验日期，对象不存在时即时生成，返回限时下载地址
func (s *BillService) DownloadBill(ctx context.Context, billDate string) (string, error) {
	if err := s.ValidateBillDate(billDate); err != nil {
		return "", err
	}

	key := s.ObjectKey(billDate)
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return "", errors.ErrBillUploadFailed.WithError(err)
	}
	if !exists {
		s.logger.Warn("账单文件不存在，即时生成", logger.BillDate(billDate), zap.String("object_key", key))
		if err := s.GenerateAndUpload(ctx, billDate); err != nil {
			return "", err
		}
	}

	url, err := s.storage.GetSignedURL(key, s.config.URLExpire)
	if err != nil {
		return "", errors.ErrBillUploadFailed.WithError(err)
	}
	return url, nil
}
