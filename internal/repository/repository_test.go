// Package repository 仓储层单元测试
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/database"
	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newOrder(txID, outTradeNo string, amount int64) *models.PaymentOrder {
	return &models.PaymentOrder{
		TransactionID: txID,
		OutTradeNo:    outTradeNo,
		PayAmount:     amount,
		Subject:       "测试商品",
		PayStatus:     models.PayStatusNotPay,
		RequestTime:   time.Now(),
	}
}

func TestPaymentOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentOrderRepository(db)
	ctx := context.Background()

	order := newOrder("TX001", "PAY_OUT_TRADENO_1", 1000)
	require.NoError(t, repo.Create(ctx, db, order))
	require.NotZero(t, order.ID)

	t.Run("按交易号查询", func(t *testing.T) {
		got, err := repo.GetByTransactionID(ctx, "TX001")
		require.NoError(t, err)
		assert.Equal(t, "PAY_OUT_TRADENO_1", got.OutTradeNo)
		assert.Equal(t, int64(1000), got.PayAmount)
	})

	t.Run("不存在返回 ErrRecordNotFound", func(t *testing.T) {
		_, err := repo.GetByTransactionID(ctx, "NOPE")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("交易号唯一", func(t *testing.T) {
		err := repo.Create(ctx, db, newOrder("TX001", "PAY_OUT_TRADENO_2", 1000))
		require.Error(t, err)
		assert.True(t, database.IsDuplicateKey(err))
	})

	t.Run("事务内加锁读取", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			got, err := repo.GetByTransactionIDForUpdate(ctx, tx, "TX001")
			require.NoError(t, err)
			assert.Equal(t, order.ID, got.ID)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("按原状态条件更新", func(t *testing.T) {
		now := time.Now()
		rows, err := repo.UpdateStatus(ctx, db, order.ID, models.PayStatusNotPay, models.PayStatusSuccess, &now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		rows, err = repo.UpdateStatus(ctx, db, order.ID, models.PayStatusNotPay, models.PayStatusClosed, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows, "原状态已变化时不更新")

		got, err := repo.GetByTransactionID(ctx, "TX001")
		require.NoError(t, err)
		assert.Equal(t, models.PayStatusSuccess, got.PayStatus)
		require.NotNil(t, got.SuccessTime)
	})
}

func TestRefundOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRefundOrderRepository(db)
	ctx := context.Background()

	for i, no := range []string{"R001", "R002"} {
		refund := &models.RefundOrder{
			RefundNo:      no,
			TransactionID: "TX001",
			OutRefundNo:   "REFUND_OUT_TRADENO_" + no,
			PayAmount:     1000,
			RefundAmount:  int64(100 * (i + 1)),
			RefundStatus:  models.RefundStatusSuccess,
			RequestTime:   time.Now(),
		}
		require.NoError(t, repo.Create(ctx, db, refund))
	}

	t.Run("按退款单号查询", func(t *testing.T) {
		got, err := repo.GetByRefundNo(ctx, "R002")
		require.NoError(t, err)
		assert.Equal(t, int64(200), got.RefundAmount)

		inTx, err := repo.GetByRefundNoInTx(ctx, db, "R001")
		require.NoError(t, err)
		assert.Equal(t, int64(100), inTx.RefundAmount)
	})

	t.Run("退款单号唯一", func(t *testing.T) {
		err := repo.Create(ctx, db, &models.RefundOrder{
			RefundNo:    "R001",
			OutRefundNo: "REFUND_OUT_TRADENO_X",
			RequestTime: time.Now(),
		})
		assert.True(t, database.IsDuplicateKey(err))
	})
}

func TestBillRecordRepository_ListByBillDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBillRecordRepository(db)
	ctx := context.Background()

	records := []*models.BillRecord{
		{BillDate: "2024-01-01", TransType: models.TransTypeRefund, TransactionID: "R1", OutTransactionID: "OR1", TransStatus: "S"},
		{BillDate: "2024-01-01", TransType: models.TransTypePay, TransactionID: "TX1", OutTransactionID: "OP1", TransStatus: "S"},
		{BillDate: "2024-01-02", TransType: models.TransTypePay, TransactionID: "TX9", OutTransactionID: "OP9", TransStatus: "S"},
		{BillDate: "2024-01-01", TransType: models.TransTypePay, TransactionID: "TX2", OutTransactionID: "OP2", TransStatus: "S"},
	}
	for _, r := range records {
		require.NoError(t, repo.Create(ctx, db, r))
	}

	got, err := repo.ListByBillDate(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "TX1", got[0].TransactionID)
	assert.Equal(t, "TX2", got[1].TransactionID)
	assert.Equal(t, "R1", got[2].TransactionID)

	empty, err := repo.ListByBillDate(ctx, "2023-12-31")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNotifyLogRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotifyLogRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.NotifyLog{
		NotifyType: models.NotifyTypePay,
		BizNo:      "TX001",
		NotifyURL:  "https://tbsg.example.com/notify",
		Request:    datatypes.JSON(`{"payStatus":"SUCCESS"}`),
		Response:   "FAIL",
		HTTPStatus: 500,
		Status:     models.NotifyStatusFailed,
	}))
	require.NoError(t, repo.Create(ctx, &models.NotifyLog{
		NotifyType: models.NotifyTypePay,
		BizNo:      "TX001",
		Request:    datatypes.JSON(`{"payStatus":"SUCCESS"}`),
		Response:   "SUCCESS",
		HTTPStatus: 200,
		Status:     models.NotifyStatusSuccess,
	}))

	logs, err := repo.ListByBizNo(ctx, models.NotifyTypePay, "TX001")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.NotifyStatusSuccess, logs[0].Status)
	assert.JSONEq(t, `{"payStatus":"SUCCESS"}`, string(logs[1].Request))
}
