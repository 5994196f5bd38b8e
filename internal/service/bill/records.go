package bill

import (
	"time"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/utils"
	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
)

// NewPayRecord 由支付成功的订单构造账单明细
func NewPayRecord(payCode string, order *models.PaymentOrder) *models.BillRecord {
	return newRecord(payCode, models.TransTypePay, order.RequestTime, order.SuccessTime, order.PayAmount,
		order.TransactionID, order.OutTradeNo, "")
}

// NewRefundRecord 由退款成功的退款单构造账单明细，原交易号指向支付订单
func NewRefundRecord(payCode string, refund *models.RefundOrder, order *models.PaymentOrder) *models.BillRecord {
	return newRecord(payCode, models.TransTypeRefund, refund.RequestTime, refund.SuccessTime, refund.RefundAmount,
		refund.RefundNo, refund.OutRefundNo, order.TransactionID)
}

func newRecord(payCode, transType string, requestTime time.Time, successTime *time.Time, amount int64,
	transactionID, outTransactionID, originTransactionID string) *models.BillRecord {
	billTime := requestTime
	if successTime != nil && !successTime.IsZero() {
		billTime = *successTime
	}
	return &models.BillRecord{
		BillDate:            utils.FormatDate(billTime),
		PayCode:             payCode,
		TransType:           transType,
		RequestTime:         utils.FormatDateTime(&requestTime),
		SuccessTime:         utils.FormatDateTime(successTime),
		TransactionID:       transactionID,
		OutTransactionID:    outTransactionID,
		TransStatus:         models.TransStatusSuccess,
		TransAmount:         amount,
		UserTransRealAmount: amount,
		OriginTransactionID: originTransactionID,
	}
}

// FilterRecords 剔除同日全额退款的支付与退款明细
// 同一交易号有多条支付明细时以第一条为准；部分退款和找不到原支付的退款保留
func FilterRecords(records []*models.BillRecord) []*models.BillRecord {
	pays := make(map[string]*models.BillRecord)
	for _, r := range records {
		if r.TransType != models.TransTypePay {
			continue
		}
		if _, ok := pays[r.TransactionID]; !ok {
			pays[r.TransactionID] = r
		}
	}

	excluded := make(map[string]struct{})
	for _, r := range records {
		if r.TransType != models.TransTypeRefund || r.OriginTransactionID == "" {
			continue
		}
		pay, ok := pays[r.OriginTransactionID]
		if !ok || pay.TransAmount != r.TransAmount {
			continue
		}
		excluded[pay.TransactionID] = struct{}{}
		excluded[r.TransactionID] = struct{}{}
	}

	if len(excluded) == 0 {
		return records
	}

	kept := make([]*models.BillRecord, 0, len(records))
	for _, r := range records {
		if _, ok := excluded[r.TransactionID]; ok {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
