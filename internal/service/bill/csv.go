package bill

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/dumeirei/tbsg-pay-adapter/internal/models"
)

// Headers 账单文件列，顺序固定
var Headers = []string{
	"bill_date",
	"pay_code",
	"trans_type",
	"request_time",
	"success_time",
	"transaction_id",
	"out_transaction_id",
	"trans_status",
	"trans_amount",
	"user_trans_real_amount",
	"settle_amount",
	"marketing_amount",
	"marketing_type",
	"marketing_fee",
	"origin_transaction_id",
	"rate",
	"fee",
}

// WriteCSV 写出账单，无明细时只有表头
func WriteCSV(w io.Writer, records []*models.BillRecord) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(Headers); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(r *models.BillRecord) []string {
	return []string{
		r.BillDate,
		r.PayCode,
		r.TransType,
		r.RequestTime,
		r.SuccessTime,
		r.TransactionID,
		r.OutTransactionID,
		r.TransStatus,
		strconv.FormatInt(r.TransAmount, 10),
		strconv.FormatInt(r.UserTransRealAmount, 10),
		strconv.FormatInt(r.SettleAmount, 10),
		strconv.FormatInt(r.MarketingAmount, 10),
		r.MarketingType,
		strconv.FormatInt(r.MarketingFee, 10),
		r.OriginTransactionID,
		strconv.FormatInt(r.Rate, 10),
		strconv.FormatInt(r.Fee, 10),
	}
}
