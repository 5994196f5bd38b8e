package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentOrder_CanTransitTo(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{PayStatusNotPay, PayStatusProcessing, true},
		{PayStatusNotPay, PayStatusSuccess, true},
		{PayStatusNotPay, PayStatusClosed, true},
		{PayStatusPending, PayStatusSuccess, true},
		{PayStatusNotPay, PayStatusFail, false},
		{PayStatusProcessing, PayStatusSuccess, true},
		{PayStatusProcessing, PayStatusClosed, true},
		{PayStatusProcessing, PayStatusNotPay, false},
		{PayStatusSuccess, PayStatusClosed, false},
		{PayStatusClosed, PayStatusSuccess, false},
		{PayStatusFail, PayStatusSuccess, false},
	}

	for _, tc := range cases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			o := &PaymentOrder{PayStatus: tc.from}
			assert.Equal(t, tc.want, o.CanTransitTo(tc.to))
		})
	}
}

func TestPaymentOrder_IsTerminal(t *testing.T) {
	assert.True(t, (&PaymentOrder{PayStatus: PayStatusSuccess}).IsTerminal())
	assert.True(t, (&PaymentOrder{PayStatus: PayStatusClosed}).IsTerminal())
	assert.False(t, (&PaymentOrder{PayStatus: PayStatusNotPay}).IsTerminal())
	assert.False(t, (&PaymentOrder{PayStatus: PayStatusProcessing}).IsTerminal())
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "payment_orders", PaymentOrder{}.TableName())
	assert.Equal(t, "refund_orders", RefundOrder{}.TableName())
	assert.Equal(t, "bill_records", BillRecord{}.TableName())
	assert.Equal(t, "notify_logs", NotifyLog{}.TableName())
	assert.Len(t, All(), 4)
}
