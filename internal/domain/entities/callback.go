package entities

import "time"

// ResultCodeSuccess is the gateway result code for a confirmed payment.
const ResultCodeSuccess = 0

// CallbackResult is the validated content of a gateway callback.
type CallbackResult struct {
	CorrelationID     string
	MerchantRequestID string
	ResultCode        int
	ResultDesc        string
	Amount            int64
	ReceiptRef        string
	PhoneNumber       string
	TransactionDate   *time.Time
}

func (r CallbackResult) Succeeded() bool {
	return r.ResultCode == ResultCodeSuccess
}
