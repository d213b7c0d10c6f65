package entities

import "fmt"

// PaymentRequest is the outbound "initiate payment" instruction sent to the gateway.
type PaymentRequest struct {
	IntentID         string
	Amount           int64
	PhoneNumber      string
	AccountReference string
	Description      string
}

// GatewayAcceptance is the gateway's synchronous answer to a PaymentRequest.
// CorrelationID links the eventual callback back to the intent.
type GatewayAcceptance struct {
	CorrelationID     string
	MerchantRequestID string
	ResponseCode      string
	Description       string
	CustomerMessage   string
}

// GatewayRejection is returned by gateway adapters when the provider answered
// but refused the request.
type GatewayRejection struct {
	Code    string
	Message string
}

func (e *GatewayRejection) Error() string {
	return fmt.Sprintf("gateway rejected request: code=%s message=%s", e.Code, e.Message)
}
