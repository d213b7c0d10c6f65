package interfaces

//go:generate mockgen -source=payment_gateway_interface.go -destination=mocks/payment_gateway_interface_mock.go -package=mock_interfaces

import (
	"context"

	"harambee_billing/internal/domain/entities"
)

// IPaymentGateway abstracts the mobile-money provider (e.g. M-Pesa Daraja).
//
// InitiatePayment sends exactly one outbound request; adapters never retry,
// since a duplicate initiation can mean a duplicate charge.
type IPaymentGateway interface {
	InitiatePayment(ctx context.Context, req entities.PaymentRequest) (entities.GatewayAcceptance, error)
}
